// Package chat answers questions about stored documents. Documents are
// split into fixed-size chunks, embedded, and indexed in the vector
// store; answers are generated from the top-ranked chunks.
package chat

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/internal/vectorstore"
	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/logger"
)

const (
	chunkSize   = 500
	searchLimit = 5

	chatSystemPrompt = "You are a helpful AI assistant that answers questions based on the provided document context."

	// Returned instead of an error when the completion call fails, so a
	// flaky model endpoint degrades the answer rather than the request
	completionFallback = "Sorry, I couldn't get a response from the language model."
)

var collectionIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// Service answers document questions over the vector store
type Service struct {
	store    VectorStore
	embedder Embedder
	client   CompletionClient
	fetcher  Fetcher
}

// NewService creates a new chat service
func NewService(store VectorStore, embedder Embedder, client CompletionClient, fetcher Fetcher) *Service {
	return &Service{store: store, embedder: embedder, client: client, fetcher: fetcher}
}

// Ask answers a question against an existing collection, or fetches and
// indexes a document into a new collection first when the request names
// a document instead.
func (s *Service) Ask(ctx context.Context, req *AskRequest) (*AskResponse, error) {
	var collection string
	var createdCollection string

	switch {
	case req.CollectionID != "":
		collection = req.CollectionID
	case req.DocumentID != "" && req.BucketName != "":
		newCollection, err := s.indexDocument(ctx, req.BucketName, req.DocumentID)
		if err != nil {
			return nil, err
		}
		collection = newCollection
		createdCollection = newCollection
	default:
		return nil, common.NewBadRequestError("provide either collection_id or both document_id and bucket_name")
	}

	contextText, err := s.searchContext(ctx, collection, req.Question)
	if err != nil {
		return nil, err
	}
	if contextText == "" {
		return &AskResponse{
			Response: fmt.Sprintf(
				"Could not find relevant information in %q to answer your question.", collection),
			CollectionID: createdCollection,
		}, nil
	}

	return &AskResponse{
		Response:     s.generateAnswer(ctx, req.Question, contextText),
		CollectionID: createdCollection,
	}, nil
}

// DeleteCollection removes a collection's chunks and returns the number
// of chunks deleted.
func (s *Service) DeleteCollection(ctx context.Context, collection string) (int64, error) {
	exists, err := s.store.HasCollection(ctx, collection)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, common.NewNotFoundError("collection not found")
	}
	return s.store.DeleteCollection(ctx, collection)
}

// indexDocument fetches a stored document, chunks it, and indexes it
// under a freshly generated collection ID.
func (s *Service) indexDocument(ctx context.Context, bucket, documentID string) (string, error) {
	content, err := s.fetcher.Fetch(ctx, path.Join(bucket, documentID))
	if err != nil {
		return "", common.NewInternalServerError(
			fmt.Sprintf("could not fetch document %q from bucket %q", documentID, bucket), err)
	}

	chunks := chunkDocument(string(content), documentID)
	if len(chunks) == 0 {
		return "", common.NewInternalServerError(
			fmt.Sprintf("document %q is empty or could not be processed", documentID), nil)
	}

	inputs := make([]string, len(chunks))
	for i, chunk := range chunks {
		inputs[i] = chunk.Content
	}
	vectors, err := s.embedder.Embed(ctx, inputs)
	if err != nil {
		return "", err
	}

	collection := newCollectionID(documentID)
	if err := s.store.UpsertChunks(ctx, collection, chunks, vectors); err != nil {
		return "", common.NewPersistenceError("failed to index document chunks", err)
	}

	logger.Info("indexed document into new collection",
		zap.String("document_id", documentID),
		zap.String("collection", collection),
		zap.Int("chunks", len(chunks)))
	return collection, nil
}

// searchContext embeds the question and joins the top-ranked chunks
func (s *Service) searchContext(ctx context.Context, collection, question string) (string, error) {
	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", err
	}
	if len(vectors) == 0 {
		return "", common.NewUpstreamServiceError("embedding response was empty", nil)
	}

	results, err := s.store.Search(ctx, collection, vectors[0], searchLimit)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Content != "" {
			parts = append(parts, r.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func (s *Service) generateAnswer(ctx context.Context, question, contextText string) string {
	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Model: s.client.Model(),
		Messages: []llm.Message{
			llm.SystemMessage(chatSystemPrompt),
			llm.UserMessage(fmt.Sprintf("Context: %s\n\nQuestion: %s\n\nAnswer:", contextText, question)),
		},
	})
	if err != nil {
		logger.Warn("chat completion failed", zap.Error(err))
		return completionFallback
	}
	return resp.Content
}

// chunkDocument splits content into fixed-size chunks with IDs derived
// from the source document.
func chunkDocument(content, documentID string) []vectorstore.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var chunks []vectorstore.Chunk
	for i := 0; i*chunkSize < len(content); i++ {
		end := (i + 1) * chunkSize
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, vectorstore.Chunk{
			ChunkID: fmt.Sprintf("%s_%d", documentID, i),
			Content: content[i*chunkSize : end],
		})
	}
	return chunks
}

// newCollectionID builds a unique, reference-safe collection ID
func newCollectionID(documentID string) string {
	sanitized := collectionIDSanitizer.ReplaceAllString(documentID, "_")
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("doc_%s_%s", sanitized, suffix)
}
