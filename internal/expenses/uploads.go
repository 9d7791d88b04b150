package expenses

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/storage"
)

// Receipt uploads accept images and PDFs only
var allowedReceiptTypes = []string{"image/*", "application/pdf"}

const uploadURLTTL = 15 * time.Minute

// CreateUploadURL generates a presigned upload destination for a receipt.
// The client PUTs the file there directly, then submits the returned
// document_url for parsing.
func (s *Service) CreateUploadURL(ctx context.Context, userID uuid.UUID, req *UploadRequest) (*UploadTarget, error) {
	contentType, err := resolveReceiptType(req.Filename, req.ContentType)
	if err != nil {
		return nil, err
	}

	key := storage.GenerateReceiptKey(userID, req.Filename)
	presigned, err := s.store.GetPresignedUploadURL(ctx, key, contentType, uploadURLTTL)
	if err != nil {
		return nil, common.NewUpstreamServiceError("failed to create upload URL", err)
	}

	return &UploadTarget{
		Key:         key,
		UploadURL:   presigned.URL,
		Method:      presigned.Method,
		Headers:     presigned.Headers,
		DocumentURL: s.store.GetURL(key),
		ExpiresAt:   presigned.ExpiresAt,
	}, nil
}

// UploadReceipt stores a receipt streamed through the API, for clients that
// cannot use presigned uploads.
func (s *Service) UploadReceipt(ctx context.Context, userID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*storage.UploadResult, error) {
	contentType, err := resolveReceiptType(filename, contentType)
	if err != nil {
		return nil, err
	}

	key := storage.GenerateReceiptKey(userID, filename)
	result, err := s.store.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, common.NewUpstreamServiceError("failed to store receipt", err)
	}
	return result, nil
}

// resolveReceiptType settles the content type, falling back to the filename
// extension, and rejects anything that is not an image or a PDF.
func resolveReceiptType(filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = storage.GetMimeTypeFromExtension(filename)
	}
	if !storage.ValidateMimeType(contentType, allowedReceiptTypes) {
		return "", common.NewBadRequestError(fmt.Sprintf("unsupported receipt type %q", contentType))
	}
	return contentType, nil
}
