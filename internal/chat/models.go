package chat

// AskRequest is the chat request body. Callers either name an existing
// collection or point at a stored document to be indexed on the fly.
type AskRequest struct {
	Question     string `json:"question" binding:"required"`
	CollectionID string `json:"collection_id"`
	DocumentID   string `json:"document_id"`
	BucketName   string `json:"bucket_name"`
}

// AskResponse carries the assistant's answer. CollectionID is set when
// a new collection was created for this request so callers can query or
// delete it later.
type AskResponse struct {
	Response     string `json:"response"`
	CollectionID string `json:"collection_id,omitempty"`
}
