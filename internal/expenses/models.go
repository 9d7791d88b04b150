package expenses

import (
	"time"

	"github.com/google/uuid"
)

// Expense is a stored expense record parsed from a receipt or invoice
type Expense struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	TripID          uuid.UUID              `json:"trip_id"`
	Amount          *float64               `json:"amount"`
	Currency        string                 `json:"currency"`
	TransactionDate *time.Time             `json:"transaction_date"`
	VendorName      *string                `json:"vendor_name"`
	Category        *string                `json:"category"`
	Description     *string                `json:"description"`
	DocumentID      *string                `json:"document_id"`
	PaymentMethod   *string                `json:"payment_method"`
	TaxAmount       *float64               `json:"tax_amount"`
	DocumentURL     string                 `json:"document_url"`
	ExtractedData   map[string]interface{} `json:"extracted_data"`
	Summary         *string                `json:"summary"`
	CreatedAt       time.Time              `json:"created_at"`
}

// CreateRequest is the payload for recording an expense by hand, without a
// receipt document. Category and currency go through the custom validators.
type CreateRequest struct {
	TripID          string   `json:"trip_id" validate:"required,uuid"`
	Amount          float64  `json:"amount" validate:"required,gt=0"`
	Currency        string   `json:"currency" validate:"omitempty,currency_code"`
	Category        string   `json:"category" validate:"omitempty,expense_category"`
	TransactionDate string   `json:"transaction_date"`
	VendorName      string   `json:"vendor_name"`
	Description     string   `json:"description"`
	PaymentMethod   string   `json:"payment_method"`
	TaxAmount       *float64 `json:"tax_amount" validate:"omitempty,gte=0"`
	DocumentURL     string   `json:"document_url" validate:"omitempty,url"`
}

// UploadRequest asks for a presigned URL to upload a receipt directly
type UploadRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"`
}

// UploadTarget is the presigned destination handed back to the client.
// DocumentURL is where the object will be readable once the upload completes,
// suitable for a follow-up parse request.
type UploadTarget struct {
	Key         string            `json:"key"`
	UploadURL   string            `json:"upload_url"`
	Method      string            `json:"method"`
	Headers     map[string]string `json:"headers,omitempty"`
	DocumentURL string            `json:"document_url"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// ParseRequest is the payload for parsing an expense document
type ParseRequest struct {
	DocumentURL string `json:"document_url" binding:"required,url"`
	TripID      string `json:"trip_id" binding:"required,uuid"`
}

// ParseResult is the consistent response shape for a parse operation.
// ExpenseID stays empty when storage fails; the parsed data is still returned.
type ParseResult struct {
	ExpenseID     string                 `json:"expense_id"`
	UserID        string                 `json:"user_id"`
	TripID        string                 `json:"trip_id"`
	ExtractedData map[string]interface{} `json:"extracted_data"`
	Summary       string                 `json:"summary"`
	DocumentURL   string                 `json:"document_url"`
	StoredAt      time.Time              `json:"stored_at"`
}
