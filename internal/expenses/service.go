package expenses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/logger"
	"github.com/triptally/expense-assistant/pkg/storage"
)

// Extraction keys the parsing prompt asks the model for
const (
	keyAmount        = "Amount"
	keyDate          = "Date"
	keyVendor        = "Vendor/Store"
	keyCategory      = "Category"
	keyDescription   = "Description"
	keyDocumentID    = "Document ID or Reference Number"
	keyCurrency      = "Currency"
	keyPaymentMethod = "Payment Method"
	keyTaxAmount     = "Tax Amount"
)

// Service handles expense parsing, manual entry, and receipt uploads
type Service struct {
	repo   RepositoryInterface
	parser *DocumentParser
	store  storage.Storage
}

// NewService creates a new expense service
func NewService(repo RepositoryInterface, parser *DocumentParser, store storage.Storage) *Service {
	return &Service{repo: repo, parser: parser, store: store}
}

// ParseDocument parses an expense document, stores the resulting record,
// and returns the parsed details. A failed store is not fatal: the result
// still carries the extracted data, with an empty expense_id.
func (s *Service) ParseDocument(ctx context.Context, userID, tripID uuid.UUID, documentURL string) (*ParseResult, error) {
	extracted, summary, err := s.parser.Parse(ctx, documentURL)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		UserID:        userID.String(),
		TripID:        tripID.String(),
		ExtractedData: extracted,
		Summary:       summary,
		DocumentURL:   documentURL,
		StoredAt:      time.Now().UTC(),
	}

	expense := buildExpense(userID, tripID, documentURL, extracted, summary)
	id, err := s.repo.Create(ctx, expense)
	if err != nil {
		logger.Warn("failed to store parsed expense",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return result, nil
	}
	result.ExpenseID = id.String()

	return result, nil
}

// CreateExpense records a manually entered expense. Unlike the parsing path,
// a failed store is fatal here: there is no extracted data worth returning
// without the record.
func (s *Service) CreateExpense(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Expense, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, common.NewBadRequestError("invalid trip id")
	}

	amount := req.Amount
	expense := &Expense{
		UserID:        userID,
		TripID:        tripID,
		Amount:        &amount,
		Currency:      strings.ToUpper(req.Currency),
		VendorName:    optString(req.VendorName),
		Category:      optString(strings.ToLower(req.Category)),
		Description:   optString(req.Description),
		PaymentMethod: optString(req.PaymentMethod),
		TaxAmount:     req.TaxAmount,
		DocumentURL:   req.DocumentURL,
	}
	if req.TransactionDate != "" {
		t, err := time.Parse("2006-01-02", req.TransactionDate)
		if err != nil {
			return nil, common.NewBadRequestError("transaction_date must be in YYYY-MM-DD format")
		}
		expense.TransactionDate = &t
	}

	id, err := s.repo.Create(ctx, expense)
	if err != nil {
		return nil, common.NewPersistenceError("failed to store expense", err)
	}
	expense.ID = id
	expense.CreatedAt = time.Now().UTC()

	return expense, nil
}

// GetExpense returns a stored expense by ID
func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetByID(ctx, id)
}

// ListRecent returns the user's most recent expenses
func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Expense, error) {
	out, err := s.repo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Expense{}
	}
	return out, nil
}

// buildExpense maps extracted fields onto an expense row, cleaning numeric
// values and the currency code first.
func buildExpense(userID, tripID uuid.UUID, documentURL string, extracted map[string]interface{}, summary string) *Expense {
	expense := &Expense{
		UserID:        userID,
		TripID:        tripID,
		Amount:        CleanNumericValue(extracted[keyAmount]),
		Currency:      NormalizeCurrency(stringValue(extracted[keyCurrency])),
		VendorName:    stringPtr(extracted[keyVendor]),
		Category:      stringPtr(extracted[keyCategory]),
		Description:   stringPtr(extracted[keyDescription]),
		DocumentID:    stringPtr(extracted[keyDocumentID]),
		PaymentMethod: stringPtr(extracted[keyPaymentMethod]),
		TaxAmount:     CleanNumericValue(extracted[keyTaxAmount]),
		DocumentURL:   documentURL,
		ExtractedData: extracted,
	}
	if summary != "" {
		expense.Summary = &summary
	}
	if dateStr := stringValue(extracted[keyDate]); dateStr != "" {
		if t, err := time.Parse("2006-01-02", dateStr); err == nil {
			expense.TransactionDate = &t
		}
	}
	return expense
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringPtr(v interface{}) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
