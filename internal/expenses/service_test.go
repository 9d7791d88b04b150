package expenses

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/triptally/expense-assistant/internal/llm"
	"github.com/triptally/expense-assistant/pkg/common"
	"github.com/triptally/expense-assistant/pkg/storage"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, expense *Expense) (uuid.UUID, error) {
	args := m.Called(ctx, expense)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Expense), args.Error(1)
}

func (m *MockRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Expense, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Expense), args.Error(1)
}

// MockCompletionClient implements CompletionClient for testing
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompletionResponse), args.Error(1)
}

func (m *MockCompletionClient) VisionModel() string {
	return "vision-model"
}

// MockStorage implements storage.Storage for testing
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) GetURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStorage) GetPresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (*storage.PresignedURLResult, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PresignedURLResult), args.Error(1)
}

// ========================================
// NUMERIC CLEANING TESTS
// ========================================

func TestCleanNumericValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  *float64
	}{
		{"nil", nil, nil},
		{"float", 45.50, floatPtr(45.50)},
		{"int", 42, floatPtr(42)},
		{"dollar string", "$45.50", floatPtr(45.50)},
		{"currency prefix", "USD 1,234.56", floatPtr(1234.56)},
		{"negative", "-12.00", floatPtr(-12.00)},
		{"garbage", "n/a", nil},
		{"bool", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanNumericValue(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "$", NormalizeCurrency("US Dollar ($)"))
	assert.Equal(t, "USD", NormalizeCurrency("USD"))
	assert.Equal(t, "", NormalizeCurrency(""))
	assert.Equal(t, "Australian", NormalizeCurrency("Australian Dollars"))
	assert.Len(t, NormalizeCurrency("a very long currency name"), maxCurrencyLen)
}

func floatPtr(v float64) *float64 { return &v }

// ========================================
// PARSE DOCUMENT TESTS
// ========================================

func parseReply(t *testing.T) *llm.CompletionResponse {
	t.Helper()
	return &llm.CompletionResponse{
		Content: `{
			"extracted_data": {
				"Amount": "$45.50",
				"Date": "2024-03-14",
				"Vendor/Store": "Joe's Cafe",
				"Category": "meals",
				"Currency": "US Dollar ($)",
				"Payment Method": "Credit Card",
				"Tax Amount": "$3.64"
			},
			"summary": "Lunch at Joe's Cafe for $45.50."
		}`,
	}
}

func TestParseDocument_StoresCleanedExpense(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, NewDocumentParser(client), nil)

	userID := uuid.New()
	tripID := uuid.New()
	expenseID := uuid.New()

	client.On("Complete", mock.Anything, mock.Anything).Return(parseReply(t), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *Expense) bool {
		return e.UserID == userID &&
			e.Amount != nil && *e.Amount == 45.50 &&
			e.TaxAmount != nil && *e.TaxAmount == 3.64 &&
			e.Currency == "$" &&
			e.VendorName != nil && *e.VendorName == "Joe's Cafe" &&
			e.TransactionDate != nil
	})).Return(expenseID, nil)

	result, err := service.ParseDocument(context.Background(), userID, tripID, "https://example.com/receipt.jpg")

	require.NoError(t, err)
	assert.Equal(t, expenseID.String(), result.ExpenseID)
	assert.Equal(t, "Lunch at Joe's Cafe for $45.50.", result.Summary)
	assert.Equal(t, "https://example.com/receipt.jpg", result.DocumentURL)
	repo.AssertExpectations(t)
}

func TestParseDocument_StorageFailureKeepsParsedData(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, NewDocumentParser(client), nil)

	client.On("Complete", mock.Anything, mock.Anything).Return(parseReply(t), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("connection refused"))

	result, err := service.ParseDocument(context.Background(), uuid.New(), uuid.New(), "https://example.com/receipt.jpg")

	require.NoError(t, err)
	assert.Empty(t, result.ExpenseID)
	assert.Equal(t, "Joe's Cafe", result.ExtractedData["Vendor/Store"])
	assert.NotEmpty(t, result.Summary)
}

func TestParseDocument_ModelFailure(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, NewDocumentParser(client), nil)

	client.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	result, err := service.ParseDocument(context.Background(), uuid.New(), uuid.New(), "https://example.com/receipt.jpg")

	assert.Error(t, err)
	assert.Nil(t, result)
	repo.AssertNotCalled(t, "Create")
}

func TestParseDocument_MalformedReply(t *testing.T) {
	repo := new(MockRepository)
	client := new(MockCompletionClient)
	service := NewService(repo, NewDocumentParser(client), nil)

	client.On("Complete", mock.Anything, mock.Anything).
		Return(&llm.CompletionResponse{Content: "sorry, I cannot read this"}, nil)

	result, err := service.ParseDocument(context.Background(), uuid.New(), uuid.New(), "https://example.com/receipt.jpg")

	assert.Error(t, err)
	assert.Nil(t, result)
}

// ========================================
// MANUAL ENTRY TESTS
// ========================================

func TestCreateExpense_StoresRecord(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	userID := uuid.New()
	tripID := uuid.New()
	expenseID := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *Expense) bool {
		return e.UserID == userID && e.TripID == tripID &&
			e.Amount != nil && *e.Amount == 18.40 &&
			e.Currency == "EUR" &&
			e.Category != nil && *e.Category == "food" &&
			e.TransactionDate != nil && e.TransactionDate.Format("2006-01-02") == "2024-03-14"
	})).Return(expenseID, nil)

	expense, err := service.CreateExpense(context.Background(), userID, &CreateRequest{
		TripID:          tripID.String(),
		Amount:          18.40,
		Currency:        "EUR",
		Category:        "Food",
		TransactionDate: "2024-03-14",
		VendorName:      "Joe's Cafe",
	})

	require.NoError(t, err)
	assert.Equal(t, expenseID, expense.ID)
	require.NotNil(t, expense.VendorName)
	assert.Equal(t, "Joe's Cafe", *expense.VendorName)
	repo.AssertExpectations(t)
}

func TestCreateExpense_InvalidDate(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	_, err := service.CreateExpense(context.Background(), uuid.New(), &CreateRequest{
		TripID:          uuid.New().String(),
		Amount:          10,
		TransactionDate: "14/03/2024",
	})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeBadRequest, appErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateExpense_StorageFailureIsFatal(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("connection refused"))

	expense, err := service.CreateExpense(context.Background(), uuid.New(), &CreateRequest{
		TripID: uuid.New().String(),
		Amount: 10,
	})

	assert.Error(t, err)
	assert.Nil(t, expense)
}

// ========================================
// RECEIPT UPLOAD TESTS
// ========================================

func TestCreateUploadURL(t *testing.T) {
	store := new(MockStorage)
	service := NewService(nil, nil, store)
	userID := uuid.New()

	keyPrefix := "users/" + userID.String() + "/receipts/"
	store.On("GetPresignedUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ".jpg")
	}), "image/jpeg", uploadURLTTL).Return(&storage.PresignedURLResult{
		URL:    "https://bucket.example.com/presigned",
		Method: "PUT",
	}, nil)
	store.On("GetURL", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix)
	})).Return("https://bucket.example.com/receipt.jpg")

	// Content type resolved from the extension when the request omits it
	target, err := service.CreateUploadURL(context.Background(), userID, &UploadRequest{
		Filename: "receipt.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/presigned", target.UploadURL)
	assert.Equal(t, "PUT", target.Method)
	assert.Equal(t, "https://bucket.example.com/receipt.jpg", target.DocumentURL)
	assert.True(t, strings.HasPrefix(target.Key, keyPrefix))
	store.AssertExpectations(t)
}

func TestCreateUploadURL_RejectsUnsupportedType(t *testing.T) {
	store := new(MockStorage)
	service := NewService(nil, nil, store)

	_, err := service.CreateUploadURL(context.Background(), uuid.New(), &UploadRequest{
		Filename: "notes.txt",
	})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeBadRequest, appErr.Code)
	store.AssertNotCalled(t, "GetPresignedUploadURL")
}

func TestUploadReceipt(t *testing.T) {
	store := new(MockStorage)
	service := NewService(nil, nil, store)
	userID := uuid.New()

	body := strings.NewReader("%PDF-1.4")
	store.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "users/"+userID.String()+"/receipts/") &&
			strings.HasSuffix(key, ".pdf")
	}), body, int64(8), "application/pdf").Return(&storage.UploadResult{
		Key:      "stored-key",
		URL:      "https://bucket.example.com/stored-key",
		Size:     8,
		MimeType: "application/pdf",
	}, nil)

	result, err := service.UploadReceipt(context.Background(), userID, "invoice.pdf", "application/pdf", body, 8)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.MimeType)
	store.AssertExpectations(t)
}

func TestUploadReceipt_UpstreamFailure(t *testing.T) {
	store := new(MockStorage)
	service := NewService(nil, nil, store)

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unavailable"))

	_, err := service.UploadReceipt(context.Background(), uuid.New(), "receipt.png", "", strings.NewReader("x"), 1)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeUpstreamService, appErr.Code)
}

func TestListRecent_EmptyResult(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, nil, nil)
	userID := uuid.New()

	repo.On("ListRecentByUser", mock.Anything, userID, 10).Return(nil, nil)

	out, err := service.ListRecent(context.Background(), userID, 10)

	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
