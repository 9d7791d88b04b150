package expenses

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Shared column list for expense queries
const expenseColumns = `
	e.id, e.user_id, e.trip_id, e.amount, e.currency,
	e.transaction_date, e.vendor_name, e.category, e.description,
	e.document_id, e.payment_method, e.tax_amount, e.document_url,
	e.extracted_data, e.summary, e.created_at`

// scanExpense scans a row into an Expense
func scanExpense(scan func(dest ...interface{}) error) (Expense, error) {
	e := Expense{}
	var extractedData []byte
	err := scan(
		&e.ID, &e.UserID, &e.TripID, &e.Amount, &e.Currency,
		&e.TransactionDate, &e.VendorName, &e.Category, &e.Description,
		&e.DocumentID, &e.PaymentMethod, &e.TaxAmount, &e.DocumentURL,
		&extractedData, &e.Summary, &e.CreatedAt,
	)
	if err != nil {
		return e, err
	}
	if len(extractedData) > 0 {
		if err := json.Unmarshal(extractedData, &e.ExtractedData); err != nil {
			return e, err
		}
	}
	return e, nil
}

// Repository handles expense data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new expense repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// Create inserts an expense and returns the generated ID
func (r *Repository) Create(ctx context.Context, expense *Expense) (uuid.UUID, error) {
	extractedData, err := json.Marshal(expense.ExtractedData)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, `
		INSERT INTO expenses (
			user_id, trip_id, amount, currency, transaction_date,
			vendor_name, category, description, document_id,
			payment_method, tax_amount, document_url, extracted_data, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		expense.UserID, expense.TripID, expense.Amount, expense.Currency,
		expense.TransactionDate, expense.VendorName, expense.Category,
		expense.Description, expense.DocumentID, expense.PaymentMethod,
		expense.TaxAmount, expense.DocumentURL, extractedData, expense.Summary,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// GetByID returns a single expense by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	e, err := scanExpense(func(dest ...interface{}) error {
		return r.db.QueryRow(ctx,
			`SELECT `+expenseColumns+` FROM expenses e WHERE e.id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("expense not found")
		}
		return nil, err
	}
	return &e, nil
}

// ListRecentByUser returns the user's most recent expenses ordered by
// transaction date, newest first.
func (r *Repository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e
		WHERE e.user_id = $1
		ORDER BY e.transaction_date DESC NULLS LAST
		LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
