package analytics

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Repository handles trip analytics data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new analytics repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// GetTrip returns a single trip by ID
func (r *Repository) GetTrip(ctx context.Context, tripID uuid.UUID) (*Trip, error) {
	t := Trip{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, budget, start_date, end_date, created_at
		FROM trips
		WHERE id = $1`, tripID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Budget, &t.StartDate, &t.EndDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("trip not found")
		}
		return nil, err
	}
	return &t, nil
}

// TotalExpenses returns the summed amount of the trip's expenses
func (r *Repository) TotalExpenses(ctx context.Context, tripID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE trip_id = $1`, tripID,
	).Scan(&total)
	return total, err
}

// CategoryTotals returns per-category spend for the trip, largest first
func (r *Repository) CategoryTotals(ctx context.Context, tripID uuid.UUID) ([]CategoryTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(category, 'uncategorized'), COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE trip_id = $1
		GROUP BY category
		ORDER BY SUM(amount) DESC`, tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// DailyTotals returns per-day spend for the trip in chronological order.
// Expenses without a transaction date are excluded from the trend.
func (r *Repository) DailyTotals(ctx context.Context, tripID uuid.UUID) ([]DailyTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT transaction_date::date, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE trip_id = $1 AND transaction_date IS NOT NULL
		GROUP BY transaction_date::date
		ORDER BY transaction_date::date`, tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyTotal
	for rows.Next() {
		var dt DailyTotal
		if err := rows.Scan(&dt.Date, &dt.Total); err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, rows.Err()
}
