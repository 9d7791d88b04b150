package fraud

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triptally/expense-assistant/pkg/common"
)

// Shared column list for fraud check queries
const fraudCheckColumns = `
	f.id, f.expense_id, f.overall_risk_score, f.fraud_probability,
	f.risk_factors, f.verification_results, f.image_analysis_results,
	f.online_verification_results, f.summary, f.created_at`

// scanFraudCheck scans a row into a FraudCheck
func scanFraudCheck(scan func(dest ...interface{}) error) (FraudCheck, error) {
	check := FraudCheck{}
	var id uuid.UUID
	var riskFactors, verification, imageAnalysis, onlineVerification []byte

	err := scan(
		&id, &check.ExpenseID, &check.OverallRiskScore, &check.FraudProbability,
		&riskFactors, &verification, &imageAnalysis, &onlineVerification,
		&check.Summary, &check.CreatedAt,
	)
	if err != nil {
		return check, err
	}
	check.ID = id.String()

	for _, field := range []struct {
		raw []byte
		dst interface{}
	}{
		{riskFactors, &check.RiskFactors},
		{verification, &check.VerificationResults},
		{imageAnalysis, &check.ImageAnalysisResults},
		{onlineVerification, &check.OnlineVerificationResults},
	} {
		if len(field.raw) > 0 {
			if err := json.Unmarshal(field.raw, field.dst); err != nil {
				return check, err
			}
		}
	}
	return check, nil
}

// Repository handles fraud check persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new fraud check repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// InsertFraudCheck stores a verdict and returns the generated ID
func (r *Repository) InsertFraudCheck(ctx context.Context, check *FraudCheck) (uuid.UUID, error) {
	riskFactors, err := json.Marshal(check.RiskFactors)
	if err != nil {
		return uuid.Nil, err
	}
	verification, err := json.Marshal(check.VerificationResults)
	if err != nil {
		return uuid.Nil, err
	}
	imageAnalysis, err := json.Marshal(check.ImageAnalysisResults)
	if err != nil {
		return uuid.Nil, err
	}
	onlineVerification, err := json.Marshal(check.OnlineVerificationResults)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, `
		INSERT INTO receipt_fraud_checks (
			expense_id, overall_risk_score, fraud_probability,
			risk_factors, verification_results,
			image_analysis_results, online_verification_results, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		check.ExpenseID, check.OverallRiskScore, check.FraudProbability,
		riskFactors, verification, imageAnalysis, onlineVerification,
		check.Summary,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// GetFraudCheck returns a single verdict by ID
func (r *Repository) GetFraudCheck(ctx context.Context, id uuid.UUID) (*FraudCheck, error) {
	check, err := scanFraudCheck(func(dest ...interface{}) error {
		return r.db.QueryRow(ctx,
			`SELECT `+fraudCheckColumns+` FROM receipt_fraud_checks f WHERE f.id = $1`, id,
		).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("fraud check not found")
		}
		return nil, err
	}
	return &check, nil
}

// ListByExpense returns all verdicts recorded for an expense, newest first
func (r *Repository) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]FraudCheck, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fraudCheckColumns+`
		FROM receipt_fraud_checks f
		WHERE f.expense_id = $1
		ORDER BY f.created_at DESC`, expenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FraudCheck
	for rows.Next() {
		check, err := scanFraudCheck(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, check)
	}
	return out, rows.Err()
}
