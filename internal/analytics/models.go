package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a travel period expenses are booked against
type Trip struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Budget    float64   `json:"budget"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryTotal is the summed spend for one expense category
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DailyTotal is the summed spend for one calendar day
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// TripAnalytics aggregates a trip's spending against its budget
type TripAnalytics struct {
	TripID              uuid.UUID       `json:"trip_id"`
	TripName            string          `json:"trip_name"`
	Budget              float64         `json:"budget"`
	TotalExpenses       float64         `json:"total_expenses"`
	BudgetRemaining     float64         `json:"budget_remaining"`
	CategoryTotals      []CategoryTotal `json:"category_totals"`
	DailyTrend          []DailyTotal    `json:"daily_trend"`
	TripDurationDays    int             `json:"trip_duration_days"`
	AverageDailyExpense float64         `json:"average_daily_expense"`
	Insights            string          `json:"insights,omitempty"`
}
