package domain

import (
	"time"

	"github.com/google/uuid"
)

// Expense is an operating cost of the mill.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	ExpenseDate time.Time `json:"expense_date"`
	PaymentMode string    `json:"payment_mode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryTotal is one bucket of an expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ExpenseSummary reports totals for the current day and calendar month.
type ExpenseSummary struct {
	Today      float64         `json:"today"`
	Month      float64         `json:"month"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

// ExpenseReportSummary summarises an expense report.
type ExpenseReportSummary struct {
	Count      int             `json:"count"`
	Total      float64         `json:"total"`
	ByCategory []CategoryTotal `json:"byCategory"`
}
