package domain

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is a stock line for one variety and grade.
type Inventory struct {
	ID           uuid.UUID `json:"id"`
	Variety      string    `json:"variety"`
	Grade        string    `json:"grade"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	MinThreshold float64   `json:"min_threshold"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsBelowThreshold returns true when the item needs restocking.
func (i *Inventory) IsBelowThreshold() bool {
	return i.MinThreshold > 0 && i.Quantity < i.MinThreshold
}

// StockSummary summarises a stock report.
type StockSummary struct {
	TotalItems    int     `json:"totalItems"`
	TotalQuantity float64 `json:"totalQuantity"`
	LowStockItems int     `json:"lowStockItems"`
}
