package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefType names the kind of record a payment settles.
type RefType string

const (
	RefTypeProcurement RefType = "Procurement"
	RefTypeSales       RefType = "Sales"
)

// IsValid returns true for the supported reference kinds.
func (r RefType) IsValid() bool {
	return r == RefTypeProcurement || r == RefTypeSales
}

// Payment is money paid to a supplier or received from a customer.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	RefType     RefType   `json:"ref_type"`
	RefID       uuid.UUID `json:"ref_id"`
	Amount      float64   `json:"amount"`
	PaymentMode string    `json:"payment_mode"`
	PaymentDate time.Time `json:"payment_date"`
	ReferenceNo string    `json:"reference_no,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CashFlowSummary aggregates payments over a period. Inflow comes from
// sales, outflow goes to procurement.
type CashFlowSummary struct {
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}
