package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks how much of a procurement or sale has been settled.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// DerivePaymentStatus computes the status from the settled amount.
func DerivePaymentStatus(total, paid float64) PaymentStatus {
	switch {
	case paid >= total && total > 0:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// Procurement is a paddy purchase from a supplier.
type Procurement struct {
	ID            uuid.UUID     `json:"id"`
	SupplierName  string        `json:"supplier_name"`
	Variety       string        `json:"variety"`
	Quantity      float64       `json:"quantity"`
	Rate          float64       `json:"rate"`
	TotalAmount   float64       `json:"total_amount"`
	PaidAmount    float64       `json:"paid_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PurchaseDate  time.Time     `json:"purchase_date"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Balance returns the amount still owed to the supplier.
func (p *Procurement) Balance() float64 {
	return p.TotalAmount - p.PaidAmount
}

// Sale is a rice sale to a customer.
type Sale struct {
	ID            uuid.UUID     `json:"id"`
	CustomerName  string        `json:"customer_name"`
	Variety       string        `json:"variety"`
	Grade         string        `json:"grade"`
	Quantity      float64       `json:"quantity"`
	Rate          float64       `json:"rate"`
	TotalAmount   float64       `json:"total_amount"`
	PaidAmount    float64       `json:"paid_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	SaleDate      time.Time     `json:"sale_date"`
	InvoiceNo     string        `json:"invoice_no,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Balance returns the amount still due from the customer.
func (s *Sale) Balance() float64 {
	return s.TotalAmount - s.PaidAmount
}

// Payable is an outstanding procurement with its balance.
type Payable struct {
	Procurement
	Balance float64 `json:"balance"`
}

// Receivable is an outstanding sale with its balance.
type Receivable struct {
	Sale
	Balance float64 `json:"balance"`
}

// SalesSummary summarises a sales report.
type SalesSummary struct {
	TotalSales    int     `json:"totalSales"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalReceived float64 `json:"totalReceived"`
	Outstanding   float64 `json:"outstanding"`
}

// PayablesReport lists procurements with an outstanding balance.
type PayablesReport struct {
	Items        []Payable `json:"items"`
	TotalPayable float64   `json:"totalPayable"`
}

// ReceivablesReport lists sales with an outstanding balance.
type ReceivablesReport struct {
	Items           []Receivable `json:"items"`
	TotalReceivable float64      `json:"totalReceivable"`
}
