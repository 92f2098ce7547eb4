package dto

import (
	"ricemill-erp/internal/core/domain"
)

// CreateVarietyRequest is the request body for POST /varieties.
type CreateVarietyRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CreateInventoryRequest is the request body for POST /inventory.
type CreateInventoryRequest struct {
	Variety      string  `json:"variety" binding:"required"`
	Grade        string  `json:"grade"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	MinThreshold float64 `json:"min_threshold" binding:"gte=0"`
	Location     string  `json:"location"`
}

// AdjustInventoryRequest is the request body for POST /inventory/adjust.
// Delta is signed; a pointer distinguishes an explicit zero from a missing field.
// ID is parsed by the handler so that an unknown id of any shape reads as 404.
type AdjustInventoryRequest struct {
	ID     string   `json:"id" binding:"required"`
	Delta  *float64 `json:"delta" binding:"required"`
	Reason string   `json:"reason"`
}

// CreateProcurementRequest is the request body for POST /procurement.
type CreateProcurementRequest struct {
	SupplierName string   `json:"supplier_name" binding:"required"`
	Variety      string   `json:"variety"`
	Quantity     float64  `json:"quantity" binding:"gte=0"`
	Rate         float64  `json:"rate" binding:"gte=0"`
	TotalAmount  *float64 `json:"total_amount" binding:"omitempty,gte=0"`
	PaidAmount   float64  `json:"paid_amount" binding:"gte=0"`
	PurchaseDate string   `json:"purchase_date" binding:"omitempty,date"`
	Notes        string   `json:"notes"`
}

// CreateSaleRequest is the request body for POST /sales.
type CreateSaleRequest struct {
	CustomerName string   `json:"customer_name" binding:"required"`
	Variety      string   `json:"variety"`
	Grade        string   `json:"grade"`
	Quantity     float64  `json:"quantity" binding:"gte=0"`
	Rate         float64  `json:"rate" binding:"gte=0"`
	TotalAmount  *float64 `json:"total_amount" binding:"omitempty,gte=0"`
	PaidAmount   float64  `json:"paid_amount" binding:"gte=0"`
	SaleDate     string   `json:"sale_date" binding:"omitempty,date"`
	InvoiceNo    string   `json:"invoice_no" binding:"omitempty,safe_id"`
}

// RecordPaymentRequest is the request body for POST /payments.
type RecordPaymentRequest struct {
	RefType     string  `json:"ref_type" binding:"required"`
	RefID       string  `json:"ref_id" binding:"required,uuid"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PaymentMode string  `json:"payment_mode"`
	PaymentDate string  `json:"payment_date" binding:"omitempty,date"`
	ReferenceNo string  `json:"reference_no"`
	Notes       string  `json:"notes"`
}

// CreateExpenseRequest is the request body for POST /expenses.
type CreateExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	ExpenseDate string  `json:"expense_date" binding:"omitempty,date"`
	PaymentMode string  `json:"payment_mode"`
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,max=100"`
}

// SetPermissionsRequest is the request body for POST /roles and
// POST /roles/permissions. Role names and permission keys are free-form.
type SetPermissionsRequest struct {
	Role        string             `json:"role" binding:"required,max=100"`
	Permissions domain.Permissions `json:"permissions"`
}

// AlertResolvedResponse is returned by POST /alerts/:id/resolve.
type AlertResolvedResponse struct {
	Message string        `json:"message"`
	Alert   *domain.Alert `json:"alert"`
}

// UserStatusResponse is returned by PATCH /users/:id/status.
type UserStatusResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}
