package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProcurementServiceImpl implements ports.ProcurementService.
type ProcurementServiceImpl struct {
	repo ports.ProcurementRepository
	auditor
}

// NewProcurementService creates a new ProcurementServiceImpl.
func NewProcurementService(repo ports.ProcurementRepository, audit ports.AuditService, log zerolog.Logger) *ProcurementServiceImpl {
	return &ProcurementServiceImpl{repo: repo, auditor: auditor{audit: audit, log: log}}
}

// Create records a purchase. The payment status derives from the amounts.
func (s *ProcurementServiceImpl) Create(ctx context.Context, req ports.CreateProcurementRequest) (*domain.Procurement, error) {
	supplier := strings.TrimSpace(req.SupplierName)
	if supplier == "" {
		return nil, apperror.Validation("supplier_name is required")
	}

	now := time.Now().UTC()
	total := lineTotal(req.Quantity, req.Rate, req.TotalAmount)
	p := &domain.Procurement{
		ID:            uuid.New(),
		SupplierName:  supplier,
		Variety:       req.Variety,
		Quantity:      req.Quantity,
		Rate:          req.Rate,
		TotalAmount:   total,
		PaidAmount:    req.PaidAmount,
		PaymentStatus: domain.DerivePaymentStatus(total, req.PaidAmount),
		PurchaseDate:  dateOrNow(req.PurchaseDate, now),
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleProcurement, domain.AuditActionCreate,
		fmt.Sprintf("Purchased %.3f of %s from %s for %.2f", p.Quantity, p.Variety, p.SupplierName, p.TotalAmount),
		domain.Details{"id": p.ID.String(), "totalAmount": p.TotalAmount, "paidAmount": p.PaidAmount})

	return p, nil
}

// List returns purchases within r, newest first.
func (s *ProcurementServiceImpl) List(ctx context.Context, r domain.DateRange) ([]domain.Procurement, error) {
	list, err := s.repo.List(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return list, nil
}

// SalesServiceImpl implements ports.SalesService.
type SalesServiceImpl struct {
	repo ports.SaleRepository
	auditor
}

// NewSalesService creates a new SalesServiceImpl.
func NewSalesService(repo ports.SaleRepository, audit ports.AuditService, log zerolog.Logger) *SalesServiceImpl {
	return &SalesServiceImpl{repo: repo, auditor: auditor{audit: audit, log: log}}
}

// Create records a sale. The payment status derives from the amounts.
func (s *SalesServiceImpl) Create(ctx context.Context, req ports.CreateSaleRequest) (*domain.Sale, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return nil, apperror.Validation("customer_name is required")
	}

	now := time.Now().UTC()
	total := lineTotal(req.Quantity, req.Rate, req.TotalAmount)
	sale := &domain.Sale{
		ID:            uuid.New(),
		CustomerName:  customer,
		Variety:       req.Variety,
		Grade:         req.Grade,
		Quantity:      req.Quantity,
		Rate:          req.Rate,
		TotalAmount:   total,
		PaidAmount:    req.PaidAmount,
		PaymentStatus: domain.DerivePaymentStatus(total, req.PaidAmount),
		SaleDate:      dateOrNow(req.SaleDate, now),
		InvoiceNo:     req.InvoiceNo,
		CreatedAt:     now,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, apperror.InternalError(err)
	}

	s.record(ctx, domain.ModuleSales, domain.AuditActionCreate,
		fmt.Sprintf("Sold %.3f of %s to %s for %.2f", sale.Quantity, sale.Variety, sale.CustomerName, sale.TotalAmount),
		domain.Details{"id": sale.ID.String(), "invoiceNo": sale.InvoiceNo, "totalAmount": sale.TotalAmount})

	return sale, nil
}

// List returns sales within r, newest first.
func (s *SalesServiceImpl) List(ctx context.Context, r domain.DateRange) ([]domain.Sale, error) {
	list, err := s.repo.List(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return list, nil
}

// lineTotal returns the explicit total when given, otherwise quantity * rate
// rounded to paise.
func lineTotal(quantity, rate float64, explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	return roundMoney(quantity * rate)
}

func dateOrNow(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return t.UTC()
}
