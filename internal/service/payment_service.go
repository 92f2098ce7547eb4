package service

import (
	"context"
	"fmt"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	paymentRepo     ports.PaymentRepository
	procurementRepo ports.ProcurementRepository
	saleRepo        ports.SaleRepository
	transactor      ports.DBTransactor
	log             zerolog.Logger
	auditor
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	procurementRepo ports.ProcurementRepository,
	saleRepo ports.SaleRepository,
	transactor ports.DBTransactor,
	audit ports.AuditService,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo:     paymentRepo,
		procurementRepo: procurementRepo,
		saleRepo:        saleRepo,
		transactor:      transactor,
		log:             log,
		auditor:         auditor{audit: audit, log: log},
	}
}

// Record inserts a payment and settles the referenced procurement or sale
// in the same database transaction.
func (s *PaymentServiceImpl) Record(ctx context.Context, req ports.RecordPaymentRequest) (*domain.Payment, error) {
	if !req.RefType.IsValid() {
		return nil, apperror.ErrInvalidReference(string(req.RefType))
	}
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be greater than zero")
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:          uuid.New(),
		RefType:     req.RefType,
		RefID:       req.RefID,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		PaymentDate: dateOrNow(req.PaymentDate, now),
		ReferenceNo: req.ReferenceNo,
		Notes:       req.Notes,
		CreatedAt:   now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	status, err := s.settle(ctx, dbTx, req.RefType, req.RefID, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Create(ctx, dbTx, payment); err != nil {
		return nil, apperror.InternalError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("ref_type", string(payment.RefType)).
		Str("ref_id", payment.RefID.String()).
		Float64("amount", payment.Amount).
		Str("payment_status", string(status)).
		Msg("payment recorded")

	s.record(ctx, domain.ModulePayments, domain.AuditActionCreate,
		fmt.Sprintf("Recorded %s payment of %.2f", payment.RefType, payment.Amount),
		domain.Details{
			"id":            payment.ID.String(),
			"refType":       string(payment.RefType),
			"refId":         payment.RefID.String(),
			"amount":        payment.Amount,
			"paymentStatus": string(status),
		})

	return payment, nil
}

// settle applies the amount to the referenced record and returns its new status.
func (s *PaymentServiceImpl) settle(ctx context.Context, tx pgx.Tx, refType domain.RefType, id uuid.UUID, amount float64) (domain.PaymentStatus, error) {
	switch refType {
	case domain.RefTypeProcurement:
		p, err := s.procurementRepo.ApplyPayment(ctx, tx, id, amount)
		if err != nil {
			return "", apperror.InternalError(err)
		}
		if p == nil {
			return "", apperror.ErrNotFound("Procurement")
		}
		return p.PaymentStatus, nil
	default:
		sale, err := s.saleRepo.ApplyPayment(ctx, tx, id, amount)
		if err != nil {
			return "", apperror.InternalError(err)
		}
		if sale == nil {
			return "", apperror.ErrNotFound("Sale")
		}
		return sale.PaymentStatus, nil
	}
}

// Payables lists procurements still owed to suppliers.
func (s *PaymentServiceImpl) Payables(ctx context.Context) (*domain.PayablesReport, error) {
	list, err := s.procurementRepo.ListOutstanding(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	report := &domain.PayablesReport{Items: make([]domain.Payable, 0, len(list))}
	for _, p := range list {
		balance := p.Balance()
		report.Items = append(report.Items, domain.Payable{Procurement: p, Balance: balance})
		report.TotalPayable += balance
	}
	report.TotalPayable = roundMoney(report.TotalPayable)
	return report, nil
}

// Receivables lists sales still due from customers.
func (s *PaymentServiceImpl) Receivables(ctx context.Context) (*domain.ReceivablesReport, error) {
	list, err := s.saleRepo.ListOutstanding(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	report := &domain.ReceivablesReport{Items: make([]domain.Receivable, 0, len(list))}
	for _, sale := range list {
		balance := sale.Balance()
		report.Items = append(report.Items, domain.Receivable{Sale: sale, Balance: balance})
		report.TotalReceivable += balance
	}
	report.TotalReceivable = roundMoney(report.TotalReceivable)
	return report, nil
}

// Summary reports cash in from sales and cash out to suppliers within r.
func (s *PaymentServiceImpl) Summary(ctx context.Context, r domain.DateRange) (*domain.CashFlowSummary, error) {
	totals, err := s.paymentRepo.SumByRefType(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	inflow := totals[domain.RefTypeSales]
	outflow := totals[domain.RefTypeProcurement]
	return &domain.CashFlowSummary{
		Inflow:  inflow,
		Outflow: outflow,
		Net:     roundMoney(inflow - outflow),
	}, nil
}
