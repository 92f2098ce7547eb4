package service

import (
	"context"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/apperror"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	procurementRepo ports.ProcurementRepository
	saleRepo        ports.SaleRepository
	expenseRepo     ports.ExpenseRepository
	inventoryRepo   ports.InventoryRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	procurementRepo ports.ProcurementRepository,
	saleRepo ports.SaleRepository,
	expenseRepo ports.ExpenseRepository,
	inventoryRepo ports.InventoryRepository,
) ports.ReportingService {
	return &reportingService{
		procurementRepo: procurementRepo,
		saleRepo:        saleRepo,
		expenseRepo:     expenseRepo,
		inventoryRepo:   inventoryRepo,
	}
}

// ProfitLoss computes revenue (sales), cost (procurement), and operating
// expenses within r.
func (s *reportingService) ProfitLoss(ctx context.Context, r domain.DateRange) (*domain.ProfitLossSummary, error) {
	revenue, err := s.saleRepo.SumTotal(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	cost, err := s.procurementRepo.SumTotal(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	expenses, err := s.expenseRepo.Sum(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := domain.ComputeProfitLoss(revenue, cost, expenses)
	return &summary, nil
}

// ExpenseReport lists expenses within r with totals per category.
func (s *reportingService) ExpenseReport(ctx context.Context, r domain.DateRange) (*domain.Report[domain.Expense, domain.ExpenseReportSummary], error) {
	items, err := s.expenseRepo.List(ctx, ports.ExpenseListParams{Range: r})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := domain.ExpenseReportSummary{Count: len(items), ByCategory: []domain.CategoryTotal{}}
	index := map[string]int{}
	for _, e := range items {
		summary.Total += e.Amount
		i, ok := index[e.Category]
		if !ok {
			i = len(summary.ByCategory)
			index[e.Category] = i
			summary.ByCategory = append(summary.ByCategory, domain.CategoryTotal{Category: e.Category})
		}
		summary.ByCategory[i].Total += e.Amount
	}
	summary.Total = roundMoney(summary.Total)

	return &domain.Report[domain.Expense, domain.ExpenseReportSummary]{Items: items, Summary: summary}, nil
}

// SalesReport lists sales within r with quantity and settlement totals.
func (s *reportingService) SalesReport(ctx context.Context, r domain.DateRange) (*domain.Report[domain.Sale, domain.SalesSummary], error) {
	items, err := s.saleRepo.List(ctx, r)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := domain.SalesSummary{TotalSales: len(items)}
	for _, sale := range items {
		summary.TotalQuantity += sale.Quantity
		summary.TotalAmount += sale.TotalAmount
		summary.TotalReceived += sale.PaidAmount
	}
	summary.TotalAmount = roundMoney(summary.TotalAmount)
	summary.TotalReceived = roundMoney(summary.TotalReceived)
	summary.Outstanding = roundMoney(summary.TotalAmount - summary.TotalReceived)

	return &domain.Report[domain.Sale, domain.SalesSummary]{Items: items, Summary: summary}, nil
}

// StockReport lists every stock line with totals and the low-stock count.
func (s *reportingService) StockReport(ctx context.Context) (*domain.Report[domain.Inventory, domain.StockSummary], error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	summary := domain.StockSummary{TotalItems: len(items)}
	for i := range items {
		summary.TotalQuantity += items[i].Quantity
		if items[i].IsBelowThreshold() {
			summary.LowStockItems++
		}
	}

	return &domain.Report[domain.Inventory, domain.StockSummary]{Items: items, Summary: summary}, nil
}
