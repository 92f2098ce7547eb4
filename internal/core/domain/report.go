package domain

import (
	"math"
	"time"
)

// DateRange is an inclusive [Start, End] instant interval. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ProfitLossSummary is the income statement for a period.
type ProfitLossSummary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalCost     float64 `json:"totalCost"`
	TotalExpenses float64 `json:"totalExpenses"`
	GrossProfit   float64 `json:"grossProfit"`
	NetProfit     float64 `json:"netProfit"`
	ProfitMargin  float64 `json:"profitMargin"`
}

// ComputeProfitLoss derives profit figures. The margin is a percentage of
// revenue rounded to two decimals, and zero when there is no revenue.
func ComputeProfitLoss(revenue, cost, expenses float64) ProfitLossSummary {
	s := ProfitLossSummary{
		TotalRevenue:  revenue,
		TotalCost:     cost,
		TotalExpenses: expenses,
		GrossProfit:   revenue - cost,
		NetProfit:     revenue - cost - expenses,
	}
	if revenue != 0 {
		s.ProfitMargin = math.Round(s.NetProfit/revenue*100*100) / 100
	}
	return s
}

// Report pairs a listing with its computed summary.
type Report[T any, S any] struct {
	Items   []T `json:"items"`
	Summary S   `json:"summary"`
}
