package handler

import (
	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler records operating costs.
type ExpenseHandler struct {
	expenseSvc ports.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseSvc ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

// List handles GET /expenses?category&startDate&endDate.
func (h *ExpenseHandler) List(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}
	list, err := h.expenseSvc.List(c.Request.Context(), ports.ExpenseListParams{
		Range:    r,
		Category: c.Query("category"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	spentOn, ok := bodyDate(c, "expense_date", req.ExpenseDate)
	if !ok {
		return
	}

	e, err := h.expenseSvc.Create(c.Request.Context(), ports.CreateExpenseRequest{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: spentOn,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, e)
}

// Summary handles GET /expenses/summary.
func (h *ExpenseHandler) Summary(c *gin.Context) {
	summary, err := h.expenseSvc.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
