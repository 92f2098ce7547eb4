package postgres

import (
	"context"
	"testing"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseCols() []string {
	return []string{"id", "category", "amount", "description", "expense_date", "payment_mode", "created_at"}
}

func TestExpenseRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := &domain.Expense{
		ID:          uuid.New(),
		Category:    "Fuel",
		Amount:      1200,
		Description: "Diesel for generator",
		ExpenseDate: fixedTime(),
		PaymentMode: "Cash",
		CreatedAt:   fixedTime(),
	}
	mock.ExpectExec("INSERT INTO expenses").
		WithArgs(e.ID, e.Category, e.Amount, e.Description, e.ExpenseDate, e.PaymentMode, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewExpenseRepo(mock).Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepo_List_CategoryAndRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start := fixedTime().AddDate(0, 0, -30)
	mock.ExpectQuery(`FROM expenses WHERE category = \$1 AND expense_date >= \$2 ORDER BY expense_date DESC`).
		WithArgs("Labour", start).
		WillReturnRows(pgxmock.NewRows(expenseCols()).
			AddRow(uuid.New(), "Labour", 3000.0, "Weekly wages", fixedTime(), "Bank", fixedTime()))

	list, err := NewExpenseRepo(mock).List(context.Background(), ports.ExpenseListParams{
		Range:    domain.DateRange{Start: &start},
		Category: "Labour",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3000.0, list[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepo_Sum(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start, end := fixedTime().AddDate(0, 0, -1), fixedTime()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM expenses WHERE expense_date >= \$1 AND expense_date <= \$2`).
		WithArgs(start, end).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(450.0))

	total, err := NewExpenseRepo(mock).Sum(context.Background(), domain.DateRange{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 450.0, total)
}

func TestExpenseRepo_SumByCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`GROUP BY category ORDER BY total DESC, category`).
		WillReturnRows(pgxmock.NewRows([]string{"category", "total"}).
			AddRow("Labour", 3000.0).
			AddRow("Fuel", 1200.0))

	totals, err := NewExpenseRepo(mock).SumByCategory(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryTotal{{Category: "Labour", Total: 3000}, {Category: "Fuel", Total: 1200}}, totals)
}
