package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cellar/models"
)

// mockDB - gorm поверх sqlmock, запросы проверяются регулярками
func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	DB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return DB, mock
}

func TestProductStatsScan(t *testing.T) {
	DB, mock := mockDB(t)
	// запросы идут параллельно
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE owner_id = \$1$`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE owner_id = \$1 AND liked = \$2`).
		WithArgs("alice", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`AS total_spent, .* AS total_items FROM "products"`).
		WithArgs("alice", true, models.NewDate(2021, 1, 1), models.NewDate(2022, 1, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_spent", "total_items"}).AddRow("91.00", int64(2)))
	mock.ExpectQuery(`AS year, .* GROUP BY`).
		WithArgs("alice", true).
		WillReturnRows(sqlmock.NewRows([]string{"year", "spent", "count"}).AddRow(int64(2021), "91.00", int64(1)))

	year := 2021
	stats, err := NewProductRepo(DB).Stats(context.Background(), "alice", &year)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, int64(1), stats.TotalLiked)
	assert.True(t, stats.TotalSpent.Equal(decimal.NewFromInt(91)), stats.TotalSpent.String())
	assert.Equal(t, int64(2), stats.TotalItems)
	require.Len(t, stats.YearlyStats, 1)
	assert.Equal(t, 2021, stats.YearlyStats[0].Year)
	assert.True(t, stats.YearlyStats[0].Spent.Equal(decimal.NewFromInt(91)))
	assert.Equal(t, int64(1), stats.YearlyStats[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductStatsError(t *testing.T) {
	DB, mock := mockDB(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`WHERE owner_id = \$1$`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`liked = \$2`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`AS total_spent`).WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery(`AS year`).WillReturnRows(sqlmock.NewRows([]string{"year", "spent", "count"}))

	_, err := NewProductRepo(DB).Stats(context.Background(), "alice", nil)
	assert.ErrorContains(t, err, "connection reset")
}

func TestSuggestionsMerge(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectQuery(`SELECT DISTINCT "?name"? FROM "products" WHERE owner_id = \$1 AND name ILIKE \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Malbec Reserva"))
	mock.ExpectQuery(`unnest\(products\.grape_type\) AS elem WHERE owner_id = \$1 AND elem ILIKE \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"elem"}).AddRow("Malbec"))
	mock.ExpectQuery(`unnest\(products\.tags\) AS elem WHERE owner_id = \$1 AND elem ILIKE \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"elem"}).AddRow("Malbec"))

	got, err := NewProductRepo(DB).Suggestions(context.Background(), "alice", " mal ")
	require.NoError(t, err)

	assert.Equal(t, []string{"Malbec Reserva", "Malbec"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderStatsScan(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectQuery(`FILTER \(WHERE status = \$1\) AS pending_orders, .* FROM "orders" WHERE owner_id = \$3`).
		WithArgs("pending", "collected", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"total_orders", "pending_orders", "collected_orders", "total_spent"}).
			AddRow(int64(3), int64(2), int64(1), "150.50"))

	stats, err := NewOrderRepo(DB).Stats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.CollectedOrders)
	assert.Equal(t, "150.5", stats.TotalSpent.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newMockOrder() *models.Order {
	return &models.Order{
		ID:          "8f4b1c2e-0a6d-4c55-9a47-3c0f2d6e9b11",
		OwnerID:     "alice",
		OrderNumber: "A-1",
		Status:      models.StatusPending,
		TotalPrice:  decimal.NewFromInt(45),
		Items: []models.OrderItem{
			{ProductID: "1b7e3c0a-55f2-4d8e-8b0c-7a9d1e2f3a44", Quantity: 2, PriceAtOrder: decimal.NewFromInt(15)},
			{ProductID: "2c8f4d1b-66a3-4e9f-9c1d-8b0e2f3a4b55", Quantity: 1, PriceAtOrder: decimal.NewFromInt(15)},
		},
	}
}

func TestOrderCreateTransaction(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_items" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	order := newMockOrder()
	require.NoError(t, NewOrderRepo(DB).Create(context.Background(), order))

	require.Len(t, order.Items, 2)
	for i, item := range order.Items {
		assert.Equal(t, uint(i+1), item.ID)
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, i, item.Position)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRollsBack(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_items"`).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := NewOrderRepo(DB).Create(context.Background(), newMockOrder())
	assert.ErrorContains(t, err, "fk violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderSaveReplacesItems(t *testing.T) {
	DB, mock := mockDB(t)
	order := newMockOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET .* WHERE owner_id = \$\d+ AND id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1`).
		WithArgs(order.ID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8))
	mock.ExpectCommit()

	require.NoError(t, NewOrderRepo(DB).Save(context.Background(), order, true))
	assert.Equal(t, order.ID, order.Items[1].OrderID)
	assert.Equal(t, 1, order.Items[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderSaveKeepsItems(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewOrderRepo(DB).Save(context.Background(), newMockOrder(), false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderSaveForeignOrder(t *testing.T) {
	DB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewOrderRepo(DB).Save(context.Background(), newMockOrder(), true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderDeleteTransaction(t *testing.T) {
	DB, mock := mockDB(t)
	id := "8f4b1c2e-0a6d-4c55-9a47-3c0f2d6e9b11"

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "orders" WHERE owner_id = \$1 AND id = \$2`).
		WithArgs("alice", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, NewOrderRepo(DB).Delete(context.Background(), "alice", id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
