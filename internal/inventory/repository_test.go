package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDSAM05/orderflow/internal/apperr"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestReserve_DecrementsByExactAmount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM products WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(5))
	mock.ExpectExec(`UPDATE products SET quantity = quantity - \$2 WHERE id=\$1`).
		WithArgs(int64(42), 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.Reserve(context.Background(), 42, 3)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_MissingProductIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM products WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), 99, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
	assert.False(t, errors.Is(err, apperr.ErrConflict), "missing product must never read as insufficient stock")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_InsufficientStockLeavesRowUntouched(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM products WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(2))
	// no UPDATE expected: the transaction rolls back before any mutation
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), 42, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, quantity FROM products WHERE id=\$1`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "quantity"}).AddRow(int64(42), "widget", 5))

	p, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, Product{ID: 42, Name: "widget", Quantity: 5}, p)
}

func TestGet_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, quantity FROM products WHERE id=\$1`).
		WithArgs(int64(7)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), 7)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO products \(name, quantity\) VALUES \(\$1, \$2\) RETURNING id, name, quantity`).
		WithArgs("widget", 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "quantity"}).AddRow(int64(1), "widget", 10))

	p, err := repo.Create(context.Background(), "widget", 10)
	require.NoError(t, err)
	assert.Equal(t, Product{ID: 1, Name: "widget", Quantity: 10}, p)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, quantity FROM products ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "quantity"}).
			AddRow(int64(1), "widget", 10).
			AddRow(int64(2), "gadget", 3))

	products, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "gadget", products[1].Name)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM products WHERE id=\$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM products WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.True(t, errors.Is(repo.Delete(context.Background(), 2), apperr.ErrNotFound))
}
