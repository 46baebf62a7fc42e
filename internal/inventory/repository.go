package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MDSAM05/orderflow/internal/apperr"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository interface {
	Create(ctx context.Context, name string, quantity int) (Product, error)
	Get(ctx context.Context, productID int64) (Product, error)
	List(ctx context.Context, limit, offset int) ([]Product, error)
	Delete(ctx context.Context, productID int64) error
	Reserve(ctx context.Context, productID int64, quantity int) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, name string, quantity int) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, quantity) VALUES ($1, $2) RETURNING id, name, quantity`,
		name, quantity,
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, productID int64) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, quantity FROM products WHERE id=$1`, productID)
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product not found", apperr.ErrNotFound)
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, quantity FROM products ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, productID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	}
	return nil
}

// Reserve atomically checks and decrements available stock. The row is
// locked for the duration of the transaction so two concurrent
// reservations against the same product serialize here and can never
// drive the quantity negative.
func (r *PostgresRepository) Reserve(ctx context.Context, productID int64, quantity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var available int
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM products WHERE id=$1 FOR UPDATE`, productID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product not found", apperr.ErrNotFound)
		}
		return fmt.Errorf("lock product: %w", err)
	}

	if available < quantity {
		return fmt.Errorf("%w: insufficient stock", apperr.ErrConflict)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET quantity = quantity - $2 WHERE id=$1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
