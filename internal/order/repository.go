package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MDSAM05/orderflow/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, username string) ([]Order, error)
	Delete(ctx context.Context, orderID int64, username string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (productname, product_id, quantity, username, status)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id`,
		o.ProductName, o.ProductID, o.Quantity, o.Username, o.Status,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, username string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, productname, product_id, quantity, username, status
         FROM orders WHERE username = $1 ORDER BY id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProductName, &o.ProductID, &o.Quantity, &o.Username, &o.Status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

// Delete is owner-scoped: another user's order id reads as absent.
func (r *repo) Delete(ctx context.Context, orderID int64, username string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1 AND username = $2`,
		orderID, username,
	)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: order not found", apperr.ErrNotFound)
	}
	return nil
}
