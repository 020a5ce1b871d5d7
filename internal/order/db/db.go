package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

func (d *DB) CreateOrder(o models.Order) error {
	_, err := d.Bun.NewInsert().Model(&o).Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var o models.Order
	err := d.Bun.NewSelect().
		Model(&o).
		Where("order_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByIDAndUser scopes the lookup to the owning user; the user-facing
// completion path must not see other members' orders.
func (d *DB) GetOrderByIDAndUser(id, userID string) (*models.Order, error) {
	var o models.Order
	err := d.Bun.NewSelect().
		Model(&o).
		Where("order_id = ?", id).
		Where("created_by = ?", userID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (d *DB) UpdateOrderStatus(id, status string) (*models.Order, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ?", id).
		Exec(context.Background())
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, order.ErrOrderNotFound
	}
	return d.GetOrderByID(id)
}

// CompleteOrder performs the completion write as one transaction: the order
// row takes the completed status plus the embedded vouchers, and the ticket
// row gives up the purchased quantity. The decrement carries a
// quantity >= n precondition, so a concurrent completion that drained the
// inventory first rolls the whole transaction back instead of losing an
// update or driving the count negative.
func (d *DB) CompleteOrder(o models.Order, vouchers models.VoucherList) (*models.Order, error) {
	ctx := context.Background()

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Order)(nil)).
			Set("status = ?", models.StatusCompleted).
			Set("vouchers = ?", vouchers).
			Set("updated_at = ?", time.Now()).
			Where("order_id = ?", o.OrderID).
			Where("status <> ?", models.StatusCompleted).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return order.ErrAlreadyCompleted
		}

		res, err = tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("quantity = quantity - ?", o.Quantity).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", o.TicketID).
			Where("quantity >= ?", o.Quantity).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			exists, existsErr := tx.NewSelect().
				Model((*models.Ticket)(nil)).
				Where("id = ?", o.TicketID).
				Exists(ctx)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return order.ErrTicketNotFound
			}
			return order.ErrInsufficientInventory
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete order %s: %w", o.OrderID, err)
	}

	return d.GetOrderByID(o.OrderID)
}

func (d *DB) DeleteOrder(id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Order)(nil)).
		Where("order_id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ---------------- LISTS ----------------

func (d *DB) ListOrders(limit, page int, search string) ([]models.Order, int, error) {
	return d.listOrders("", limit, page, search)
}

func (d *DB) ListOrdersByUser(userID string, limit, page int, search string) ([]models.Order, int, error) {
	return d.listOrders(userID, limit, page, search)
}

func (d *DB) listOrders(userID string, limit, page int, search string) ([]models.Order, int, error) {
	ctx := context.Background()

	var orders []models.Order
	q := d.Bun.NewSelect().Model(&orders)
	if userID != "" {
		q = q.Where("created_by = ?", userID)
	}
	if search != "" {
		// lower(...) LIKE keeps the match case-insensitive on both the
		// Postgres runtime and the sqlite test dialect.
		q = q.Where("lower(order_id) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	err = q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, count, nil
}
