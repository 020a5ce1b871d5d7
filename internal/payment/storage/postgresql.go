package storage

import (
	"context"
	"database/sql"
	"errors"

	"ms-eventhub/internal/models"

	"github.com/uptrace/bun"
)

type PostgresStore struct {
	Bun *bun.DB
}

func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{Bun: db}
}

func (s *PostgresStore) CreatePayment(payment models.Payment) error {
	_, err := s.Bun.NewInsert().Model(&payment).Exec(context.Background())
	return err
}

func (s *PostgresStore) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.Bun.NewSelect().
		Model(&payment).
		Where("order_id = ?", orderID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PostgresStore) UpdatePayment(payment models.Payment) error {
	res, err := s.Bun.NewUpdate().
		Model(&payment).
		Column("amount", "status", "intent_id", "updated_at").
		Where("id = ?", payment.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
