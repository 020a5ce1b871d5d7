package storage

import (
	"errors"

	"ms-eventhub/internal/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Store persists payment rows keyed by order. One payment row per order; a
// retried intent creation updates the existing row instead of inserting.
type Store interface {
	CreatePayment(payment models.Payment) error
	GetPaymentByOrderID(orderID string) (*models.Payment, error)
	UpdatePayment(payment models.Payment) error
}
