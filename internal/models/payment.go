package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID        string    `bun:"id,pk" json:"id"`
	OrderID   string    `bun:"order_id,unique,notnull" json:"orderId"`
	Amount    float64   `bun:"amount,notnull" json:"amount"`
	Status    string    `bun:"status,notnull" json:"status"`
	IntentID  string    `bun:"intent_id,nullzero" json:"intentId"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

type PaymentIntentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}
