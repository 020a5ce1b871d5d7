package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Order status lifecycle. Orders start as "created" (explicit initial state)
// and move to pending, then to exactly one of completed or cancelled.
const (
	StatusCreated   = "created"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Voucher is a single redeemable unit issued per purchased quantity when an
// order completes.
type Voucher struct {
	VoucherID string `json:"voucherId"`
	IsPrint   bool   `json:"isPrint"`
	QRCode    []byte `json:"qrCode,omitempty"`
}

// VoucherList is stored embedded on the order row so completion writes the
// status and the vouchers in one document update.
type VoucherList []Voucher

func (v VoucherList) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *VoucherList) Scan(src interface{}) error {
	switch data := src.(type) {
	case nil:
		*v = VoucherList{}
		return nil
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return errors.New("unsupported voucher column type")
	}
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID   string      `bun:"order_id,pk" json:"orderId"`
	CreatedBy string      `bun:"created_by,notnull" json:"createdBy"`
	TicketID  string      `bun:"ticket_id,notnull" json:"ticket"`
	Quantity  int         `bun:"quantity,notnull" json:"quantity"`
	Total     float64     `bun:"total,notnull" json:"total"`
	Status    string      `bun:"status,notnull" json:"status"`
	Vouchers  VoucherList `bun:"vouchers,type:jsonb" json:"vouchers"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time   `bun:"updated_at,nullzero" json:"updatedAt"`
}

type OrderRequest struct {
	Ticket   string `json:"ticket" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// PaymentNotification is the provider's asynchronous callback payload. The
// provider defines the shape; only these two fields are consumed.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}
