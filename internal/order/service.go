package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ms-eventhub/internal/config"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/tickets"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	qrcode "github.com/skip2/go-qrcode"
)

type DBLayer interface {
	CreateOrder(order models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	GetOrderByIDAndUser(id, userID string) (*models.Order, error)
	UpdateOrderStatus(id, status string) (*models.Order, error)
	CompleteOrder(order models.Order, vouchers models.VoucherList) (*models.Order, error)
	DeleteOrder(id string) error
	ListOrders(limit, page int, search string) ([]models.Order, int, error)
	ListOrdersByUser(userID string, limit, page int, search string) ([]models.Order, int, error)
}

type TicketResolver interface {
	GetTicket(id string) (*models.Ticket, error)
}

type InventoryLock interface {
	LockTicket(ticketID, orderID string) (bool, error)
	UnlockTicket(ticketID, orderID string) error
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

// OrderService owns the order status state machine and keeps ticket
// inventory consistent with completed orders.
type OrderService struct {
	DB      DBLayer
	Tickets TicketResolver
	Lock    InventoryLock
	Kafka   KafkaPublisher
	Topics  config.TopicConfig
	Logger  *logger.Logger
}

func NewOrderService(db DBLayer, tickets TicketResolver, lock InventoryLock, kafka KafkaPublisher, topics config.TopicConfig, log *logger.Logger) *OrderService {
	return &OrderService{
		DB:      db,
		Tickets: tickets,
		Lock:    lock,
		Kafka:   kafka,
		Topics:  topics,
		Logger:  log,
	}
}

// ---------------- LIFECYCLE ----------------

// Create places a purchase intent against one ticket type. The total is a
// snapshot of price x quantity; inventory is checked but not reserved, the
// decrement happens once at completion.
func (s *OrderService) Create(userID string, req models.OrderRequest) (*models.Order, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	ticket, err := s.Tickets.GetTicket(req.Ticket)
	if errors.Is(err, tickets.ErrTicketNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket: %w", err)
	}
	if ticket.Quantity < req.Quantity {
		return nil, ErrInsufficientInventory
	}

	o := models.Order{
		OrderID:   utils.GenerateOrderID(),
		CreatedBy: userID,
		TicketID:  ticket.ID,
		Quantity:  req.Quantity,
		Total:     ticket.Price * float64(req.Quantity),
		Status:    models.StatusCreated,
		Vouchers:  models.VoucherList{},
		CreatedAt: time.Now(),
	}

	if err := s.DB.CreateOrder(o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.Logger.LogOrder("CREATE", o.OrderID, fmt.Sprintf("qty=%d total=%.2f", o.Quantity, o.Total))
	s.publish(s.Topics.OrderCreated, o)
	return &o, nil
}

// Complete finishes an order on behalf of its owner.
func (s *OrderService) Complete(orderID, userID string) (*models.Order, error) {
	o, err := s.DB.GetOrderByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	return s.complete(o)
}

// CompleteByProvider finishes an order on a payment provider's settlement
// notification; no ownership scope, the provider only knows the order id.
func (s *OrderService) CompleteByProvider(orderID string) (*models.Order, error) {
	o, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	return s.complete(o)
}

// complete synthesizes one voucher per purchased unit and commits the status
// flip together with the inventory decrement. The redis lock serializes
// concurrent completions against the same ticket; the transaction inside
// CompleteOrder is the actual correctness guard, the lock just avoids
// needless conflict rollbacks.
func (s *OrderService) complete(o *models.Order) (*models.Order, error) {
	if o.Status == models.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	locked, err := s.Lock.LockTicket(o.TicketID, o.OrderID)
	if err != nil {
		return nil, fmt.Errorf("inventory lock error: %w", err)
	}
	if !locked {
		return nil, ErrCompletionLocked
	}
	defer func() {
		if err := s.Lock.UnlockTicket(o.TicketID, o.OrderID); err != nil {
			s.Logger.Error("ORDER", fmt.Sprintf("Failed to unlock ticket %s: %v", o.TicketID, err))
		}
	}()

	vouchers, err := synthesizeVouchers(o.Quantity)
	if err != nil {
		return nil, err
	}

	updated, err := s.DB.CompleteOrder(*o, vouchers)
	if err != nil {
		return nil, err
	}

	s.Logger.LogOrder("COMPLETE", o.OrderID, fmt.Sprintf("vouchers=%d", len(updated.Vouchers)))
	s.publish(s.Topics.OrderCompleted, *updated)
	return updated, nil
}

func synthesizeVouchers(quantity int) (models.VoucherList, error) {
	vouchers := make(models.VoucherList, quantity)
	for i := range vouchers {
		id := utils.GenerateVoucherID()
		png, err := qrcode.Encode(id, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to generate voucher QR: %w", err)
		}
		vouchers[i] = models.Voucher{
			VoucherID: id,
			IsPrint:   false,
			QRCode:    png,
		}
	}
	return vouchers, nil
}

// SetPending marks an order as waiting for payment. Re-marking a pending
// order is rejected, not a silent no-op.
func (s *OrderService) SetPending(orderID string) (*models.Order, error) {
	o, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == models.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if o.Status == models.StatusPending {
		return nil, ErrAlreadyPending
	}

	updated, err := s.DB.UpdateOrderStatus(orderID, models.StatusPending)
	if err != nil {
		return nil, err
	}

	s.Logger.LogOrder("PENDING", orderID, "order marked pending")
	s.publish(s.Topics.OrderPending, *updated)
	return updated, nil
}

// Cancel moves an order to its cancelled terminal state. Completed orders
// stay completed; inventory never changes here because creation held none.
func (s *OrderService) Cancel(orderID string) (*models.Order, error) {
	o, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == models.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}
	if o.Status == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	updated, err := s.DB.UpdateOrderStatus(orderID, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.Logger.LogOrder("CANCEL", orderID, "order cancelled")
	s.publish(s.Topics.OrderCancelled, *updated)
	return updated, nil
}

// Remove deletes the order record. Vouchers are embedded, so nothing else
// needs cleanup.
func (s *OrderService) Remove(orderID string) (*models.Order, error) {
	o, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.DeleteOrder(orderID); err != nil {
		return nil, err
	}
	s.Logger.LogOrder("REMOVE", orderID, "order removed")
	return o, nil
}

// ---------------- QUERIES ----------------

func (s *OrderService) FindOne(orderID string) (*models.Order, error) {
	return s.DB.GetOrderByID(orderID)
}

func (s *OrderService) FindAll(limit, page int, search string) ([]models.Order, int, error) {
	return s.DB.ListOrders(limit, page, search)
}

func (s *OrderService) FindAllByMember(userID string, limit, page int, search string) ([]models.Order, int, error) {
	return s.DB.ListOrdersByUser(userID, limit, page, search)
}

// ---------------- EVENTS ----------------

func (s *OrderService) publish(topic string, o models.Order) {
	if s.Kafka == nil || topic == "" {
		return
	}
	// Voucher QR payloads do not belong on the bus.
	slim := o
	slim.Vouchers = make(models.VoucherList, len(o.Vouchers))
	for i, v := range o.Vouchers {
		slim.Vouchers[i] = models.Voucher{VoucherID: v.VoucherID, IsPrint: v.IsPrint}
	}

	value, err := json.Marshal(slim)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal order %s: %v", o.OrderID, err))
		return
	}
	if err := s.Kafka.Publish(topic, o.OrderID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (%s): %v", topic, err))
	}
}

// ---------------- WEBHOOK MAPPING ----------------

// NotificationDeduper remembers processed provider notifications.
type NotificationDeduper interface {
	MarkNotificationProcessed(orderID, status string) (bool, error)
	ClearNotification(orderID, status string) error
}

// HandlePaymentNotification maps a provider's asynchronous status onto the
// guarded lifecycle operations. Terminal states stay terminal: a replayed
// expire after settlement is refused by Cancel's state guard instead of
// force-writing the status.
func (s *OrderService) HandlePaymentNotification(n models.PaymentNotification, dedup NotificationDeduper) (*models.Order, error) {
	o, err := s.DB.GetOrderByID(n.OrderID)
	if err != nil {
		return nil, err
	}

	if dedup != nil {
		fresh, err := dedup.MarkNotificationProcessed(n.OrderID, n.TransactionStatus)
		if err != nil {
			s.Logger.Warn("WEBHOOK", fmt.Sprintf("Dedup check failed for order %s: %v", n.OrderID, err))
		} else if !fresh {
			s.Logger.LogWebhook("provider", n.OrderID, n.TransactionStatus+" (duplicate)")
			return o, nil
		}
	}

	s.Logger.LogWebhook("provider", n.OrderID, n.TransactionStatus)

	var updated *models.Order
	switch n.TransactionStatus {
	case "settlement":
		updated, err = s.CompleteByProvider(n.OrderID)
	case "pending":
		updated, err = s.SetPending(n.OrderID)
	case "expire", "cancel", "deny":
		updated, err = s.Cancel(n.OrderID)
	default:
		s.Logger.Warn("WEBHOOK", fmt.Sprintf("Unhandled transaction status %q for order %s", n.TransactionStatus, n.OrderID))
		return o, nil
	}

	if err != nil {
		// Leave the dedup marker in place for state conflicts: the refusal is
		// final and a retry would be refused again. Internal failures clear it
		// so the provider's retry gets another attempt.
		if dedup != nil && !IsStateConflict(err) && !errors.Is(err, ErrOrderNotFound) {
			if clearErr := dedup.ClearNotification(n.OrderID, n.TransactionStatus); clearErr != nil {
				s.Logger.Warn("WEBHOOK", fmt.Sprintf("Failed to clear dedup marker for order %s: %v", n.OrderID, clearErr))
			}
		}
		return nil, err
	}
	return updated, nil
}
