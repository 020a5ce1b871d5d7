package order_test

import (
	"errors"
	"testing"

	"ms-eventhub/internal/config"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"
	"ms-eventhub/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing

type MockOrderDB struct {
	orders       map[string]*models.Order
	tickets      map[string]*models.Ticket
	shouldFailOn string
	errorMsg     string
}

func NewMockOrderDB() *MockOrderDB {
	return &MockOrderDB{
		orders:  make(map[string]*models.Order),
		tickets: make(map[string]*models.Ticket),
	}
}

func (m *MockOrderDB) CreateOrder(o models.Order) error {
	if m.shouldFailOn == "CreateOrder" {
		return errors.New(m.errorMsg)
	}
	m.orders[o.OrderID] = &o
	return nil
}

func (m *MockOrderDB) GetOrderByID(id string) (*models.Order, error) {
	if m.shouldFailOn == "GetOrderByID" {
		return nil, errors.New(m.errorMsg)
	}
	o, exists := m.orders[id]
	if !exists {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *MockOrderDB) GetOrderByIDAndUser(id, userID string) (*models.Order, error) {
	o, err := m.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	if o.CreatedBy != userID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (m *MockOrderDB) UpdateOrderStatus(id, status string) (*models.Order, error) {
	o, exists := m.orders[id]
	if !exists {
		return nil, order.ErrOrderNotFound
	}
	o.Status = status
	copied := *o
	return &copied, nil
}

func (m *MockOrderDB) CompleteOrder(o models.Order, vouchers models.VoucherList) (*models.Order, error) {
	if m.shouldFailOn == "CompleteOrder" {
		return nil, errors.New(m.errorMsg)
	}
	stored, exists := m.orders[o.OrderID]
	if !exists {
		return nil, order.ErrOrderNotFound
	}
	if stored.Status == models.StatusCompleted {
		return nil, order.ErrAlreadyCompleted
	}
	ticket, exists := m.tickets[o.TicketID]
	if !exists {
		return nil, order.ErrTicketNotFound
	}
	if ticket.Quantity < o.Quantity {
		return nil, order.ErrInsufficientInventory
	}
	ticket.Quantity -= o.Quantity
	stored.Status = models.StatusCompleted
	stored.Vouchers = vouchers
	copied := *stored
	return &copied, nil
}

func (m *MockOrderDB) DeleteOrder(id string) error {
	if _, exists := m.orders[id]; !exists {
		return order.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *MockOrderDB) ListOrders(limit, page int, search string) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *MockOrderDB) ListOrdersByUser(userID string, limit, page int, search string) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CreatedBy == userID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

type MockTicketResolver struct {
	db      *MockOrderDB
	failErr error
}

func (m *MockTicketResolver) GetTicket(id string) (*models.Ticket, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	ticket, exists := m.db.tickets[id]
	if !exists {
		return nil, tickets.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

type MockLock struct {
	denyLock bool
	locks    map[string]string
}

func NewMockLock() *MockLock {
	return &MockLock{locks: make(map[string]string)}
}

func (m *MockLock) LockTicket(ticketID, orderID string) (bool, error) {
	if m.denyLock {
		return false, nil
	}
	if _, held := m.locks[ticketID]; held {
		return false, nil
	}
	m.locks[ticketID] = orderID
	return true, nil
}

func (m *MockLock) UnlockTicket(ticketID, orderID string) error {
	if m.locks[ticketID] == orderID {
		delete(m.locks, ticketID)
	}
	return nil
}

type MockPublisher struct {
	published []string
}

func (m *MockPublisher) Publish(topic string, key string, value []byte) error {
	m.published = append(m.published, topic)
	return nil
}

type MockDeduper struct {
	seen    map[string]bool
	cleared []string
}

func NewMockDeduper() *MockDeduper {
	return &MockDeduper{seen: make(map[string]bool)}
}

func (m *MockDeduper) MarkNotificationProcessed(orderID, status string) (bool, error) {
	key := orderID + ":" + status
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *MockDeduper) ClearNotification(orderID, status string) error {
	key := orderID + ":" + status
	delete(m.seen, key)
	m.cleared = append(m.cleared, key)
	return nil
}

func testTopics() config.TopicConfig {
	return config.TopicConfig{
		OrderCreated:   "eventhub.order.created",
		OrderPending:   "eventhub.order.pending",
		OrderCompleted: "eventhub.order.completed",
		OrderCancelled: "eventhub.order.cancelled",
	}
}

func newTestService() (*order.OrderService, *MockOrderDB, *MockLock, *MockPublisher) {
	db := NewMockOrderDB()
	lock := NewMockLock()
	pub := &MockPublisher{}
	svc := order.NewOrderService(db, &MockTicketResolver{db: db}, lock, pub, testTopics(), logger.NewLogger())
	return svc, db, lock, pub
}

func seedTicket(db *MockOrderDB, id string, price float64, quantity int) {
	db.tickets[id] = &models.Ticket{ID: id, Name: "General Admission", Price: price, Quantity: quantity}
}

func TestCreateOrderSnapshotsTotal(t *testing.T) {
	svc, db, _, pub := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	o, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCreated, o.Status)
	assert.Equal(t, float64(20000), o.Total)
	assert.Equal(t, "user-1", o.CreatedBy)
	assert.Empty(t, o.Vouchers)
	assert.Equal(t, 100, db.tickets["ticket-1"].Quantity, "creation must not touch inventory")
	assert.Contains(t, pub.published, "eventhub.order.created")
}

func TestCreateOrderUnknownTicket(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create("user-1", models.OrderRequest{Ticket: "nope", Quantity: 1})
	assert.ErrorIs(t, err, order.ErrTicketNotFound)
}

func TestCreateOrderResolverFailureIsNotMissingTicket(t *testing.T) {
	db := NewMockOrderDB()
	resolver := &MockTicketResolver{db: db, failErr: errors.New("connection refused")}
	svc := order.NewOrderService(db, resolver, NewMockLock(), nil, testTopics(), logger.NewLogger())
	seedTicket(db, "ticket-1", 10000, 100)

	_, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, order.ErrTicketNotFound, "store errors must not read as a missing ticket")
}

func TestCreateOrderInsufficientInventory(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 1)

	_, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 5})
	assert.ErrorIs(t, err, order.ErrInsufficientInventory)
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	_, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 0})
	assert.Error(t, err)
}

func TestCompleteIssuesVouchersAndDecrements(t *testing.T) {
	svc, db, lock, pub := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 3})
	require.NoError(t, err)

	completed, err := svc.Complete(created.OrderID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.Len(t, completed.Vouchers, 3)
	for _, v := range completed.Vouchers {
		assert.NotEmpty(t, v.VoucherID)
		assert.NotEmpty(t, v.QRCode)
		assert.False(t, v.IsPrint)
	}
	assert.Equal(t, 97, db.tickets["ticket-1"].Quantity)
	assert.Contains(t, pub.published, "eventhub.order.completed")
	assert.Empty(t, lock.locks, "completion must release the ticket lock")
}

func TestCompleteTwiceRejected(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Complete(created.OrderID, "user-1")
	require.NoError(t, err)

	_, err = svc.Complete(created.OrderID, "user-1")
	assert.ErrorIs(t, err, order.ErrAlreadyCompleted)
	assert.Equal(t, 98, db.tickets["ticket-1"].Quantity, "second completion must not decrement again")
}

func TestCompleteScopedToOwner(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Complete(created.OrderID, "someone-else")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestCompleteWhileLockedRefused(t *testing.T) {
	svc, db, lock, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	lock.denyLock = true
	_, err = svc.Complete(created.OrderID, "user-1")
	assert.ErrorIs(t, err, order.ErrCompletionLocked)
	assert.Equal(t, 100, db.tickets["ticket-1"].Quantity)
}

func TestSetPendingGuards(t *testing.T) {
	svc, db, _, pub := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	pending, err := svc.SetPending(created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, pending.Status)
	assert.Contains(t, pub.published, "eventhub.order.pending")

	_, err = svc.SetPending(created.OrderID)
	assert.ErrorIs(t, err, order.ErrAlreadyPending)

	_, err = svc.Complete(created.OrderID, "user-1")
	require.NoError(t, err)

	_, err = svc.SetPending(created.OrderID)
	assert.ErrorIs(t, err, order.ErrAlreadyCompleted)
}

func TestCancelGuards(t *testing.T) {
	svc, db, _, pub := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Contains(t, pub.published, "eventhub.order.cancelled")

	_, err = svc.Cancel(created.OrderID)
	assert.ErrorIs(t, err, order.ErrAlreadyCancelled)
	assert.Equal(t, 100, db.tickets["ticket-1"].Quantity, "cancel must not touch inventory")
}

func TestWebhookSettlementCompletesOrder(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 2})
	require.NoError(t, err)

	updated, err := svc.HandlePaymentNotification(models.PaymentNotification{
		OrderID:           created.OrderID,
		TransactionStatus: "settlement",
	}, NewMockDeduper())
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Len(t, updated.Vouchers, 2)
	assert.Equal(t, 98, db.tickets["ticket-1"].Quantity)
}

func TestWebhookUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.HandlePaymentNotification(models.PaymentNotification{
		OrderID:           "ord_missing",
		TransactionStatus: "settlement",
	}, NewMockDeduper())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestWebhookExpireOnCompletedRefused(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Complete(created.OrderID, "user-1")
	require.NoError(t, err)

	_, err = svc.HandlePaymentNotification(models.PaymentNotification{
		OrderID:           created.OrderID,
		TransactionStatus: "expire",
	}, NewMockDeduper())
	assert.ErrorIs(t, err, order.ErrAlreadyCompleted)

	stored, err := svc.FindOne(created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status, "terminal state must survive a late expire")
}

func TestWebhookReplayDeduplicated(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	dedup := NewMockDeduper()
	notification := models.PaymentNotification{OrderID: created.OrderID, TransactionStatus: "settlement"}

	_, err = svc.HandlePaymentNotification(notification, dedup)
	require.NoError(t, err)

	// Replay: acked with the current order, no second lifecycle call.
	replayed, err := svc.HandlePaymentNotification(notification, dedup)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, replayed.Status)
	assert.Equal(t, 99, db.tickets["ticket-1"].Quantity, "replay must not decrement again")
}

func TestWebhookInternalFailureClearsDedup(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	dedup := NewMockDeduper()
	db.shouldFailOn = "CompleteOrder"
	db.errorMsg = "connection reset"

	notification := models.PaymentNotification{OrderID: created.OrderID, TransactionStatus: "settlement"}
	_, err = svc.HandlePaymentNotification(notification, dedup)
	require.Error(t, err)
	assert.Contains(t, dedup.cleared, created.OrderID+":settlement", "retry must get a fresh attempt")

	db.shouldFailOn = ""
	updated, err := svc.HandlePaymentNotification(notification, dedup)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestWebhookPendingAndCancelMapping(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.HandlePaymentNotification(models.PaymentNotification{
		OrderID: created.OrderID, TransactionStatus: "pending",
	}, NewMockDeduper())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)

	updated, err = svc.HandlePaymentNotification(models.PaymentNotification{
		OrderID: created.OrderID, TransactionStatus: "expire",
	}, NewMockDeduper())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestRemoveOrder(t *testing.T) {
	svc, db, _, _ := newTestService()
	seedTicket(db, "ticket-1", 10000, 100)

	created, err := svc.Create("user-1", models.OrderRequest{Ticket: "ticket-1", Quantity: 1})
	require.NoError(t, err)

	removed, err := svc.Remove(created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderID, removed.OrderID)

	_, err = svc.FindOne(created.OrderID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestIsStateConflict(t *testing.T) {
	assert.True(t, order.IsStateConflict(order.ErrAlreadyCompleted))
	assert.True(t, order.IsStateConflict(order.ErrInsufficientInventory))
	assert.False(t, order.IsStateConflict(order.ErrOrderNotFound))
	assert.False(t, order.IsStateConflict(errors.New("boom")))
}
