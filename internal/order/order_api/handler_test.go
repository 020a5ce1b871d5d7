package order_api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ms-eventhub/internal/config"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"
	"ms-eventhub/internal/order/order_api"
	"ms-eventhub/internal/tickets"
	"ms-eventhub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDB struct {
	orders  map[string]*models.Order
	tickets map[string]*models.Ticket
}

func newStubDB() *stubDB {
	return &stubDB{
		orders:  make(map[string]*models.Order),
		tickets: make(map[string]*models.Ticket),
	}
}

func (s *stubDB) CreateOrder(o models.Order) error {
	s.orders[o.OrderID] = &o
	return nil
}

func (s *stubDB) GetOrderByID(id string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *stubDB) GetOrderByIDAndUser(id, userID string) (*models.Order, error) {
	o, err := s.GetOrderByID(id)
	if err != nil || o.CreatedBy != userID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (s *stubDB) UpdateOrderStatus(id, status string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	o.Status = status
	copied := *o
	return &copied, nil
}

func (s *stubDB) CompleteOrder(o models.Order, vouchers models.VoucherList) (*models.Order, error) {
	stored, ok := s.orders[o.OrderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if stored.Status == models.StatusCompleted {
		return nil, order.ErrAlreadyCompleted
	}
	ticket, ok := s.tickets[o.TicketID]
	if !ok {
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

func (s *stubDB) DeleteOrder(id string) error {
	if _, ok := s.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *stubDB) ListOrders(limit, page int, search string) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (s *stubDB) ListOrdersByUser(userID string, limit, page int, search string) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (s *stubDB) GetTicket(id string) (*models.Ticket, error) {
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, tickets.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

type noopLock struct{}

func (noopLock) LockTicket(ticketID, orderID string) (bool, error) { return true, nil }
func (noopLock) UnlockTicket(ticketID, orderID string) error       { return nil }

type memDedup struct{ seen map[string]bool }

func (m *memDedup) MarkNotificationProcessed(orderID, status string) (bool, error) {
	key := orderID + ":" + status
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memDedup) ClearNotification(orderID, status string) error {
	delete(m.seen, orderID+":"+status)
	return nil
}

func newTestHandler() (*order_api.Handler, *stubDB) {
	db := newStubDB()
	svc := order.NewOrderService(db, db, noopLock{}, nil, config.TopicConfig{}, logger.NewLogger())
	h := order_api.NewHandler(svc, &memDedup{seen: make(map[string]bool)}, logger.NewLogger())
	return h, db
}

func postNotification(t *testing.T, h *order_api.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/orders/notification", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.Notification(w, r)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Envelope {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestNotificationSettlement(t *testing.T) {
	h, db := newTestHandler()
	db.tickets["ticket-1"] = &models.Ticket{ID: "ticket-1", Price: 10000, Quantity: 100}
	db.orders["ord_1"] = &models.Order{OrderID: "ord_1", CreatedBy: "user-1", TicketID: "ticket-1", Quantity: 2, Status: models.StatusPending}

	w := postNotification(t, h, models.PaymentNotification{OrderID: "ord_1", TransactionStatus: "settlement"})

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusOK, env.Meta.Status)
	assert.Equal(t, models.StatusCompleted, db.orders["ord_1"].Status)
	assert.Equal(t, 98, db.tickets["ticket-1"].Quantity)
}

func TestNotificationUnknownOrder(t *testing.T) {
	h, _ := newTestHandler()

	w := postNotification(t, h, models.PaymentNotification{OrderID: "ord_missing", TransactionStatus: "settlement"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationExpireOnCompletedAcked(t *testing.T) {
	h, db := newTestHandler()
	db.tickets["ticket-1"] = &models.Ticket{ID: "ticket-1", Price: 10000, Quantity: 100}
	db.orders["ord_1"] = &models.Order{OrderID: "ord_1", CreatedBy: "user-1", TicketID: "ticket-1", Quantity: 1, Status: models.StatusCompleted}

	w := postNotification(t, h, models.PaymentNotification{OrderID: "ord_1", TransactionStatus: "expire"})

	// The refusal is final, so the provider gets an ack rather than a retry.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCompleted, db.orders["ord_1"].Status)
}

func TestNotificationMissingFields(t *testing.T) {
	h, _ := newTestHandler()

	w := postNotification(t, h, map[string]string{"order_id": "ord_1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationMalformedBody(t *testing.T) {
	h, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/orders/notification", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Notification(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderRequiresValidBody(t *testing.T) {
	h, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte(`{"ticket":"","quantity":0}`)))
	w := httptest.NewRecorder()
	h.Create(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, env.Meta.Status)
}
