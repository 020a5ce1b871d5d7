package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ms-eventhub/internal/auth"
	auth_api "ms-eventhub/internal/auth/api"
	"ms-eventhub/internal/banner"
	banner_api "ms-eventhub/internal/banner/api"
	"ms-eventhub/internal/category"
	category_api "ms-eventhub/internal/category/api"
	"ms-eventhub/internal/config"
	"ms-eventhub/internal/events"
	events_api "ms-eventhub/internal/events/api"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/media"
	media_api "ms-eventhub/internal/media/api"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"
	"ms-eventhub/internal/order/order_api"
	"ms-eventhub/internal/tickets"
	"ms-eventhub/internal/tickets/ticket_api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stubs below satisfy each storage interface with empty data so the
// router can be exercised end to end without a database.

type stubUserDB struct{}

func (stubUserDB) CreateUser(models.User) error { return nil }
func (stubUserDB) GetUserByID(string) (*models.User, error) {
	return nil, auth.ErrInvalidCredentials
}
func (stubUserDB) GetActiveUserByIdentifier(string) (*models.User, error) {
	return nil, auth.ErrInvalidCredentials
}
func (stubUserDB) GetUserByActivationCode(string) (*models.User, error) {
	return nil, auth.ErrActivationNotFound
}
func (stubUserDB) UpdateUser(models.User) error { return nil }

type stubTicketDB struct{}

func (stubTicketDB) CreateTicket(models.Ticket) error { return nil }
func (stubTicketDB) GetTicketByID(string) (*models.Ticket, error) {
	return &models.Ticket{ID: "ticket-1", Quantity: 10}, nil
}
func (stubTicketDB) UpdateTicket(models.Ticket) error { return nil }
func (stubTicketDB) DeleteTicket(string) error        { return nil }
func (stubTicketDB) ListTickets(int, int, string) ([]models.Ticket, int, error) {
	return []models.Ticket{}, 0, nil
}
func (stubTicketDB) GetTicketsByEvent(string) ([]models.Ticket, error) {
	return []models.Ticket{}, nil
}

type stubEventDB struct{}

func (stubEventDB) CreateEvent(models.Event) error { return nil }
func (stubEventDB) GetEventByID(string) (*models.Event, error) {
	return &models.Event{ID: "event-1"}, nil
}
func (stubEventDB) GetEventBySlug(string) (*models.Event, error) {
	return &models.Event{ID: "event-1"}, nil
}
func (stubEventDB) UpdateEvent(models.Event) error { return nil }
func (stubEventDB) DeleteEvent(string) error       { return nil }
func (stubEventDB) ListEvents(int, int, string, bool, bool) ([]models.Event, int, error) {
	return []models.Event{}, 0, nil
}

type stubCategoryDB struct{}

func (stubCategoryDB) CreateCategory(models.Category) error { return nil }
func (stubCategoryDB) GetCategoryByID(string) (*models.Category, error) {
	return &models.Category{ID: "cat-1"}, nil
}
func (stubCategoryDB) UpdateCategory(models.Category) error { return nil }
func (stubCategoryDB) DeleteCategory(string) error          { return nil }
func (stubCategoryDB) ListCategories(int, int, string) ([]models.Category, int, error) {
	return []models.Category{}, 0, nil
}

type stubBannerDB struct{}

func (stubBannerDB) CreateBanner(models.Banner) error { return nil }
func (stubBannerDB) GetBannerByID(string) (*models.Banner, error) {
	return &models.Banner{ID: "banner-1"}, nil
}
func (stubBannerDB) UpdateBanner(models.Banner) error { return nil }
func (stubBannerDB) DeleteBanner(string) error        { return nil }
func (stubBannerDB) ListBanners(int, int, string, bool) ([]models.Banner, int, error) {
	return []models.Banner{}, 0, nil
}

type stubOrderDB struct{}

func (stubOrderDB) CreateOrder(models.Order) error { return nil }
func (stubOrderDB) GetOrderByID(string) (*models.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (stubOrderDB) GetOrderByIDAndUser(string, string) (*models.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (stubOrderDB) UpdateOrderStatus(string, string) (*models.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (stubOrderDB) CompleteOrder(models.Order, models.VoucherList) (*models.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (stubOrderDB) DeleteOrder(string) error { return order.ErrOrderNotFound }
func (stubOrderDB) ListOrders(int, int, string) ([]models.Order, int, error) {
	return []models.Order{}, 0, nil
}
func (stubOrderDB) ListOrdersByUser(string, int, int, string) ([]models.Order, int, error) {
	return []models.Order{}, 0, nil
}

type stubLock struct{}

func (stubLock) LockTicket(string, string) (bool, error) { return true, nil }
func (stubLock) UnlockTicket(string, string) error       { return nil }

type stubDedup struct{}

func (stubDedup) MarkNotificationProcessed(string, string) (bool, error) { return true, nil }
func (stubDedup) ClearNotification(string, string) error                 { return nil }

type routerFixture struct {
	router    http.Handler
	tokens    *auth.TokenManager
	uploadDir string
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	log := logger.NewLogger()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	uploadDir := t.TempDir()
	mediaService, err := media.NewMediaService(config.MediaConfig{UploadDir: uploadDir, BaseURL: "/uploads"})
	require.NoError(t, err)

	ticketService := tickets.NewTicketService(stubTicketDB{})
	orderService := order.NewOrderService(stubOrderDB{}, ticketService, stubLock{}, nil, config.TopicConfig{}, log)

	h := handlerSet{
		auth:     &auth_api.Handler{AuthService: auth.NewService(stubUserDB{}, tokens, "pw-key"), Logger: log},
		orders:   order_api.NewHandler(orderService, stubDedup{}, log),
		events:   events_api.NewHandler(events.NewEventService(stubEventDB{}), log),
		category: category_api.NewHandler(category.NewCategoryService(stubCategoryDB{}), log),
		banners:  banner_api.NewHandler(banner.NewBannerService(stubBannerDB{}), log),
		tickets:  ticket_api.NewHandler(ticketService, log),
		media:    media_api.NewHandler(mediaService, log),
	}

	return routerFixture{router: newRouter(h, tokens, uploadDir), tokens: tokens, uploadDir: uploadDir}
}

func (f routerFixture) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f routerFixture) token(t *testing.T, role string) string {
	t.Helper()
	token, err := f.tokens.Generate("user-1", role)
	require.NoError(t, err)
	return token
}

func TestCatalogReadsArePublic(t *testing.T) {
	f := newRouterFixture(t)

	reads := []string{
		"/api/events",
		"/api/events/event-1",
		"/api/events/summer-fest/slug",
		"/api/category",
		"/api/category/cat-1",
		"/api/banners",
		"/api/banners/banner-1",
		"/api/tickets",
		"/api/tickets/ticket-1",
		"/api/tickets/event-1/events",
	}
	for _, path := range reads {
		w := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s must not require auth", path)
	}
}

func TestCatalogWritesNeedAdmin(t *testing.T) {
	f := newRouterFixture(t)
	member := f.token(t, models.RoleMember)

	writes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/events"},
		{http.MethodPut, "/api/events/event-1"},
		{http.MethodDelete, "/api/events/event-1"},
		{http.MethodPost, "/api/category"},
		{http.MethodPost, "/api/banners"},
		{http.MethodPost, "/api/tickets"},
		{http.MethodDelete, "/api/tickets/ticket-1"},
		{http.MethodGet, "/api/orders"},
	}
	for _, route := range writes {
		w := f.do(t, route.method, route.path, "", []byte("{}"))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s without token", route.method, route.path)

		w = f.do(t, route.method, route.path, member, []byte("{}"))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as member", route.method, route.path)
	}

	// An admin clears the ACL; the empty body fails validation instead.
	w := f.do(t, http.MethodPost, "/api/tickets", f.token(t, models.RoleAdmin), []byte("{}"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaRoutesOpenToMembers(t *testing.T) {
	f := newRouterFixture(t)
	member := f.token(t, models.RoleMember)

	w := f.do(t, http.MethodPost, "/api/media/upload-single", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A member passes the ACL; the missing multipart body fails validation.
	w = f.do(t, http.MethodPost, "/api/media/upload-single", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/media/upload-multiple", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaUploadAndRemoveRoundTrip(t *testing.T) {
	f := newRouterFixture(t)
	member := f.token(t, models.RoleMember)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"one.png", "two.png"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload-multiple", &buf)
	req.Header.Set("Authorization", "Bearer "+member)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data []media.Upload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)

	for _, upload := range envelope.Data {
		_, err := os.Stat(filepath.Join(f.uploadDir, upload.FileName))
		require.NoError(t, err)

		body, err := json.Marshal(map[string]string{"fileUrl": upload.URL})
		require.NoError(t, err)
		res := f.do(t, http.MethodDelete, "/api/media/remove", member, body)
		assert.Equal(t, http.StatusOK, res.Code)

		_, err = os.Stat(filepath.Join(f.uploadDir, upload.FileName))
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
}

func TestActivationIsPostWithBody(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/auth/activation", "", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/auth/activation", "", []byte(`{"code":"abc"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
