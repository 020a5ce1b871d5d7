package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ms-eventhub/internal/auth"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *order.OrderService
	Dedup   order.NotificationDeduper
	Logger  *logger.Logger
}

func NewHandler(service *order.OrderService, dedup order.NotificationDeduper, log *logger.Logger) *Handler {
	return &Handler{Service: service, Dedup: dedup, Logger: log}
}

// listParams pulls limit/page/search from the query string with the shared
// defaults.
func listParams(r *http.Request) (limit, page int, search string) {
	limit = 10
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	return limit, page, r.URL.Query().Get("search")
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		utils.ValidationError(w, ferr.Field, ferr.Detail, "Validation failed")
	case errors.Is(err, order.ErrOrderNotFound):
		utils.NotFound(w, "Order not found")
	case errors.Is(err, order.ErrTicketNotFound):
		utils.NotFound(w, "Ticket not found")
	case order.IsStateConflict(err):
		utils.Conflict(w, err.Error())
	default:
		h.Logger.Error("API", fmt.Sprintf("Order %s failed: %v", action, err))
		utils.Error(w, err, "Internal server error")
	}
}

// Create handles POST /api/orders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	o, err := h.Service.Create(auth.UserID(r.Context()), req)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	utils.Success(w, o, "Order created")
}

// FindAll handles GET /api/orders (admin scope).
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	limit, page, search := listParams(r)

	orders, count, err := h.Service.FindAll(limit, page, search)
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	utils.SuccessWithPagination(w, orders, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Orders retrieved")
}

// FindMine handles GET /api/orders/mine, scoped to the caller.
func (h *Handler) FindMine(w http.ResponseWriter, r *http.Request) {
	limit, page, search := listParams(r)

	orders, count, err := h.Service.FindAllByMember(auth.UserID(r.Context()), limit, page, search)
	if err != nil {
		h.respondError(w, err, "list mine")
		return
	}
	utils.SuccessWithPagination(w, orders, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Orders retrieved")
}

// FindOne handles GET /api/orders/{orderId}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.FindOne(chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	utils.Success(w, o, "Order retrieved")
}

// Complete handles PUT /api/orders/{orderId}/complete for the order's owner.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Complete(chi.URLParam(r, "orderId"), auth.UserID(r.Context()))
	if err != nil {
		h.respondError(w, err, "complete")
		return
	}
	utils.Success(w, o, "Order completed")
}

// SetPending handles PUT /api/orders/{orderId}/pending.
func (h *Handler) SetPending(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.SetPending(chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err, "pending")
		return
	}
	utils.Success(w, o, "Order marked pending")
}

// Cancel handles PUT /api/orders/{orderId}/cancelled.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Cancel(chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err, "cancel")
		return
	}
	utils.Success(w, o, "Order cancelled")
}

// Remove handles DELETE /api/orders/{orderId} (admin scope).
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Remove(chi.URLParam(r, "orderId"))
	if err != nil {
		h.respondError(w, err, "remove")
		return
	}
	utils.Success(w, o, "Order removed")
}
