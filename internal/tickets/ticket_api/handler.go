package ticket_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/tickets"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *tickets.TicketService
	Logger  *logger.Logger
}

func NewHandler(service *tickets.TicketService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		utils.ValidationError(w, ferr.Field, ferr.Detail, "Validation failed")
	case errors.Is(err, tickets.ErrTicketNotFound):
		utils.NotFound(w, "Ticket not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("Ticket %s failed: %v", action, err))
		utils.Error(w, err, "Internal server error")
	}
}

// Create handles POST /api/tickets.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	ticket, err := h.Service.CreateTicket(req)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	utils.Success(w, ticket, "Ticket created")
}

// FindAll handles GET /api/tickets.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	limit := 10
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	list, count, err := h.Service.ListTickets(limit, page, r.URL.Query().Get("search"))
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	utils.SuccessWithPagination(w, list, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Tickets retrieved")
}

// FindOne handles GET /api/tickets/{ticketId}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Service.GetTicket(chi.URLParam(r, "ticketId"))
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	utils.Success(w, ticket, "Ticket retrieved")
}

// FindByEvent handles GET /api/tickets/{eventId}/events.
func (h *Handler) FindByEvent(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.GetTicketsByEvent(chi.URLParam(r, "eventId"))
	if err != nil {
		h.respondError(w, err, "list by event")
		return
	}
	utils.Success(w, list, "Tickets retrieved")
}

// Update handles PUT /api/tickets/{ticketId}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	ticket, err := h.Service.UpdateTicket(chi.URLParam(r, "ticketId"), req)
	if err != nil {
		h.respondError(w, err, "update")
		return
	}
	utils.Success(w, ticket, "Ticket updated")
}

// Remove handles DELETE /api/tickets/{ticketId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Service.DeleteTicket(chi.URLParam(r, "ticketId"))
	if err != nil {
		h.respondError(w, err, "delete")
		return
	}
	utils.Success(w, ticket, "Ticket removed")
}
