package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ms-eventhub/internal/auth"
	"ms-eventhub/internal/events"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *events.EventService
	Logger  *logger.Logger
}

func NewHandler(service *events.EventService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		utils.ValidationError(w, ferr.Field, ferr.Detail, "Validation failed")
	case errors.Is(err, events.ErrEventNotFound):
		utils.NotFound(w, "Event not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("Event %s failed: %v", action, err))
		utils.Error(w, err, "Internal server error")
	}
}

// Create handles POST /api/events.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	event, err := h.Service.CreateEvent(auth.UserID(r.Context()), req)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	utils.Success(w, event, "Event created")
}

// FindAll handles GET /api/events. The isFeatured and isPublish query flags
// narrow the listing for home-page style queries.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	limit := 10
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	featuredOnly := r.URL.Query().Get("isFeatured") == "true"
	publishedOnly := r.URL.Query().Get("isPublish") == "true"

	list, count, err := h.Service.ListEvents(limit, page, r.URL.Query().Get("search"), featuredOnly, publishedOnly)
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	utils.SuccessWithPagination(w, list, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Events retrieved")
}

// FindOne handles GET /api/events/{eventId}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetEvent(chi.URLParam(r, "eventId"))
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	utils.Success(w, event, "Event retrieved")
}

// FindOneBySlug handles GET /api/events/{slug}/slug, the public detail route.
func (h *Handler) FindOneBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetEventBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		h.respondError(w, err, "get by slug")
		return
	}
	utils.Success(w, event, "Event retrieved")
}

// Update handles PUT /api/events/{eventId}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	event, err := h.Service.UpdateEvent(chi.URLParam(r, "eventId"), req)
	if err != nil {
		h.respondError(w, err, "update")
		return
	}
	utils.Success(w, event, "Event updated")
}

// Remove handles DELETE /api/events/{eventId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.DeleteEvent(chi.URLParam(r, "eventId"))
	if err != nil {
		h.respondError(w, err, "delete")
		return
	}
	utils.Success(w, event, "Event removed")
}
