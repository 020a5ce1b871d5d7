package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ms-eventhub/internal/banner"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *banner.BannerService
	Logger  *logger.Logger
}

func NewHandler(service *banner.BannerService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		utils.ValidationError(w, ferr.Field, ferr.Detail, "Validation failed")
	case errors.Is(err, banner.ErrBannerNotFound):
		utils.NotFound(w, "Banner not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("Banner %s failed: %v", action, err))
		utils.Error(w, err, "Internal server error")
	}
}

// Create handles POST /api/banners.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.BannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	b, err := h.Service.CreateBanner(req)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	utils.Success(w, b, "Banner created")
}

// FindAll handles GET /api/banners. isShow=true narrows to visible banners.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	limit := 10
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	showOnly := r.URL.Query().Get("isShow") == "true"

	list, count, err := h.Service.ListBanners(limit, page, r.URL.Query().Get("search"), showOnly)
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	utils.SuccessWithPagination(w, list, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Banners retrieved")
}

// FindOne handles GET /api/banners/{bannerId}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBanner(chi.URLParam(r, "bannerId"))
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	utils.Success(w, b, "Banner retrieved")
}

// Update handles PUT /api/banners/{bannerId}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.BannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	b, err := h.Service.UpdateBanner(chi.URLParam(r, "bannerId"), req)
	if err != nil {
		h.respondError(w, err, "update")
		return
	}
	utils.Success(w, b, "Banner updated")
}

// Remove handles DELETE /api/banners/{bannerId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.DeleteBanner(chi.URLParam(r, "bannerId"))
	if err != nil {
		h.respondError(w, err, "delete")
		return
	}
	utils.Success(w, b, "Banner removed")
}
