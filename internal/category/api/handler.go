package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ms-eventhub/internal/category"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *category.CategoryService
	Logger  *logger.Logger
}

func NewHandler(service *category.CategoryService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	var ferr *validation.FieldError
	switch {
	case errors.As(err, &ferr):
		utils.ValidationError(w, ferr.Field, ferr.Detail, "Validation failed")
	case errors.Is(err, category.ErrCategoryNotFound):
		utils.NotFound(w, "Category not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("Category %s failed: %v", action, err))
		utils.Error(w, err, "Internal server error")
	}
}

// Create handles POST /api/category.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	cat, err := h.Service.CreateCategory(req)
	if err != nil {
		h.respondError(w, err, "create")
		return
	}
	utils.Success(w, cat, "Category created")
}

// FindAll handles GET /api/category.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	limit := 10
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	list, count, err := h.Service.ListCategories(limit, page, r.URL.Query().Get("search"))
	if err != nil {
		h.respondError(w, err, "list")
		return
	}
	utils.SuccessWithPagination(w, list, utils.Pagination{
		Current:    page,
		Total:      count,
		TotalPages: utils.TotalPages(count, limit),
	}, "Categories retrieved")
}

// FindOne handles GET /api/category/{categoryId}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Service.GetCategory(chi.URLParam(r, "categoryId"))
	if err != nil {
		h.respondError(w, err, "get")
		return
	}
	utils.Success(w, cat, "Category retrieved")
}

// Update handles PUT /api/category/{categoryId}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}

	cat, err := h.Service.UpdateCategory(chi.URLParam(r, "categoryId"), req)
	if err != nil {
		h.respondError(w, err, "update")
		return
	}
	utils.Success(w, cat, "Category updated")
}

// Remove handles DELETE /api/category/{categoryId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Service.DeleteCategory(chi.URLParam(r, "categoryId"))
	if err != nil {
		h.respondError(w, err, "delete")
		return
	}
	utils.Success(w, cat, "Category removed")
}
