package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"

	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/media"
	"ms-eventhub/internal/utils"
)

type Handler struct {
	Service *media.MediaService
	Logger  *logger.Logger
}

func NewHandler(service *media.MediaService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// UploadSingle handles POST /api/media/upload-single, a multipart form with a
// "file" part.
func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		utils.ValidationError(w, "file", "invalid multipart payload", "Validation failed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ValidationError(w, "file", "file part is required", "Validation failed")
		return
	}
	defer file.Close()

	upload, err := h.Service.Store(file, header)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.Success(w, upload, "Media uploaded")
}

// UploadMultiple handles POST /api/media/upload-multiple, a multipart form
// with a repeated "files" part.
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		utils.ValidationError(w, "files", "invalid multipart payload", "Validation failed")
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		utils.ValidationError(w, "files", "at least one file is required", "Validation failed")
		return
	}

	uploads, err := h.Service.StoreMany(headers)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	utils.Success(w, uploads, "Media uploaded")
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		utils.ValidationError(w, "file", "unsupported media type", "Validation failed")
	case errors.Is(err, media.ErrFileTooLarge):
		utils.ValidationError(w, "file", "file exceeds the upload size limit", "Validation failed")
	default:
		h.Logger.Error("API", fmt.Sprintf("Media upload failed: %v", err))
		utils.Error(w, err, "Internal server error")
	}
}

type removeRequest struct {
	FileURL string `json:"fileUrl"`
}

// Remove handles DELETE /api/media/remove; the body names the stored file by
// the URL the upload returned.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileURL == "" {
		utils.ValidationError(w, "fileUrl", "this field is required", "Validation failed")
		return
	}

	if err := h.Service.Remove(req.FileURL); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.NotFound(w, "Media not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Media remove failed: %v", err))
		utils.Error(w, err, "Internal server error")
		return
	}
	utils.Success(w, map[string]string{"fileUrl": req.FileURL}, "Media removed")
}
