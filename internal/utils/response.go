package utils

import (
	"encoding/json"
	"net/http"
)

type Meta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type Pagination struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the shared response shape: meta + data, plus pagination on
// list endpoints.
type Envelope struct {
	Meta       Meta        `json:"meta"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Success(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusOK, Envelope{
		Meta: Meta{Status: http.StatusOK, Message: message},
		Data: data,
	})
}

func SuccessWithPagination(w http.ResponseWriter, data interface{}, pagination Pagination, message string) {
	write(w, http.StatusOK, Envelope{
		Meta:       Meta{Status: http.StatusOK, Message: message},
		Data:       data,
		Pagination: &pagination,
	})
}

func NotFound(w http.ResponseWriter, message string) {
	write(w, http.StatusNotFound, Envelope{
		Meta: Meta{Status: http.StatusNotFound, Message: message},
		Data: nil,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	write(w, http.StatusForbidden, Envelope{
		Meta: Meta{Status: http.StatusForbidden, Message: message},
		Data: nil,
	})
}

// ValidationError reports the first failing field, keyed by field name.
func ValidationError(w http.ResponseWriter, field, detail, message string) {
	write(w, http.StatusBadRequest, Envelope{
		Meta: Meta{Status: http.StatusBadRequest, Message: message},
		Data: map[string]string{field: detail},
	})
}

// Conflict renders invalid state transitions (already completed, insufficient
// inventory) as 409 rather than folding them into 500.
func Conflict(w http.ResponseWriter, message string) {
	write(w, http.StatusConflict, Envelope{
		Meta: Meta{Status: http.StatusConflict, Message: message},
		Data: nil,
	})
}

func Error(w http.ResponseWriter, err error, message string) {
	var data interface{}
	if err != nil {
		data = err.Error()
	}
	write(w, http.StatusInternalServerError, Envelope{
		Meta: Meta{Status: http.StatusInternalServerError, Message: message},
		Data: data,
	})
}

func TotalPages(count, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := count / limit
	if count%limit != 0 {
		pages++
	}
	return pages
}
