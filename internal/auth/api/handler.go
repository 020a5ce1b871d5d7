package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-eventhub/internal/auth"
	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"
)

type Handler struct {
	AuthService *auth.Service
	Logger      *logger.Logger
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "payload", err.Error(), "failed registration")
		return
	}

	user, err := h.AuthService.Register(req)
	if err != nil {
		var ferr *validation.FieldError
		if errors.As(err, &ferr) {
			utils.ValidationError(w, ferr.Field, ferr.Detail, "failed registration")
			return
		}
		h.Logger.Error("AUTH", fmt.Sprintf("Register: %v", err))
		utils.Error(w, err, "failed registration")
		return
	}

	utils.Success(w, user, "success registration")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "payload", err.Error(), "login failed")
		return
	}

	token, err := h.AuthService.Login(req)
	if err != nil {
		var ferr *validation.FieldError
		if errors.As(err, &ferr) {
			utils.ValidationError(w, ferr.Field, ferr.Detail, "login failed")
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.Unauthorized(w, "user not found")
			return
		}
		h.Logger.Error("AUTH", fmt.Sprintf("Login: %v", err))
		utils.Error(w, err, "login failed")
		return
	}

	utils.Success(w, token, "login success")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	user, err := h.AuthService.Me(userID)
	if err != nil {
		h.Logger.Error("AUTH", fmt.Sprintf("Me: user %s not found: %v", userID, err))
		utils.NotFound(w, "user not found")
		return
	}

	utils.Success(w, user, "success get user profile")
}

// Activation confirms an account with the code delivered by email.
func (h *Handler) Activation(w http.ResponseWriter, r *http.Request) {
	var req models.ActivationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ValidationError(w, "payload", err.Error(), "failed activation")
		return
	}
	if ferr := validation.Struct(req); ferr != nil {
		utils.ValidationError(w, ferr.Field, ferr.Detail, "failed activation")
		return
	}

	user, err := h.AuthService.Activate(req.Code)
	if err != nil {
		if errors.Is(err, auth.ErrActivationNotFound) {
			utils.NotFound(w, "activation code not found")
			return
		}
		h.Logger.Error("AUTH", fmt.Sprintf("Activation: %v", err))
		utils.Error(w, err, "failed activation")
		return
	}

	utils.Success(w, user, "user successfully activated")
}
