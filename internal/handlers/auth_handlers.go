package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/httputil"
)

// AuthService defines the interface expected from the auth service.
// This promotes loose coupling and testability.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthHandler struct {
	authService AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authSvc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
		logger:      logger.Named("auth_handler"),
	}
}

func userResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// HandleRegister handles POST /auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Registration rejected", zap.Error(err))
		respondServiceError(w, h.logger, err, "Registration failed due to an internal error")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    userResponse(user),
	})
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "Login failed due to an internal error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    userResponse(user),
	})
}
