package handlers

import (
	"net/http"

	"travel-story-backend/internal/middleware"
	"travel-story-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateAccountRequest represents the request body for registration
type CreateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	Error bool `json:"error"`
	*services.AuthResult
	Message string `json:"message"`
}

// CreateAccount handles POST /create-account
func (h *UserHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.userService.CreateAccount(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		logEvent(err).Err(err).Str("email", req.Email).Msg("Failed to create account")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().Str("email", res.User.Email).Msg("Account created")

	respondJSON(w, http.StatusCreated, AuthResponse{
		AuthResult: res,
		Message:    "Registration Successful",
	})
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logEvent(err).Err(err).Str("email", req.Email).Msg("Failed login attempt")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		AuthResult: res,
		Message:    "Login Successful",
	})
}

// GetUser handles GET /get-user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.GetCurrentUser(r.Context(), userID)
	if err != nil {
		logEvent(err).Err(err).Str("user_id", userID).Msg("Failed to get user")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"user":    user,
		"message": "User Found",
	})
}
