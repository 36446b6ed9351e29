package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharmaasahill/ticket-dashboard/internal/adapters/primary/validation"
	"github.com/sharmaasahill/ticket-dashboard/internal/auth"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/domain"
	"github.com/sharmaasahill/ticket-dashboard/internal/core/ports"
)

// AuthHandler handles the passwordless login endpoints.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// Router sets up a new chi Router for the auth endpoints.
func (h *AuthHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/request-code", h.HandleRequestCode)
	r.Post("/verify-code", h.HandleVerifyCode)
	return r
}

// --- Request/Response DTOs ---

// RequestCodeRequest defines the expected JSON body for requesting a code
type RequestCodeRequest struct {
	Email string `json:"email"`
}

// Validate validates the request code request
func (r *RequestCodeRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email).
		MaxLength("email", r.Email, domain.MaxEmailLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// VerifyCodeRequest defines the expected JSON body for verifying a code
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate validates the verify code request
func (r *VerifyCodeRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("code", r.Code).
		Length("code", r.Code, domain.LoginCodeLength).
		Digits("code", r.Code)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UserDTO defines the JSON response for user accounts.
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	}
}

// VerifyCodeResponse carries the session token and the resolved account.
type VerifyCodeResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// --- Handlers ---

// HandleRequestCode handles POST /auth/request-code
func (h *AuthHandler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[RequestCodeRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.authService.IssueCode(r.Context(), req.Email); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "Login code sent"})
}

// HandleVerifyCode handles POST /auth/verify-code
func (h *AuthHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[VerifyCodeRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, VerifyCodeResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}
