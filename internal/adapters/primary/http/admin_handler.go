package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sharmaasahill/ticket-dashboard/internal/adapters/primary/validation"
)

// AdminHandler handles the elevated-access verification endpoint. The
// board gates destructive UI actions behind a shared admin secret.
type AdminHandler struct {
	superSecret  string
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(superSecret string, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		superSecret:  superSecret,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

// RegisterRoutes registers the admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/super-verify", h.HandleSuperVerify)
}

// SuperVerifyRequest defines the expected JSON body for super verification
type SuperVerifyRequest struct {
	Password string `json:"password"`
}

// Validate validates the super verify request
func (r *SuperVerifyRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("password", r.Password)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// SuperVerifyResponse reports whether the supplied secret matched.
type SuperVerifyResponse struct {
	OK bool `json:"ok"`
}

// HandleSuperVerify handles POST /admin/super-verify
func (h *AdminHandler) HandleSuperVerify(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[SuperVerifyRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if h.superSecret == "" {
		h.logger.Warn("super verification attempted but no secret is configured")
		WriteJSON(w, http.StatusOK, SuperVerifyResponse{OK: false})
		return
	}

	ok := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.superSecret)) == 1
	if !ok {
		h.logger.Warn("super verification failed", "remote_addr", r.RemoteAddr)
	}

	WriteJSON(w, http.StatusOK, SuperVerifyResponse{OK: ok})
}
