package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kuizlet/internal/api/shared"
	"github.com/phrazzld/kuizlet/internal/service/auth"
)

// MagicLinkRequest represents the request body for requesting a sign-in
// email.
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest represents the request body for exchanging the emailed
// code for a session.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

// SessionResponseBody is the wire view of a session; the access token
// itself is never echoed back.
type SessionResponseBody struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthHandler handles authentication HTTP requests. A nil provider means
// no identity provider is configured; every endpoint then reports that
// sign-in is unavailable.
type AuthHandler struct {
	provider  auth.Provider
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(provider auth.Provider) *AuthHandler {
	return &AuthHandler{
		provider:  provider,
		validator: validator.New(),
	}
}

// RequestMagicLink handles POST /api/auth/magic-link requests
func (h *AuthHandler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(auth.ErrAuthDisabled), GetSafeErrorMessage(auth.ErrAuthDisabled))
		return
	}

	var req MagicLinkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.provider.RequestMagicLink(r.Context(), req.Email); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Failed to send magic link", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// VerifyCode handles POST /api/auth/verify requests
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(auth.ErrAuthDisabled), GetSafeErrorMessage(auth.ErrAuthDisabled))
		return
	}

	var req VerifyCodeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.provider.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// SignOut handles POST /api/auth/signout requests
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(auth.ErrAuthDisabled), GetSafeErrorMessage(auth.ErrAuthDisabled))
		return
	}

	if err := h.provider.SignOut(r.Context()); err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /api/auth/session requests
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(auth.ErrAuthDisabled), GetSafeErrorMessage(auth.ErrAuthDisabled))
		return
	}

	session, ok := h.provider.Current()
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Not signed in")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

func sessionToResponse(session *auth.Session) SessionResponseBody {
	return SessionResponseBody{
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}
}
