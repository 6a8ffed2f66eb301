package auth

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"vinylvault/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type LoginReq struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return r.RemoteAddr
}

// Login handles POST /v1/auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	tokens, err := h.service.Login(r.Context(), req.Email, req.Password, req.RememberMe, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid email or password", nil)
			return
		}
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, tokens, nil)
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken handles POST /v1/auth/refresh
func (h *HTTPHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	tokens, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid or expired refresh token", nil)
			return
		}
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, tokens, nil)
}

type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout handles POST /v1/auth/logout. The body is optional; a refresh_token
// in it ends that session too.
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req logoutReq
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.service.Logout(r.Context(), token, req.RefreshToken, userID); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
			return
		}
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}

	httpx.JSONSuccessNoContent(w)
}
