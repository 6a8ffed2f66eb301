package session

import (
	"errors"
	"net/http"

	"vinylvault/internal/httpx"
)

// HTTPHandler exposes a user's own sessions so stale devices can be signed out.
type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, "Session not found", nil)
		return
	}
	httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
}

// ListSessions handles GET /v1/me/sessions
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r.Context())
	if !ok {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}
	list, err := h.service.ListByUserID(r.Context(), p.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, list, map[string]any{"total": len(list)})
}

// DeleteSession handles DELETE /v1/me/sessions/{id}. Another user's
// session id is reported as not found.
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r.Context())
	if !ok {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}
	if err := h.service.Delete(r.Context(), p.UserID, r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
