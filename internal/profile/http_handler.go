package profile

import (
	"errors"
	"net/http"
	"strings"

	"vinylvault/internal/httpx"
	"vinylvault/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Get handles GET /v1/me/profile
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, "User not found", nil)
			return
		}
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, p, nil)
}

type updateReq struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=50"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Avatar          *string `json:"avatar" validate:"omitempty,max=2048"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" validate:"omitempty,password_strength"`
}

// Update handles PATCH /v1/me/profile
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	var req updateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	p, err := h.service.Update(r.Context(), userID, UpdateCommand(req))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrAlreadyExists):
			httpx.JSONErrorWithRequest(r, w, http.StatusConflict, httpx.CodeConflict, "Email already registered", nil)
		case errors.Is(err, ErrCurrentPasswordRequired), errors.Is(err, ErrWrongPassword):
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
				[]httpx.ErrorDetail{{Field: "current_password", Message: err.Error()}})
		case errors.Is(err, user.ErrNotFound):
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, "User not found", nil)
		default:
			httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessWithRequest(r, w, p, nil)
}
