package ingest

import (
	"errors"
	"net/http"
	"strconv"

	"vinylvault/internal/collection"
	"vinylvault/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type importReq struct {
	DiscogsIDs []int64 `json:"discogs_ids" validate:"required,min=1,dive,gt=0"`
}

// Import handles POST /v1/collections/{id}/import
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}
	var req importReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	rep, err := h.service.Import(r.Context(), userID, r.PathValue("id"), req.DiscogsIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrBatchTooLarge):
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
				[]httpx.ErrorDetail{{Field: "discogs_ids", Message: "between 1 and " + strconv.Itoa(MaxBatch) + " ids are accepted"}})
		case errors.Is(err, collection.ErrNotFound):
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, "Collection not found", nil)
		case errors.Is(err, collection.ErrForbidden):
			httpx.JSONErrorWithRequest(r, w, http.StatusForbidden, httpx.CodeForbidden, "You do not own this collection", nil)
		default:
			httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccessWithRequest(r, w, rep, nil)
}

// Runs handles GET /v1/me/imports
func (h *HTTPHandler) Runs(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}
	runs, err := h.service.Runs(r.Context(), userID)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, runs, map[string]any{"total": len(runs)})
}
