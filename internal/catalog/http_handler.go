package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vinylvault/internal/httpx"
	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Search handles GET /v1/catalog/search
//
// Query: q, type, genre, style, year, format, country, barcode, page,
// per_page, image_size (thumb|small|medium|large), vinyl_only.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := discogs.NewSearchQuery(qs.Get("q"))
	if t := qs.Get("type"); t != "" {
		q.Kind = t
	}
	q.Genre = qs.Get("genre")
	q.Style = qs.Get("style")
	q.Format = qs.Get("format")
	q.Country = qs.Get("country")
	q.Barcode = discogs.CleanBarcode(qs.Get("barcode"))

	var details []httpx.ErrorDetail
	intParam := func(name string, dst *int) {
		raw := strings.TrimSpace(qs.Get(name))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: name, Message: name + " must be an integer"})
			return
		}
		*dst = n
	}
	intParam("page", &q.Page)
	intParam("per_page", &q.PerPage)
	if qs.Get("year") != "" {
		year := 0
		intParam("year", &year)
		q.Year = &year
	}
	if len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid query parameters", details)
		return
	}

	vinylOnly, _ := strconv.ParseBool(qs.Get("vinyl_only"))
	page, err := h.service.Search(r.Context(), SearchParams{
		Query:     q,
		ImageSize: vinyl.ParseImageSize(qs.Get("image_size")),
		VinylOnly: vinylOnly,
	})
	if err != nil {
		httpx.CatalogError(r, w, err)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, page.Records, map[string]any{
		"page":     page.Pagination.Page,
		"pages":    page.Pagination.Pages,
		"per_page": page.Pagination.PerPage,
		"total":    page.Pagination.Items,
	})
}

// Suggestions handles GET /v1/catalog/suggestions?q=&limit=
func (h *HTTPHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := DefaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid query parameters",
				[]httpx.ErrorDetail{{Field: "limit", Message: "limit must be an integer"}})
			return
		}
		limit = n
	}

	records, err := h.service.Suggestions(r.Context(), text, limit)
	if err != nil {
		if errors.Is(err, ErrQueryTooShort) {
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Query too short",
				[]httpx.ErrorDetail{{Field: "q", Message: "q must be at least 2 characters"}})
			return
		}
		httpx.CatalogError(r, w, err)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, records, map[string]any{"query": text})
}

type barcodeReq struct {
	Barcode string `json:"barcode" validate:"required,max=32"`
}

// Barcode handles POST /v1/catalog/barcode
func (h *HTTPHandler) Barcode(w http.ResponseWriter, r *http.Request) {
	var req barcodeReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	req.Barcode = discogs.CleanBarcode(req.Barcode)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	rec, err := h.service.Barcode(r.Context(), req.Barcode)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, "No record found for this barcode", nil)
			return
		}
		httpx.CatalogError(r, w, err)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, rec, nil)
}

// GetRelease handles GET /v1/catalog/releases/{id}
func (h *HTTPHandler) GetRelease(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Release(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.CatalogError(r, w, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, rec, nil)
}

// GetMaster handles GET /v1/catalog/masters/{id}
func (h *HTTPHandler) GetMaster(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Master(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.CatalogError(r, w, err)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, rec, nil)
}
