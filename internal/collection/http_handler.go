package collection

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"vinylvault/internal/httpx"
	"vinylvault/internal/vinyl"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func writeError(r *http.Request, w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, httpx.CodeNotFound, what+" not found", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONErrorWithRequest(r, w, http.StatusForbidden, httpx.CodeForbidden, "You do not own this "+strings.ToLower(what), nil)
	case errors.Is(err, ErrDuplicate):
		httpx.JSONErrorWithRequest(r, w, http.StatusConflict, httpx.CodeConflict, what+" already exists", nil)
	case errors.Is(err, ErrInvalidPrice):
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
			[]httpx.ErrorDetail{{Field: "purchase_price", Message: err.Error()}})
	default:
		httpx.JSONErrorWithRequest(r, w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return "", false
	}
	return userID, true
}

// List handles GET /v1/collections
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cols, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessWithRequest(r, w, cols, map[string]any{"total": len(cols)})
}

type createReq struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    bool   `json:"is_public"`
}

// Create handles POST /v1/collections
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	c, err := h.service.Create(r.Context(), userID, CreateCommand(req))
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessCreatedWithRequest(r, w, c)
}

type updateReq struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public"`
}

// Update handles PATCH /v1/collections/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
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
		if trimmed == "" {
			httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
				[]httpx.ErrorDetail{{Field: "name", Message: "name must not be empty"}})
			return
		}
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	c, err := h.service.Update(r.Context(), userID, r.PathValue("id"), UpdateCommand(req))
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessWithRequest(r, w, c, nil)
}

// Delete handles DELETE /v1/collections/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.service.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessWithRequest(r, w, map[string]any{"deleted_vinyls": n}, nil)
}

// ListVinyls handles GET /v1/collections/{id}/vinyls?page=&page_size=
func (h *HTTPHandler) ListVinyls(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	page, pageSize = normalizePage(page, pageSize)

	items, total, err := h.service.Items(r.Context(), userID, r.PathValue("id"), page, pageSize)
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessWithRequest(r, w, items, map[string]any{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// Timeline handles GET /v1/collections/{id}/timeline
func (h *HTTPHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tl, err := h.service.Timeline(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessWithRequest(r, w, tl, nil)
}

// catalogRef accepts a catalog id sent either as a JSON number or a string.
type catalogRef string

func (c *catalogRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = catalogRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = catalogRef(n.String())
	return nil
}

type addVinylReq struct {
	DiscogsID     catalogRef       `json:"discogs_id"`
	Title         string           `json:"title" validate:"required_without=DiscogsID,max=300"`
	Artist        string           `json:"artist" validate:"max=300"`
	Year          int              `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Format        string           `json:"format" validate:"max=50"`
	Condition     string           `json:"condition" validate:"omitempty,condition"`
	CoverImage    string           `json:"cover_image" validate:"max=2048"`
	Barcode       string           `json:"barcode" validate:"max=32"`
	Genres        []string         `json:"genres" validate:"max=20"`
	Notes         string           `json:"notes" validate:"max=2000"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// AddVinyl handles POST /v1/collections/{id}/vinyls
//
// With a discogs_id the record is enriched from the catalog; a catalog
// failure still stores the user's fields and returns a warning.
func (h *HTTPHandler) AddVinyl(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req addVinylReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return
	}
	req.DiscogsID = catalogRef(strings.TrimSpace(string(req.DiscogsID)))
	req.Title = strings.TrimSpace(req.Title)
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", details)
		return
	}

	res, err := h.service.AddVinyl(r.Context(), userID, r.PathValue("id"), AddVinylCommand{
		Record: vinyl.Record{
			Title:      req.Title,
			Artist:     req.Artist,
			Year:       req.Year,
			Format:     req.Format,
			Condition:  req.Condition,
			CoverImage: req.CoverImage,
			Barcode:    req.Barcode,
			Genres:     req.Genres,
		},
		CatalogID: string(req.DiscogsID),
		Extras:    ItemExtras{PurchasePrice: req.PurchasePrice, Notes: req.Notes},
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			httpx.JSONErrorWithRequest(r, w, http.StatusConflict, httpx.CodeConflict, "This release is already in the collection", nil)
			return
		}
		writeError(r, w, err, "Collection")
		return
	}
	httpx.JSONSuccessCreatedWithRequest(r, w, res)
}

// RemoveVinyl handles DELETE /v1/vinyls/{id}
func (h *HTTPHandler) RemoveVinyl(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveVinyl(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(r, w, err, "Vinyl")
		return
	}
	httpx.JSONSuccessNoContent(w)
}
