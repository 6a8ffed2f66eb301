package discogs

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL   = "https://api.discogs.com"
	DefaultUserAgent = "VinylVault/1.0 +https://github.com/vinylvault/app"
	// WebBaseURL prefixes relative resource uris returned in search hits.
	WebBaseURL = "https://www.discogs.com"

	MaxPerPage     = 100
	DefaultPerPage = 50
)

// Search kinds accepted by the database search endpoint.
const (
	KindRelease = "release"
	KindMaster  = "master"
	KindArtist  = "artist"
	KindLabel   = "label"
)

// SearchQuery describes a database search. Empty strings and a nil Year are
// left out of the query string.
type SearchQuery struct {
	Text    string
	Kind    string
	Genre   string
	Style   string
	Year    *int
	Format  string
	Country string
	Barcode string
	Page    int
	PerPage int
}

// NewSearchQuery returns a first-page release query for text.
func NewSearchQuery(text string) SearchQuery {
	return SearchQuery{Text: text, Kind: KindRelease, Page: 1, PerPage: DefaultPerPage}
}

// Validate rejects out-of-range paging and unknown kinds. Nothing is clamped.
func (q SearchQuery) Validate() error {
	const op = "search"
	if q.Page < 1 {
		return invalidArgument(op, "page must be >= 1, got %d", q.Page)
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		return invalidArgument(op, "per_page must be within 1..%d, got %d", MaxPerPage, q.PerPage)
	}
	switch strings.TrimSpace(q.Kind) {
	case "", KindRelease, KindMaster, KindArtist, KindLabel:
	default:
		return invalidArgument(op, "unknown search type %q", q.Kind)
	}
	if q.Year != nil && *q.Year <= 0 {
		return invalidArgument(op, "year must be positive, got %d", *q.Year)
	}
	if strings.TrimSpace(q.Text) == "" && strings.TrimSpace(q.Barcode) == "" {
		return invalidArgument(op, "query text or barcode is required")
	}
	return nil
}

// Request is a fully built upstream call.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// RequestBuilder turns queries and ids into upstream requests. It is safe for
// concurrent use.
type RequestBuilder struct {
	baseURL   *url.URL
	userAgent string
	auth      string
}

// NewRequestBuilder parses the base URL once and captures the credentials.
func NewRequestBuilder(baseURL, userAgent string, creds Credentials) (*RequestBuilder, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("discogs: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("discogs: base url %q must be absolute", base)
	}
	// JoinPath on an empty path yields relative paths.
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	ua := strings.TrimSpace(userAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &RequestBuilder{baseURL: parsed, userAgent: ua, auth: creds.Header()}, nil
}

// Search builds GET /database/search. type is always sent and defaults to
// "release".
func (b *RequestBuilder) Search(q SearchQuery) (Request, error) {
	if err := q.Validate(); err != nil {
		return Request{}, err
	}
	params := url.Values{}
	setIf(params, "q", q.Text)
	kind := strings.TrimSpace(q.Kind)
	if kind == "" {
		kind = KindRelease
	}
	params.Set("type", kind)
	setIf(params, "genre", q.Genre)
	setIf(params, "style", q.Style)
	if q.Year != nil {
		params.Set("year", strconv.Itoa(*q.Year))
	}
	setIf(params, "format", q.Format)
	setIf(params, "country", q.Country)
	setIf(params, "barcode", q.Barcode)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PerPage))

	endpoint := b.baseURL.JoinPath("database", "search")
	endpoint.RawQuery = params.Encode()
	return b.newRequest(endpoint), nil
}

// Barcode builds a release search keyed only by barcode.
func (b *RequestBuilder) Barcode(code string) (Request, error) {
	cleaned := CleanBarcode(code)
	if cleaned == "" {
		return Request{}, invalidArgument("barcode", "barcode is required")
	}
	return b.Search(SearchQuery{Kind: KindRelease, Barcode: cleaned, Page: 1, PerPage: DefaultPerPage})
}

// Release builds GET /releases/{id}.
func (b *RequestBuilder) Release(id int64) (Request, error) {
	if id <= 0 {
		return Request{}, invalidArgument("release", "id must be a positive integer, got %d", id)
	}
	return b.newRequest(b.baseURL.JoinPath("releases", strconv.FormatInt(id, 10))), nil
}

// Master builds GET /masters/{id}.
func (b *RequestBuilder) Master(id int64) (Request, error) {
	if id <= 0 {
		return Request{}, invalidArgument("master", "id must be a positive integer, got %d", id)
	}
	return b.newRequest(b.baseURL.JoinPath("masters", strconv.FormatInt(id, 10))), nil
}

func (b *RequestBuilder) newRequest(u *url.URL) Request {
	h := http.Header{}
	h.Set("User-Agent", b.userAgent)
	h.Set("Accept", "application/json")
	if b.auth != "" {
		h.Set("Authorization", b.auth)
	}
	return Request{Method: http.MethodGet, URL: u, Header: h}
}

// ParseID converts a catalog id taken from user input.
func ParseID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &Error{Kind: KindInvalidArgument, Op: "parse id", Message: fmt.Sprintf("%q is not an integer", s)}
	}
	if id <= 0 {
		return 0, invalidArgument("parse id", "id must be a positive integer, got %d", id)
	}
	return id, nil
}

// CleanBarcode strips whitespace and dashes. Leading zeros are kept since
// UPC and EAN codes are matched literally upstream.
func CleanBarcode(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, code)
}

func setIf(v url.Values, key, value string) {
	if s := strings.TrimSpace(value); s != "" {
		v.Set(key, s)
	}
}
