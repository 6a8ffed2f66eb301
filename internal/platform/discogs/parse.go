package discogs

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Decode parses and validates body as the given shape. It is the only place
// upstream JSON is interpreted; everything downstream works on the returned
// typed values.
func Decode(shape Shape, body []byte) (Payload, error) {
	op := "decode " + string(shape)
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, parseError(op, errors.New("empty body"))
	}
	switch shape {
	case ShapeSearch:
		var w wireSearch
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, parseError(op, err)
		}
		return w.validate(op)
	case ShapeRelease:
		var w wireRelease
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, parseError(op, err)
		}
		return w.validate(op)
	case ShapeMaster:
		var w wireMaster
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, parseError(op, err)
		}
		return w.validate(op)
	}
	return nil, parseError(op, fmt.Errorf("unknown shape %q", shape))
}

func decodeAs[T Payload](shape Shape, body []byte) (T, error) {
	var zero T
	p, err := Decode(shape, body)
	if err != nil {
		return zero, err
	}
	v, ok := p.(T)
	if !ok {
		return zero, parseError("decode "+string(shape), fmt.Errorf("unexpected payload %T", p))
	}
	return v, nil
}

// flexInt accepts a JSON number, a numeric string or an empty string. Search
// hits carry year as a string while releases carry it as a number.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", b)
	}
	*f = flexInt(n)
	return nil
}

// flexString accepts a JSON string or number (format qty comes as either).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(b, &out); err != nil {
			return err
		}
		*f = flexString(out)
		return nil
	}
	*f = flexString(s)
	return nil
}

type wireSearch struct {
	Pagination Pagination      `json:"pagination"`
	Results    []wireSearchHit `json:"results"`
}

type wireSearchHit struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Year       flexInt   `json:"year"`
	Format     []string  `json:"format"`
	Label      []string  `json:"label"`
	CatNo      string    `json:"catno"`
	Barcode    []string  `json:"barcode"`
	URI        string    `json:"uri"`
	Thumb      string    `json:"thumb"`
	CoverImage string    `json:"cover_image"`
	Genre      []string  `json:"genre"`
	Style      []string  `json:"style"`
	Country    string    `json:"country"`
	MasterID   int64     `json:"master_id"`
	Community  Community `json:"community"`
}

func (w wireSearch) validate(op string) (SearchPage, error) {
	page := SearchPage{Pagination: w.Pagination, Results: make([]RawSearchHit, 0, len(w.Results))}
	for i, r := range w.Results {
		if r.ID <= 0 {
			return SearchPage{}, parseError(op, fmt.Errorf("result %d: missing id", i))
		}
		page.Results = append(page.Results, RawSearchHit{
			ID:         r.ID,
			Type:       strings.TrimSpace(r.Type),
			Title:      strings.TrimSpace(r.Title),
			Year:       int(r.Year),
			Formats:    compact(r.Format),
			Labels:     compact(r.Label),
			CatNo:      strings.TrimSpace(r.CatNo),
			Barcodes:   compact(r.Barcode),
			URI:        strings.TrimSpace(r.URI),
			Thumb:      strings.TrimSpace(r.Thumb),
			CoverImage: strings.TrimSpace(r.CoverImage),
			Genres:     compact(r.Genre),
			Styles:     compact(r.Style),
			Country:    strings.TrimSpace(r.Country),
			MasterID:   r.MasterID,
			Community:  r.Community,
		})
	}
	return page, nil
}

type wireTrack struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Type     string `json:"type_"`
}

type wireFormat struct {
	Name         string     `json:"name"`
	Qty          flexString `json:"qty"`
	Descriptions []string   `json:"descriptions"`
}

type wireRelease struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Artists     []Artist     `json:"artists"`
	Year        flexInt      `json:"year"`
	Genres      []string     `json:"genres"`
	Styles      []string     `json:"styles"`
	Tracklist   []wireTrack  `json:"tracklist"`
	Images      []Image      `json:"images"`
	Formats     []wireFormat `json:"formats"`
	Labels      []Label      `json:"labels"`
	Country     string       `json:"country"`
	URI         string       `json:"uri"`
	DataQuality string       `json:"data_quality"`
	Community   Community    `json:"community"`
	Identifiers []Identifier `json:"identifiers"`
	MasterID    int64        `json:"master_id"`
	Released    string       `json:"released"`
	Notes       string       `json:"notes"`
}

func (w wireRelease) validate(op string) (RawRelease, error) {
	if w.ID <= 0 {
		return RawRelease{}, parseError(op, errors.New("missing id"))
	}
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return RawRelease{}, parseError(op, fmt.Errorf("release %d: missing title", w.ID))
	}
	formats := make([]Format, 0, len(w.Formats))
	for _, f := range w.Formats {
		formats = append(formats, Format{
			Name:         strings.TrimSpace(f.Name),
			Qty:          string(f.Qty),
			Descriptions: compact(f.Descriptions),
		})
	}
	return RawRelease{
		ID:          w.ID,
		Title:       title,
		Artists:     cleanArtists(w.Artists),
		Year:        int(w.Year),
		Genres:      compact(w.Genres),
		Styles:      compact(w.Styles),
		Tracklist:   tracks(w.Tracklist),
		Images:      cleanImages(w.Images),
		Formats:     formats,
		Labels:      w.Labels,
		Country:     strings.TrimSpace(w.Country),
		URI:         strings.TrimSpace(w.URI),
		DataQuality: w.DataQuality,
		Community:   w.Community,
		Identifiers: w.Identifiers,
		MasterID:    w.MasterID,
		Released:    w.Released,
		Notes:       w.Notes,
	}, nil
}

type wireMaster struct {
	ID                int64       `json:"id"`
	MainRelease       int64       `json:"main_release"`
	MostRecentRelease int64       `json:"most_recent_release"`
	Title             string      `json:"title"`
	Artists           []Artist    `json:"artists"`
	Year              flexInt     `json:"year"`
	Genres            []string    `json:"genres"`
	Styles            []string    `json:"styles"`
	Tracklist         []wireTrack `json:"tracklist"`
	Images            []Image     `json:"images"`
	URI               string      `json:"uri"`
	DataQuality       string      `json:"data_quality"`
}

func (w wireMaster) validate(op string) (RawMaster, error) {
	if w.ID <= 0 {
		return RawMaster{}, parseError(op, errors.New("missing id"))
	}
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return RawMaster{}, parseError(op, fmt.Errorf("master %d: missing title", w.ID))
	}
	return RawMaster{
		ID:                w.ID,
		MainRelease:       w.MainRelease,
		MostRecentRelease: w.MostRecentRelease,
		Title:             title,
		Artists:           cleanArtists(w.Artists),
		Year:              int(w.Year),
		Genres:            compact(w.Genres),
		Styles:            compact(w.Styles),
		Tracklist:         tracks(w.Tracklist),
		Images:            cleanImages(w.Images),
		URI:               strings.TrimSpace(w.URI),
		DataQuality:       w.DataQuality,
	}, nil
}

// tracks drops heading and index rows, keeping playable tracks only.
func tracks(in []wireTrack) []Track {
	if len(in) == 0 {
		return nil
	}
	out := make([]Track, 0, len(in))
	for _, t := range in {
		if t.Type != "" && t.Type != "track" {
			continue
		}
		out = append(out, Track{
			Position: strings.TrimSpace(t.Position),
			Title:    strings.TrimSpace(t.Title),
			Duration: strings.TrimSpace(t.Duration),
		})
	}
	return out
}

func cleanArtists(in []Artist) []Artist {
	out := make([]Artist, 0, len(in))
	for _, a := range in {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		out = append(out, Artist{Name: name, ANV: strings.TrimSpace(a.ANV), Role: strings.TrimSpace(a.Role)})
	}
	return out
}

func cleanImages(in []Image) []Image {
	out := make([]Image, 0, len(in))
	for _, img := range in {
		if strings.TrimSpace(img.URI) == "" && strings.TrimSpace(img.URI150) == "" {
			continue
		}
		out = append(out, img)
	}
	return out
}

func compact(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
