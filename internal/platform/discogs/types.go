package discogs

// Shape discriminates the upstream record shapes.
type Shape string

const (
	ShapeSearch  Shape = "search"
	ShapeRelease Shape = "release"
	ShapeMaster  Shape = "master"
)

// Payload is the closed set of validated upstream shapes: SearchPage,
// RawRelease and RawMaster.
type Payload interface {
	Shape() Shape
	sealed()
}

// Pagination mirrors the search response paging block.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

type Community struct {
	Want int `json:"want"`
	Have int `json:"have"`
}

// RawSearchHit is one database search result. Title is usually "Artist - Title".
type RawSearchHit struct {
	ID         int64
	Type       string
	Title      string
	Year       int
	Formats    []string
	Labels     []string
	CatNo      string
	Barcodes   []string
	URI        string
	Thumb      string
	CoverImage string
	Genres     []string
	Styles     []string
	Country    string
	MasterID   int64
	Community  Community
}

// SearchPage is a validated search response.
type SearchPage struct {
	Pagination Pagination
	Results    []RawSearchHit
}

func (SearchPage) Shape() Shape { return ShapeSearch }
func (SearchPage) sealed()      {}

type Artist struct {
	Name string `json:"name"`
	ANV  string `json:"anv,omitempty"`
	Role string `json:"role,omitempty"`
}

type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
}

type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Descriptions []string `json:"descriptions,omitempty"`
}

type Label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RawRelease is a single pressing. Barcodes live in Identifiers.
type RawRelease struct {
	ID          int64
	Title       string
	Artists     []Artist
	Year        int
	Genres      []string
	Styles      []string
	Tracklist   []Track
	Images      []Image
	Formats     []Format
	Labels      []Label
	Country     string
	URI         string
	DataQuality string
	Community   Community
	Identifiers []Identifier
	MasterID    int64
	Released    string
	Notes       string
}

func (RawRelease) Shape() Shape { return ShapeRelease }
func (RawRelease) sealed()      {}

// RawMaster groups the releases of one work.
type RawMaster struct {
	ID                int64
	MainRelease       int64
	MostRecentRelease int64
	Title             string
	Artists           []Artist
	Year              int
	Genres            []string
	Styles            []string
	Tracklist         []Track
	Images            []Image
	URI               string
	DataQuality       string
}

func (RawMaster) Shape() Shape { return ShapeMaster }
func (RawMaster) sealed()      {}
