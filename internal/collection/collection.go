// Package collection owns user collections and the vinyl items stored in them.
package collection

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"vinylvault/internal/vinyl"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("already exists")
	ErrInvalidPrice = errors.New("purchase price must not be negative")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Collection struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	VinylCount  int       `json:"vinyl_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item is one vinyl stored in a collection.
type Item struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id"`
	UserID       string `json:"user_id"`
	vinyl.Record
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	AddedAt       time.Time        `json:"added_at"`
}

// ItemExtras are the user-only fields persisted next to a record.
type ItemExtras struct {
	PurchasePrice *decimal.Decimal
	Notes         string
}

type CreateCommand struct {
	Name        string
	Description string
	IsPublic    bool
}

// UpdateCommand carries a partial update; nil fields are left unchanged.
type UpdateCommand struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// AddVinylCommand is a user-entered record plus the optional catalog id used
// to enrich it.
type AddVinylCommand struct {
	Record    vinyl.Record
	CatalogID string
	Extras    ItemExtras
}

// AddVinylResult reports the stored item and whether catalog data was merged.
type AddVinylResult struct {
	Item     Item   `json:"vinyl"`
	Enriched bool   `json:"enriched"`
	Warning  string `json:"warning,omitempty"`
}

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Collection, error)
	GetByID(ctx context.Context, id string) (Collection, error)
	Create(ctx context.Context, c *Collection) error
	Update(ctx context.Context, c *Collection) error
	// Delete removes the collection and its items, returning the item count.
	Delete(ctx context.Context, id string) (int, error)
	ListItems(ctx context.Context, collectionID string, limit, offset int) ([]Item, int, error)
	// TimelineItems returns every item ordered by year descending, then title.
	TimelineItems(ctx context.Context, collectionID string) ([]Item, error)
	AddItem(ctx context.Context, collectionID, userID string, rec vinyl.Record, extras ItemExtras) (string, error)
	GetItem(ctx context.Context, id string) (Item, error)
	RemoveItem(ctx context.Context, id string) error
}
