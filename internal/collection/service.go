package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vinylvault/internal/enrich"
	"vinylvault/internal/platform/discogs"
	"vinylvault/internal/vinyl"
)

// Enricher merges catalog metadata into a user record.
type Enricher interface {
	Enrich(ctx context.Context, user vinyl.Record, catalogID string) enrich.Result
}

type Service struct {
	repo     Repository
	enricher Enricher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, enricher Enricher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, enricher: enricher, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]Collection, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, cmd CreateCommand) (Collection, error) {
	c := Collection{
		UserID:      userID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		IsPublic:    cmd.IsPublic,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return Collection{}, fmt.Errorf("create collection: %w", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, cmd UpdateCommand) (Collection, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return Collection{}, err
	}
	if cmd.Name != nil {
		c.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		c.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.IsPublic != nil {
		c.IsPublic = *cmd.IsPublic
	}
	if err := s.repo.Update(ctx, &c); err != nil {
		return Collection{}, fmt.Errorf("update collection: %w", err)
	}
	return c, nil
}

// Delete removes an owned collection and reports how many vinyls went with it.
func (s *Service) Delete(ctx context.Context, userID, id string) (int, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return 0, err
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete collection: %w", err)
	}
	s.logger.InfoContext(ctx, "collection deleted", "collection_id", id, "deleted_vinyls", n)
	return n, nil
}

// Items pages through a collection. Public collections are readable by
// anyone, private ones by their owner only.
func (s *Service) Items(ctx context.Context, userID, collectionID string, page, pageSize int) ([]Item, int, error) {
	c, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, 0, err
	}
	if c.UserID != userID && !c.IsPublic {
		return nil, 0, ErrForbidden
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListItems(ctx, collectionID, pageSize, (page-1)*pageSize)
}

// AddVinyl enriches the record when a catalog id is given and stores it. A
// catalog failure never blocks the insert; it is surfaced as a warning.
func (s *Service) AddVinyl(ctx context.Context, userID, collectionID string, cmd AddVinylCommand) (AddVinylResult, error) {
	if p := cmd.Extras.PurchasePrice; p != nil && p.IsNegative() {
		return AddVinylResult{}, ErrInvalidPrice
	}
	if _, err := s.owned(ctx, userID, collectionID); err != nil {
		return AddVinylResult{}, err
	}

	user := cmd.Record
	if id, err := discogs.ParseID(cmd.CatalogID); err == nil {
		user.CatalogID = id
	}
	res := s.enricher.Enrich(ctx, user, cmd.CatalogID)

	itemID, err := s.repo.AddItem(ctx, collectionID, userID, res.Record, cmd.Extras)
	if err != nil {
		return AddVinylResult{}, fmt.Errorf("add vinyl: %w", err)
	}

	out := AddVinylResult{
		Item: Item{
			ID:            itemID,
			CollectionID:  collectionID,
			UserID:        userID,
			Record:        res.Record,
			PurchasePrice: cmd.Extras.PurchasePrice,
			Notes:         strings.TrimSpace(cmd.Extras.Notes),
			AddedAt:       s.now().UTC(),
		},
		Enriched: res.Enriched,
	}
	if res.Warning != nil {
		out.Warning = "catalog data unavailable, record saved as entered"
	}
	return out, nil
}

func (s *Service) RemoveVinyl(ctx context.Context, userID, itemID string) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrForbidden
	}
	return s.repo.RemoveItem(ctx, itemID)
}

// Owned returns the collection when userID owns it.
func (s *Service) Owned(ctx context.Context, userID, id string) (Collection, error) {
	return s.owned(ctx, userID, id)
}

func (s *Service) owned(ctx context.Context, userID, id string) (Collection, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Collection{}, err
	}
	if c.UserID != userID {
		return Collection{}, ErrForbidden
	}
	return c, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
