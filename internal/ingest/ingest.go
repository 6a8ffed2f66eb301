// Package ingest imports batches of catalog releases into a collection and
// records each batch as a run.
package ingest

import (
	"context"
	"errors"
	"time"

	"vinylvault/internal/collection"
)

const (
	MaxBatch       = 50
	DefaultWorkers = 3
	RecentRuns     = 20
)

var (
	ErrEmptyBatch    = errors.New("no release ids given")
	ErrBatchTooLarge = errors.New("too many release ids")
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Outcome statuses for a single release.
const (
	OutcomeAdded    = "added"
	OutcomeWarning  = "saved without catalog data"
	OutcomeExisting = "already present"
	OutcomeFailed   = "failed"
)

type Run struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CollectionID string     `json:"collection_id"`
	Status       string     `json:"status"`
	Requested    int        `json:"requested"`
	Added        int        `json:"added"`
	Warned       int        `json:"warned"`
	Skipped      int        `json:"skipped"`
	Failed       int        `json:"failed"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type Outcome struct {
	CatalogID int64  `json:"discogs_id"`
	VinylID   string `json:"vinyl_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Year      int    `json:"year,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Report is a finished run with its per-release outcomes, ordered by
// catalog id.
type Report struct {
	Run      Run       `json:"run"`
	Outcomes []Outcome `json:"results"`
}

type VinylAdder interface {
	Owned(ctx context.Context, userID, collectionID string) (collection.Collection, error)
	AddVinyl(ctx context.Context, userID, collectionID string, cmd collection.AddVinylCommand) (collection.AddVinylResult, error)
}

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, userID string, limit int) ([]Run, error)
}
