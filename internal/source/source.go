package source

import (
	"context"

	"anoa.com/creatordashboard/internal/model"
)

type FetchOptions struct {
	// Limit caps the number of items fetched per target.
	Limit int
}

// Adapter fetches platform-native content for one target (a user handle or a
// subreddit) and maps it to the canonical model.Content shape. Adapter errors
// are per-target: the ingest pipeline logs them and moves on.
type Adapter interface {
	ID() string
	FetchTarget(ctx context.Context, target string, opts FetchOptions) ([]model.Content, error)
}
