package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/internal/source"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

// IngestService pulls fresh content from the registered platform adapters,
// sanitizes it and upserts it into the shared content store.
type IngestService interface {
	// RefreshSource runs one adapter across its configured targets. A single
	// failing target is logged and skipped; the refresh only errors when every
	// target fails or the source is rate limited.
	RefreshSource(ctx context.Context, sourceID string) (*dto.RefreshStats, error)
	// RefreshAll refreshes every registered source and collects per-source
	// stats. Rate-limited sources are skipped silently.
	RefreshAll(ctx context.Context) ([]dto.RefreshStats, error)
	Sources() []string
}

type IngestConfig struct {
	// Targets maps a source ID to the handles or communities to pull from.
	Targets      map[string][]string
	FetchLimit   int
	FetchTimeout time.Duration
	CacheTTL     time.Duration
	RateLimit    time.Duration
}

type ingestService struct {
	adapters      []source.Adapter
	contentRepo   repository.ContentRepository
	searchService SearchService
	redisClient   *redis.Client
	sanitizer     *bluemonday.Policy
	cfg           IngestConfig
}

func NewIngestService(
	adapters []source.Adapter,
	contentRepo repository.ContentRepository,
	searchService SearchService,
	redisClient *redis.Client,
	cfg IngestConfig,
) IngestService {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 25
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = time.Minute
	}

	return &ingestService{
		adapters:      adapters,
		contentRepo:   contentRepo,
		searchService: searchService,
		redisClient:   redisClient,
		sanitizer:     bluemonday.StrictPolicy(),
		cfg:           cfg,
	}
}

func (s *ingestService) Sources() []string {
	ids := make([]string, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		ids = append(ids, adapter.ID())
	}
	return ids
}

func (s *ingestService) adapterByID(sourceID string) source.Adapter {
	for _, adapter := range s.adapters {
		if adapter.ID() == sourceID {
			return adapter
		}
	}
	return nil
}

func (s *ingestService) RefreshSource(ctx context.Context, sourceID string) (*dto.RefreshStats, error) {
	adapter := s.adapterByID(sourceID)
	if adapter == nil {
		return nil, apperror.ErrNotFound
	}

	allowed, err := CheckAndSetSourceRateLimit(ctx, s.redisClient, sourceID, s.cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	return s.refresh(ctx, adapter)
}

func (s *ingestService) RefreshAll(ctx context.Context) ([]dto.RefreshStats, error) {
	var all []dto.RefreshStats
	for _, adapter := range s.adapters {
		allowed, err := CheckAndSetSourceRateLimit(ctx, s.redisClient, adapter.ID(), s.cfg.RateLimit)
		if err != nil {
			return all, err
		}
		if !allowed {
			continue
		}

		stats, err := s.refresh(ctx, adapter)
		if err != nil {
			log.Printf("Refresh of source %s failed: %v", adapter.ID(), err)
			continue
		}
		all = append(all, *stats)
	}
	return all, nil
}

func (s *ingestService) refresh(ctx context.Context, adapter source.Adapter) (*dto.RefreshStats, error) {
	stats := &dto.RefreshStats{Source: adapter.ID()}

	targets := s.cfg.Targets[adapter.ID()]
	if len(targets) == 0 {
		return stats, nil
	}

	failed := 0
	for _, target := range targets {
		items, err := s.fetchTarget(ctx, adapter, target)
		if err != nil {
			log.Printf("Failed to fetch %s target %q: %v", adapter.ID(), target, err)
			stats.Errors++
			failed++
			continue
		}
		stats.Fetched += len(items)

		for i := range items {
			if err := s.store(ctx, &items[i], stats); err != nil {
				log.Printf("Failed to store %s item %s: %v", adapter.ID(), items[i].SourceID, err)
				stats.Errors++
			}
		}
	}

	if failed == len(targets) {
		return stats, fmt.Errorf("all %d targets of source %s failed", len(targets), adapter.ID())
	}
	return stats, nil
}

func (s *ingestService) fetchTarget(ctx context.Context, adapter source.Adapter, target string) ([]model.Content, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	return adapter.FetchTarget(fetchCtx, target, source.FetchOptions{Limit: s.cfg.FetchLimit})
}

func (s *ingestService) store(ctx context.Context, content *model.Content, stats *dto.RefreshStats) error {
	content.Title = s.sanitizer.Sanitize(content.Title)
	content.Text = s.sanitizer.Sanitize(content.Text)
	content.CacheExpiration = time.Now().Add(s.cfg.CacheTTL)

	isNew, err := s.contentRepo.Upsert(ctx, content)
	if err != nil {
		return err
	}
	if isNew {
		stats.Saved++
	} else {
		stats.Updated++
	}

	// Search indexing is best-effort; the row of record is the database.
	if s.searchService != nil {
		if err := s.searchService.IndexContent(content); err != nil {
			log.Printf("Failed to index content %s: %v", content.ID, err)
		}
	}
	return nil
}
