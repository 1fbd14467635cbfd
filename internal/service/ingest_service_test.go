package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/internal/source"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter serves canned content per target and fails the targets listed
// in failing.
type fakeAdapter struct {
	id      string
	items   map[string][]model.Content
	failing map[string]bool
	calls   int
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) FetchTarget(ctx context.Context, target string, opts source.FetchOptions) ([]model.Content, error) {
	f.calls++
	if f.failing[target] {
		return nil, errors.New("upstream unavailable")
	}
	return f.items[target], nil
}

// fakeContentStore implements the upsert contract: new (source, source_id)
// pairs insert, known pairs update engagement only.
type fakeContentStore struct {
	mu      sync.Mutex
	byKey   map[string]*model.Content
	upserts int
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{byKey: make(map[string]*model.Content)}
}

func (f *fakeContentStore) key(c *model.Content) string {
	return c.Source + "|" + c.SourceID
}

func (f *fakeContentStore) Upsert(ctx context.Context, content *model.Content) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++

	if existing, ok := f.byKey[f.key(content)]; ok {
		existing.Engagement = content.Engagement
		existing.CacheExpiration = content.CacheExpiration
		content.ID = existing.ID
		return false, nil
	}

	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	stored := *content
	f.byKey[f.key(content)] = &stored
	return true, nil
}

func (f *fakeContentStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byKey {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeContentStore) List(ctx context.Context, q repository.ContentQuery) ([]model.Content, int64, error) {
	return nil, 0, nil
}

func (f *fakeContentStore) Search(ctx context.Context, term string, q repository.ContentQuery) ([]model.Content, int64, error) {
	return nil, 0, nil
}

func (f *fakeContentStore) SetInappropriate(ctx context.Context, id uuid.UUID, flag bool) error {
	return nil
}

func (f *fakeContentStore) get(sourceID, itemID string) *model.Content {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byKey[sourceID+"|"+itemID]
}

func testContent(src, id, title string) model.Content {
	return model.Content{
		Source:           src,
		SourceID:         id,
		Title:            title,
		ContentType:      model.ContentTypePost,
		ContentCreatedAt: time.Now(),
	}
}

func newIngestForTest(adapters []source.Adapter, store *fakeContentStore, targets map[string][]string) IngestService {
	return NewIngestService(adapters, store, nil, nil, IngestConfig{
		Targets:    targets,
		FetchLimit: 10,
		CacheTTL:   time.Hour,
	})
}

func TestRefreshSourceCollectsStats(t *testing.T) {
	adapter := &fakeAdapter{
		id: model.SourceReddit,
		items: map[string][]model.Content{
			"golang": {
				testContent(model.SourceReddit, "p1", "Post one"),
				testContent(model.SourceReddit, "p2", "Post two"),
			},
			"programming": {
				testContent(model.SourceReddit, "p3", "Post three"),
			},
		},
	}
	store := newFakeContentStore()
	svc := newIngestForTest([]source.Adapter{adapter}, store, map[string][]string{
		model.SourceReddit: {"golang", "programming"},
	})

	stats, err := svc.RefreshSource(context.Background(), model.SourceReddit)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 3, stats.Saved)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 0, stats.Errors)

	// Refreshing again dedupes on (source, source_id)
	stats, err = svc.RefreshSource(context.Background(), model.SourceReddit)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 0, stats.Saved)
	assert.Equal(t, 3, stats.Updated)
}

func TestRefreshSourceContinuesPastFailingTarget(t *testing.T) {
	adapter := &fakeAdapter{
		id: model.SourceReddit,
		items: map[string][]model.Content{
			"golang": {testContent(model.SourceReddit, "p1", "Post one")},
		},
		failing: map[string]bool{"down": true},
	}
	store := newFakeContentStore()
	svc := newIngestForTest([]source.Adapter{adapter}, store, map[string][]string{
		model.SourceReddit: {"down", "golang"},
	})

	stats, err := svc.RefreshSource(context.Background(), model.SourceReddit)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 1, stats.Errors)
}

func TestRefreshSourceFailsWhenAllTargetsFail(t *testing.T) {
	adapter := &fakeAdapter{
		id:      model.SourceReddit,
		failing: map[string]bool{"a": true, "b": true},
	}
	svc := newIngestForTest([]source.Adapter{adapter}, newFakeContentStore(), map[string][]string{
		model.SourceReddit: {"a", "b"},
	})

	_, err := svc.RefreshSource(context.Background(), model.SourceReddit)
	assert.Error(t, err)
}

func TestRefreshSourceUnknownSource(t *testing.T) {
	svc := newIngestForTest(nil, newFakeContentStore(), nil)

	_, err := svc.RefreshSource(context.Background(), "myspace")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRefreshSanitizesAndStampsExpiry(t *testing.T) {
	item := testContent(model.SourceReddit, "p1", "<b>Hello</b> world")
	item.Text = "check this out<script>alert(1)</script>"

	adapter := &fakeAdapter{
		id:    model.SourceReddit,
		items: map[string][]model.Content{"golang": {item}},
	}
	store := newFakeContentStore()
	svc := newIngestForTest([]source.Adapter{adapter}, store, map[string][]string{
		model.SourceReddit: {"golang"},
	})

	before := time.Now()
	_, err := svc.RefreshSource(context.Background(), model.SourceReddit)
	require.NoError(t, err)

	stored := store.get(model.SourceReddit, "p1")
	require.NotNil(t, stored)
	assert.Equal(t, "Hello world", stored.Title)
	assert.Equal(t, "check this out", stored.Text)
	assert.True(t, stored.CacheExpiration.After(before.Add(59*time.Minute)))
}

func TestRefreshAllSkipsNothingWithoutRedis(t *testing.T) {
	redditAdapter := &fakeAdapter{
		id:    model.SourceReddit,
		items: map[string][]model.Content{"golang": {testContent(model.SourceReddit, "p1", "Post")}},
	}
	twitterAdapter := &fakeAdapter{
		id:    model.SourceTwitter,
		items: map[string][]model.Content{"gopher": {testContent(model.SourceTwitter, "t1", "Tweet")}},
	}
	svc := newIngestForTest([]source.Adapter{redditAdapter, twitterAdapter}, newFakeContentStore(), map[string][]string{
		model.SourceReddit:  {"golang"},
		model.SourceTwitter: {"gopher"},
	})

	stats, err := svc.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	bySource := map[string]dto.RefreshStats{}
	for _, s := range stats {
		bySource[s.Source] = s
	}
	assert.Equal(t, 1, bySource[model.SourceReddit].Saved)
	assert.Equal(t, 1, bySource[model.SourceTwitter].Saved)
}
