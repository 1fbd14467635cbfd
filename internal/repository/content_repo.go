package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentQuery carries feed/search filters down to SQL.
type ContentQuery struct {
	Sources    []string
	Categories []string
	SortBy     string // "recent", "popular", "relevance"
	Page       int
	Limit      int
	// IncludeInappropriate is only ever set by the moderation surface;
	// feed and search always leave it false.
	IncludeInappropriate bool
}

type ContentRepository interface {
	// Upsert inserts the record or, when (source, source_id) already exists,
	// overwrites engagement and cache expiration while preserving the
	// originally captured descriptive fields. Returns whether a new row was
	// created.
	Upsert(ctx context.Context, content *model.Content) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Content, error)
	List(ctx context.Context, q ContentQuery) ([]model.Content, int64, error)
	Search(ctx context.Context, query string, q ContentQuery) ([]model.Content, int64, error)
	SetInappropriate(ctx context.Context, id uuid.UUID, flag bool) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Upsert(ctx context.Context, content *model.Content) (bool, error) {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	insertID := content.ID

	// Single INSERT ... ON CONFLICT: concurrent first-time ingests of the same
	// (source, source_id) cannot race, the loser takes the update path. Refresh
	// is last-writer-wins on engagement and extends the expiry; descriptive
	// fields keep their first-captured values. RETURNING hands back the
	// canonical row id when the row already existed.
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "source"}, {Name: "source_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"likes":            content.Engagement.Likes,
					"comments":         content.Engagement.Comments,
					"shares":           content.Engagement.Shares,
					"total_engagement": content.Engagement.TotalEngagement,
					"cache_expiration": content.CacheExpiration,
					"updated_at":       time.Now(),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(content).Error
	if err != nil {
		return false, err
	}

	return content.ID == insertID, nil
}

func (r *contentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Content, error) {
	var content model.Content
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) applyQuery(ctx context.Context, q ContentQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Content{})

	if !q.IncludeInappropriate {
		query = query.Where("is_inappropriate = ?", false)
	}
	if len(q.Sources) > 0 {
		query = query.Where("source IN ?", q.Sources)
	}
	if len(q.Categories) > 0 {
		// Categories live in a jsonb array; match any requested tag against
		// the serialized form to keep the filter in SQL for pagination.
		conds := make([]string, 0, len(q.Categories))
		args := make([]interface{}, 0, len(q.Categories))
		for _, category := range q.Categories {
			conds = append(conds, "categories::text ILIKE ?")
			args = append(args, `%"`+category+`"%`)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	return query
}

func applySort(query *gorm.DB, sortBy string) *gorm.DB {
	switch sortBy {
	case "popular":
		return query.Order("total_engagement DESC, content_created_at DESC")
	case "relevance":
		// DB fallback relevance: engagement first, recency as tie-break
		return query.Order("total_engagement DESC, content_created_at DESC")
	default: // "recent"
		return query.Order("content_created_at DESC")
	}
}

func paginate(q ContentQuery) (limit, offset int) {
	limit = q.Limit
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func (r *contentRepository) List(ctx context.Context, q ContentQuery) ([]model.Content, int64, error) {
	query := r.applyQuery(ctx, q)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(q)

	var items []model.Content
	err := applySort(query, q.SortBy).Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *contentRepository) Search(ctx context.Context, term string, q ContentQuery) ([]model.Content, int64, error) {
	query := r.applyQuery(ctx, q)

	pattern := "%" + term + "%"
	query = query.Where(
		"title ILIKE ? OR text ILIKE ? OR source_username ILIKE ? OR source_name ILIKE ? OR categories::text ILIKE ?",
		pattern, pattern, pattern, pattern, pattern,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(q)

	var items []model.Content
	err := applySort(query, q.SortBy).Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *contentRepository) SetInappropriate(ctx context.Context, id uuid.UUID, flag bool) error {
	result := r.db.WithContext(ctx).Model(&model.Content{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_inappropriate": flag,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
