package repository

import (
	"context"

	"anoa.com/creatordashboard/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedContentRepository interface {
	// Upsert creates the bookmark or updates folder/tags/notes in place when
	// the user already saved this content.
	Upsert(ctx context.Context, saved *model.SavedContent) error
	Delete(ctx context.Context, userID, contentID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, folder string, limit, offset int) ([]model.SavedContent, int64, error)
	// SavedSet returns which of the given content IDs the user has saved.
	SavedSet(ctx context.Context, userID uuid.UUID, contentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type savedContentRepository struct {
	db *gorm.DB
}

func NewSavedContentRepository(db *gorm.DB) SavedContentRepository {
	return &savedContentRepository{db: db}
}

func (r *savedContentRepository) Upsert(ctx context.Context, saved *model.SavedContent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"folder": saved.Folder,
			"tags":   saved.Tags,
			"notes":  saved.Notes,
		}),
	}).Create(saved).Error
}

func (r *savedContentRepository) Delete(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&model.SavedContent{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *savedContentRepository) ListByUser(ctx context.Context, userID uuid.UUID, folder string, limit, offset int) ([]model.SavedContent, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.SavedContent{}).Where("user_id = ?", userID)
	if folder != "" {
		query = query.Where("folder = ?", folder)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saved []model.SavedContent
	err := query.Preload("Content").
		Order("saved_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&saved).Error
	if err != nil {
		return nil, 0, err
	}

	return saved, total, nil
}

func (r *savedContentRepository) SavedSet(ctx context.Context, userID uuid.UUID, contentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(contentIDs))
	if len(contentIDs) == 0 {
		return set, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.SavedContent{}).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
