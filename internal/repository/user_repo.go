package repository

import (
	"context"
	"errors"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserListFilter struct {
	Role   string
	Status string
	Search string
	Page   int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User, profile *model.Profile) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	Update(ctx context.Context, user *model.User, profile *model.Profile) error
	List(ctx context.Context, filter UserListFilter) ([]model.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if profile != nil {
			profile.UserID = user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var user model.User
	err = r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user != nil {
			if err := tx.Save(user).Error; err != nil {
				return err
			}
		}
		if profile != nil {
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) List(ctx context.Context, filter UserListFilter) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	if filter.Status != "" {
		query = query.Where("account_status = ?", filter.Status)
	}
	if filter.Role != "" {
		query = query.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ?", filter.Role)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var users []model.User
	err := query.Preload("Role").Preload("Profile").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}
