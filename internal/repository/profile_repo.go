// internal/repository/profile_repo.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ProfileFilter struct {
	Role   string
	Search string
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	ExistsByEmailOrUsername(ctx context.Context, email string, username *string) (bool, error)
	List(ctx context.Context, filter ProfileFilter, params utils.PaginationParams) ([]models.Profile, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepo) ExistsByEmailOrUsername(ctx context.Context, email string, username *string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if username != nil && *username != "" {
		query = query.Where("LOWER(email) = ? OR username = ?", strings.ToLower(email), *username)
	} else {
		query = query.Where("LOWER(email) = ?", strings.ToLower(email))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepo) List(ctx context.Context, filter ProfileFilter, params utils.PaginationParams) ([]models.Profile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})

	if filter.Role != "" {
		query = query.Where("? = ANY(roles)", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(username) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	query = query.Scopes(params.SortedBy("created_at", "name", "email"))
	if err := query.Scopes(params.Window()).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *profileRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
