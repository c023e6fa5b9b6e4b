// internal/repository/contact_repo.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)
	List(ctx context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error)
	MarkReplied(ctx context.Context, id uuid.UUID, reply string, by uuid.UUID, at time.Time) error
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *contactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *contactRepo) List(ctx context.Context, params utils.PaginationParams) ([]models.ContactMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []models.ContactMessage
	err := query.Order("created_at desc").Scopes(params.Window()).Find(&msgs).Error
	return msgs, total, err
}

func (r *contactRepo) MarkReplied(ctx context.Context, id uuid.UUID, reply string, by uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reply_message": reply,
		"replied_by":    by,
		"replied_at":    at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
