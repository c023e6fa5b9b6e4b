// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// ProfileService serves self-service profile edits and public storefronts.
type ProfileService struct {
	profiles repository.ProfileRepository
	products repository.ProductRepository
}

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
}

// PublicProfile is what buyers see of a creator.
type PublicProfile struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Username         *string          `json:"username"`
	IsVerifiedSeller bool             `json:"is_verified_seller"`
	ShowAdminBadge   bool             `json:"show_admin_badge"`
	ProductCount     int64            `json:"product_count"`
	Products         []models.Product `json:"products"`
	JoinedAt         time.Time        `json:"joined_at"`
}

func NewProfileService(profiles repository.ProfileRepository, products repository.ProductRepository) *ProfileService {
	return &ProfileService{profiles: profiles, products: products}
}

// GetPublicProfile hides deactivated accounts.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) (*PublicProfile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	if !profile.IsActive {
		return nil, notFound("user")
	}

	products, total, err := s.products.List(ctx, repository.ProductFilter{CreatorID: &profile.ID}, params)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &PublicProfile{
		ID:               profile.ID,
		Name:             profile.Name,
		Username:         profile.Username,
		IsVerifiedSeller: profile.IsVerifiedSeller,
		ShowAdminBadge:   profile.ShowAdminBadge && profile.Roles.Has(models.RoleAdmin),
		ProductCount:     total,
		Products:         products,
		JoinedAt:         profile.CreatedAt,
	}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Username != nil {
		fields["username"] = strings.TrimSpace(*req.Username)
	}
	if len(fields) == 0 {
		return nil, invalid("nothing to update")
	}

	if err := s.profiles.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return nil, orNotFound(err, "user")
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	return profile, nil
}
