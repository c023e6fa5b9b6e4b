// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Piyush5621/AnarchyBay/internal/models"
	"github.com/Piyush5621/AnarchyBay/internal/repository"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

type AdminService struct {
	profiles repository.ProfileRepository
	products repository.ProductRepository
	stats    repository.StatsRepository
	audit    repository.AuditRepository
}

type ReplaceRolesRequest struct {
	Roles []string `json:"roles" validate:"max=4,dive,role"`
}

type SetFlagRequest struct {
	Value *bool `json:"value"`
}

type SetVerifiedSellerRequest struct {
	Verified bool `json:"verified"`
}

type SetUserStatusRequest struct {
	IsActive     *bool `json:"is_active"`
	IsRestricted *bool `json:"is_restricted"`
}

func NewAdminService(
	profiles repository.ProfileRepository,
	products repository.ProductRepository,
	stats repository.StatsRepository,
	audit repository.AuditRepository,
) *AdminService {
	return &AdminService{
		profiles: profiles,
		products: products,
		stats:    stats,
		audit:    audit,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.stats.Dashboard(ctx)
}

// User management

func (s *AdminService) ListUsers(ctx context.Context, role, search string, params utils.PaginationParams) ([]models.Profile, int64, error) {
	if role != "" && !models.Role(role).Valid() {
		return nil, 0, invalid("unknown role " + role)
	}
	return s.profiles.List(ctx, repository.ProfileFilter{Role: role, Search: search}, params)
}

func (s *AdminService) user(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	return profile, nil
}

func (s *AdminService) saveRoles(ctx context.Context, admin Actor, profile *models.Profile, next models.RoleSet) (*models.Profile, error) {
	if admin.ID == profile.ID && profile.Roles.Has(models.RoleAdmin) && !next.Has(models.RoleAdmin) {
		return nil, invalid("admins cannot remove their own admin role")
	}

	old := profile.Roles
	if err := s.profiles.Update(ctx, profile.ID, map[string]interface{}{"roles": next}); err != nil {
		return nil, orNotFound(err, "user")
	}
	profile.Roles = next

	s.record(admin, "UPDATE_USER_ROLES", "profile", profile.ID, map[string]interface{}{
		"old": old.Strings(),
		"new": next.Strings(),
	})
	return profile, nil
}

func (s *AdminService) ReplaceRoles(ctx context.Context, admin Actor, userID uuid.UUID, req *ReplaceRolesRequest) (*models.Profile, error) {
	next, err := models.NewRoleSet(req.Roles...)
	if err != nil {
		return nil, invalid(err.Error())
	}
	profile, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.saveRoles(ctx, admin, profile, next)
}

// AddRole leaves the profile untouched when the role is already present.
func (s *AdminService) AddRole(ctx context.Context, admin Actor, userID uuid.UUID, role string) (*models.Profile, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, invalid(err.Error())
	}
	profile, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, changed, err := profile.Roles.Add(r)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if !changed {
		return profile, nil
	}
	return s.saveRoles(ctx, admin, profile, next)
}

func (s *AdminService) RemoveRole(ctx context.Context, admin Actor, userID uuid.UUID, role string) (*models.Profile, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, invalid(err.Error())
	}
	profile, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.Roles.Has(r) {
		return profile, nil
	}
	return s.saveRoles(ctx, admin, profile, profile.Roles.Remove(r))
}

func (s *AdminService) updateProfile(ctx context.Context, admin Actor, userID uuid.UUID, action string, fields map[string]interface{}) (*models.Profile, error) {
	if err := s.profiles.Update(ctx, userID, fields); err != nil {
		return nil, orNotFound(err, "user")
	}
	s.record(admin, action, "profile", userID, fields)
	return s.user(ctx, userID)
}

func (s *AdminService) SetVerifiedSeller(ctx context.Context, admin Actor, userID uuid.UUID, verified bool) (*models.Profile, error) {
	return s.updateProfile(ctx, admin, userID, "SET_VERIFIED_SELLER", map[string]interface{}{"is_verified_seller": verified})
}

// ToggleAdminBadge flips show_admin_badge unless an explicit value is given.
// Only admins can carry the badge.
func (s *AdminService) ToggleAdminBadge(ctx context.Context, admin Actor, userID uuid.UUID, value *bool) (*models.Profile, error) {
	profile, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	show := !profile.ShowAdminBadge
	if value != nil {
		show = *value
	}
	if show && !profile.Roles.Has(models.RoleAdmin) {
		return nil, invalid("only admins can show the admin badge")
	}
	return s.updateProfile(ctx, admin, userID, "SET_ADMIN_BADGE", map[string]interface{}{"show_admin_badge": show})
}

func (s *AdminService) SetStatus(ctx context.Context, admin Actor, userID uuid.UUID, req *SetUserStatusRequest) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if req.IsActive != nil {
		if admin.ID == userID && !*req.IsActive {
			return nil, invalid("admins cannot deactivate themselves")
		}
		fields["is_active"] = *req.IsActive
	}
	if req.IsRestricted != nil {
		fields["is_restricted"] = *req.IsRestricted
	}
	if len(fields) == 0 {
		return nil, invalid("is_active or is_restricted is required")
	}
	return s.updateProfile(ctx, admin, userID, "UPDATE_USER_STATUS", fields)
}

// Product moderation

func (s *AdminService) ListProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{
		IncludeInactive: true,
		Category:        params.Category,
		Search:          params.Search,
	}, params)
}

func (s *AdminService) updateProduct(ctx context.Context, admin Actor, productID uuid.UUID, action string, fields map[string]interface{}) (*models.Product, error) {
	if err := s.products.Update(ctx, productID, fields); err != nil {
		return nil, orNotFound(err, "product")
	}
	s.record(admin, action, "product", productID, fields)

	product, err := s.products.FindByID(ctx, productID)
	return product, orNotFound(err, "product")
}

func (s *AdminService) ToggleFeatured(ctx context.Context, admin Actor, productID uuid.UUID, value *bool) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, orNotFound(err, "product")
	}
	featured := !product.IsFeatured
	if value != nil {
		featured = *value
	}
	return s.updateProduct(ctx, admin, productID, "SET_PRODUCT_FEATURED", map[string]interface{}{"is_featured": featured})
}

func (s *AdminService) ActivateProduct(ctx context.Context, admin Actor, productID uuid.UUID) (*models.Product, error) {
	return s.updateProduct(ctx, admin, productID, "ACTIVATE_PRODUCT", map[string]interface{}{"is_active": true})
}

func (s *AdminService) DeactivateProduct(ctx context.Context, admin Actor, productID uuid.UUID) (*models.Product, error) {
	return s.updateProduct(ctx, admin, productID, "DEACTIVATE_PRODUCT", map[string]interface{}{"is_active": false, "is_featured": false})
}

func (s *AdminService) record(admin Actor, action, resourceType string, resourceID uuid.UUID, payload map[string]interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:       &admin.ID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   &resourceID,
		Payload:      datatypes.JSONMap(payload),
	}
	go func() {
		if err := s.audit.Create(context.Background(), entry); err != nil {
			logrus.WithError(err).WithField("action", action).Error(fmt.Sprintf("Failed to create audit log for %s", resourceType))
		}
	}()
}
