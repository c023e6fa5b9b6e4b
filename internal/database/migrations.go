// internal/database/migrations.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Piyush5621/AnarchyBay/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Profile{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Purchase{},
		&models.ContactMessage{},
		&models.ProductReport{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

// Index failures are logged and skipped.
func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_profiles_roles ON profiles USING GIN(roles)",

		"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_active, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_categories ON products USING GIN(categories)",
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || coalesce(description, '')))",

		"CREATE INDEX IF NOT EXISTS idx_purchases_customer_product ON purchases(customer_id, product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_purchases_seller_status ON purchases(seller_id, status)",

		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_reports_pending ON product_reports(product_id, reporter_id) WHERE status = 'pending'",
		"CREATE INDEX IF NOT EXISTS idx_contact_messages_unreplied ON contact_messages(created_at DESC) WHERE replied_at IS NULL",

		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedAdmin creates an admin profile for email unless one already exists.
// An existing profile with that email is promoted instead.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	var profile models.Profile
	err := db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	switch {
	case err == nil:
		roles, changed, err := profile.Roles.Add(models.RoleAdmin)
		if err != nil || !changed {
			return err
		}
		logrus.WithField("email", email).Info("Promoting existing profile to admin")
		return db.WithContext(ctx).Model(&profile).Update("roles", roles).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return fmt.Errorf("failed to look up admin profile: %w", err)
	}

	admin := &models.Profile{
		Name:     "Administrator",
		Email:    email,
		Roles:    models.RoleSet{models.RoleCustomer, models.RoleAdmin},
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	logrus.WithField("email", email).Info("Admin profile created")
	return nil
}
