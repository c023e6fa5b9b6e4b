// cmd/server/migrate.go
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Piyush5621/AnarchyBay/internal/database"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and optionally seed an admin",
	Long: `Apply schema migrations to SUPABASE_DB_URL.

Examples:
  anarchybay migrate
  anarchybay migrate --seed-admin-email admin@example.com --seed-admin-password secret123`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&seedAdminEmail, "seed-admin-email", "", "create or promote an admin profile with this email")
	migrateCmd.Flags().StringVar(&seedAdminPassword, "seed-admin-password", "", "password for a newly created admin")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if seedAdminEmail != "" {
		if err := database.SeedAdmin(cmd.Context(), db, seedAdminEmail, seedAdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		logrus.WithField("email", seedAdminEmail).Info("Admin profile ready")
	}
	return nil
}
