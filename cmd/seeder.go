package cmd

import (
	"fmt"

	"github.com/frahmantamala/grievance-management/internal/user"
	userPostgres "github.com/frahmantamala/grievance-management/internal/user/postgres"
	"github.com/frahmantamala/grievance-management/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	seedAdminName       = "Admin"
	seedAdminEmail      = "admin@petition.ai"
	seedAdminDepartment = "Administration"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the bootstrap administrator",
	Long:  `Create admin@petition.ai with the configured admin password unless an admin account already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Security.AdminPassword == "" {
			return fmt.Errorf("security.admin_password is required to seed the admin account")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		gormDB, err := initGorm(db.DB)
		if err != nil {
			return err
		}

		lg := logger.LoggerWrapper()
		svc := user.NewService(userPostgres.NewUserRepository(gormDB), cfg.Security.BCryptCost, lg)

		created, err := svc.EnsureAdmin(cmd.Context(), seedAdminName, seedAdminEmail, cfg.Security.AdminPassword, seedAdminDepartment)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			fmt.Println("Seeded admin user:", seedAdminEmail)
		} else {
			fmt.Println("admin user already exists; nothing to do")
		}
		return nil
	},
}
