package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/services"
)

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated", len(database.SharedModels())+len(database.EntityModels()), "tables")
			return nil
		},
	}
}

// grant-role is how the first super admin gets promoted when
// SUPER_ADMIN_EMAILS was not set at registration time.
func newGrantRoleCmd(open opener) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "grant-role",
		Short: "Set the role of the profile with the given email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			profile, err := services.NewProfileService(db).SetRoleByEmail(cmd.Context(), email, role)
			if err != nil {
				return fmt.Errorf("grant-role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profile.Email, profile.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "profile email")
	cmd.Flags().StringVar(&role, "role", models.RoleSuperAdmin, "one of user, admin, super_admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newPurgeLogsCmd(open opener) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge-logs",
		Short: "Delete persisted system logs older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("purge-logs: --days must be positive")
			}
			db, err := open()
			if err != nil {
				return err
			}
			n, err := logging.PurgeBefore(db, time.Now().AddDate(0, 0, -days))
			if err != nil {
				return fmt.Errorf("purge-logs: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", n, "log rows")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "retention in days")
	return cmd
}
