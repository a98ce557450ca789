// Command crmctl runs operator tasks against the CRM database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/database"
)

func main() {
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// opener connects to the database; tests swap it for an in-memory one.
type opener func() (*gorm.DB, error)

func openFromEnv() (*gorm.DB, error) {
	return database.Open(config.Load())
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Operator tasks for the CRM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(open))
	root.AddCommand(newGrantRoleCmd(open))
	root.AddCommand(newPurgeLogsCmd(open))
	return root
}
