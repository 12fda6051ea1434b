package cmd

import (
	"fmt"

	"github.com/frahmantamala/epic-crm/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "Run the SQL migrations under db/migrations (postgres)",
		Long: `Apply the goose migrations to a postgres database.
SQLite databases are created with init-db instead.`,
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	running = true
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != internal.DriverPostgres {
		return usageError(fmt.Sprintf("migrate needs the %s driver, use init-db for %s", internal.DriverPostgres, cfg.Database.Driver))
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(cmd.Context(), command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
