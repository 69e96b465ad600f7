package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the MeetSync API.

The schema is managed with GORM auto migration. The up subcommand
applies the full schema, and status shows which tables exist.

Available subcommands:
  up      - Apply the schema to the database
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema to the database",
	Long: `Apply the full schema to the configured database.

Auto migration creates missing tables, columns, and indexes. It never
drops existing columns, so it is safe to run repeatedly.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows schema status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	Long: `Display which managed tables exist in the configured database.

Tables that are missing will be created the next time migrate up or
serve runs.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateUpCmd.Flags().Bool("dry-run", false, "list managed models without touching the database")
}

func openDB() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		for _, model := range database.AllModels() {
			fmt.Printf("  would migrate %s\n", modelName(model))
		}
		return nil
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[ERROR] Failed to close database: %v", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Applied schema for %d models\n", len(database.AllModels()))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[ERROR] Failed to close database: %v", err)
		}
	}()

	fmt.Println("Database Schema Status")
	fmt.Println(repeatString("=", 50))

	migrator := db.DB.Migrator()
	missing := 0
	for _, model := range database.AllModels() {
		state := "ok"
		if !migrator.HasTable(model) {
			state = "missing"
			missing++
		}
		fmt.Printf("  %-20s %s\n", modelName(model), state)
	}

	if missing > 0 {
		fmt.Printf("\n%d table(s) missing, run 'meetsync-api migrate up'\n", missing)
	} else {
		fmt.Println("\nAll tables present")
	}
	return nil
}

// modelName strips the pointer and package prefix from a model type
func modelName(model any) string {
	name := fmt.Sprintf("%T", model)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// repeatString repeats a string n times
func repeatString(s string, n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}
