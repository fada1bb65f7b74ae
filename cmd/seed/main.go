// ABOUTME: Seed utility that loads the sample CRM data into a SQLite database
// ABOUTME: Provides dry-run and backup capabilities; non-empty collections are left alone

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/config"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/mockdata"
	"github.com/harperreed/dealdesk/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	dbPath := flag.String("db", cfg.DBPath, "Path to database file")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before seeding an existing database")
	flag.Parse()

	logger := cfg.Logger()
	if err := seed(context.Background(), logger, *dbPath, *dryRun, *backup); err != nil {
		logger.Fatal("Seeding failed", "err", err)
	}
}

func seed(ctx context.Context, logger *log.Logger, dbPath string, dryRun, createBackup bool) error {
	if dryRun {
		for _, entity := range schema.All() {
			records, err := mockdata.Records(entity)
			if err != nil {
				return err
			}
			logger.Info("[DRY RUN] would seed", "collection", entity.Name, "records", len(records), "db", dbPath)
		}
		return nil
	}

	if _, err := os.Stat(dbPath); err == nil && createBackup {
		backupPath := fmt.Sprintf("%s.backup.%s", dbPath, time.Now().Format("20060102-150405"))
		logger.Info("Creating backup", "path", backupPath)

		input, err := os.ReadFile(dbPath)
		if err != nil {
			return fmt.Errorf("failed to read database: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	database, err := db.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	loaded, err := mockdata.Load(ctx, func(entity schema.Entity) db.Store {
		return db.Guard(db.NewSQLiteStore(database, entity), logger)
	})
	if err != nil {
		return err
	}

	if len(loaded) == 0 {
		logger.Info("Every collection already has data, nothing seeded")
		return nil
	}

	names := make([]string, 0, len(loaded))
	for name := range loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Info("Seeded", "collection", name, "records", loaded[name])
	}
	return nil
}
