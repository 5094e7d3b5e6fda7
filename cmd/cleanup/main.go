// Command cleanup runs one deletion cycle to completion and exits. It is
// meant to be invoked on a fixed interval by cron or a systemd timer; the
// cadence lives entirely in that external configuration. Exit code is 0
// whenever the cycle completed, even if individual deletions failed, and
// non-zero only when the cycle itself could not run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tg-autodelete/internal/bot"
	"tg-autodelete/internal/cleaner"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("cleanup")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("Cleanup cycle failed: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Setup(cfg, "cleanup"); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	// The cleanup process owns its own short-lived connection; the bot
	// process keeps the long-lived one.
	db, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer storage.Close(db)

	repo := storage.NewDeletionRepository(db)
	if err := repo.MigrateTable(); err != nil {
		return fmt.Errorf("failed to migrate ScheduledDeletion table: %w", err)
	}

	client, err := bot.NewClient(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot client: %w", err)
	}

	executor := cleaner.NewExecutor(repo, bot.NewDeleter(client), bot.NewNotifier(client, cfg.Owner))
	recordsRetention := time.Duration(cfg.Retention.RecordsDays) * 24 * time.Hour
	cycle := cleaner.NewCycle(repo, executor, recordsRetention)

	summary, err := cycle.Run(context.Background())
	if err != nil {
		return err
	}

	log.Printf("Cleanup completed: %s", summary)
	return nil
}
