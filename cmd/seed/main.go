package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/events"
	"devcamper/internal/logging"
	"devcamper/internal/model"
	"devcamper/internal/repository"
	"devcamper/internal/service"
	"devcamper/internal/validation"
)

func main() {
	importFlag := flag.Bool("i", false, "import bootcamps from -file")
	deleteFlag := flag.Bool("d", false, "delete all bootcamps")
	file := flag.String("file", "_data/bootcamps.json", "JSON array of bootcamps to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", true).Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.LogLevel, true)

	if *importFlag == *deleteFlag {
		logger.Fatal().Msg("pass exactly one of -i or -d")
	}

	ctx := context.Background()
	stores, closeStores, err := repository.Open(ctx, logger, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}
	defer closeStores()

	cacheClient := cache.New(logger, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	publisher, err := events.Open(logger, cfg.EventsDriver, cfg.NATSURL, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Warn().Err(err).Msg("event publisher unavailable, events disabled")
		publisher = events.Noop{}
	}
	notifier := events.NewNotifier(logger, publisher)
	defer notifier.Close()

	seeder := service.NewSeedService(stores.Bootcamps, validation.New(), cacheClient, notifier)

	if *deleteFlag {
		n, err := seeder.DeleteBootcamps(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("delete bootcamps")
		}
		logger.Info().Int64("deleted", n).Msg("data destroyed")
		return
	}

	if err := importFile(ctx, logger, seeder, *file); err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("import bootcamps")
	}
}

func importFile(ctx context.Context, logger *zerolog.Logger, seeder service.SeedService, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var bootcamps []model.Bootcamp
	if err := json.Unmarshal(raw, &bootcamps); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	n, err := seeder.ImportBootcamps(ctx, bootcamps)
	if err != nil {
		return err
	}
	logger.Info().Int("imported", n).Msg("data imported")
	return nil
}
