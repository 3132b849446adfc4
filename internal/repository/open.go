package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"devcamper/internal/config"
	"devcamper/internal/db"
)

const disconnectTimeout = 10 * time.Second

// Open connects the backend selected by cfg.DBDriver. The returned func releases it.
func Open(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) (*Stores, func(), error) {
	if cfg.DBDriver == config.DriverMongo {
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		stores, err := NewMongoStores(ctx, logger, client.Database(cfg.MongoDatabase))
		if err != nil {
			disconnect(logger, client)
			return nil, nil, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongo")
		return stores, func() { disconnect(logger, client) }, nil
	}

	gormDB, err := db.NewSQL(cfg.DBDriver, cfg.SQLDSN)
	if err != nil {
		return nil, nil, err
	}
	stores, err := NewGormStores(gormDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("connected to sql database")
	return stores, func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func disconnect(logger *zerolog.Logger, client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn().Err(err).Msg("mongo disconnect")
	}
}
