package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"

	"devcamper/internal/model"
)

// Stores groups the persistence gateways of every entity.
type Stores struct {
	Bootcamps Store[model.Bootcamp]
	Courses   Store[model.Course]
	Users     Store[model.User]
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// NewMongoStores opens the collections and ensures their indexes.
func NewMongoStores(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) (*Stores, error) {
	bootcamps, err := NewMongoStore[model.Bootcamp](ctx, logger, db, "bootcamps",
		uniqueIndex("name"),
		mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	)
	if err != nil {
		return nil, err
	}

	courses, err := NewMongoStore[model.Course](ctx, logger, db, "courses",
		uniqueIndex("name"),
		mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}},
	)
	if err != nil {
		return nil, err
	}

	users, err := NewMongoStore[model.User](ctx, logger, db, "users",
		uniqueIndex("userName"),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "resetPasswordToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	)
	if err != nil {
		return nil, err
	}

	return &Stores{Bootcamps: bootcamps, Courses: courses, Users: users}, nil
}

// NewGormStores migrates the tables and returns SQL-backed stores.
func NewGormStores(db *gorm.DB) (*Stores, error) {
	if err := db.AutoMigrate(&model.Bootcamp{}, &model.Course{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	bootcamps, err := NewGormStore[model.Bootcamp](db)
	if err != nil {
		return nil, err
	}
	courses, err := NewGormStore[model.Course](db)
	if err != nil {
		return nil, err
	}
	users, err := NewGormStore[model.User](db)
	if err != nil {
		return nil, err
	}
	return &Stores{Bootcamps: bootcamps, Courses: courses, Users: users}, nil
}
