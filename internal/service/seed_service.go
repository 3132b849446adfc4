package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devcamper/internal/cache"
	"devcamper/internal/events"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/repository"
)

// SeedService bulk loads and purges bootcamps.
type SeedService interface {
	ImportBootcamps(ctx context.Context, bootcamps []model.Bootcamp) (int, error)
	DeleteBootcamps(ctx context.Context) (int64, error)
}

type seedService struct {
	repo      repository.Store[model.Bootcamp]
	validator StructValidator
	cache     *cache.Client
	notifier  *events.Notifier
}

// NewSeedService creates a new seed service.
func NewSeedService(repo repository.Store[model.Bootcamp], validator StructValidator, cache *cache.Client, notifier *events.Notifier) SeedService {
	return &seedService{repo: repo, validator: validator, cache: cache, notifier: notifier}
}

// ImportBootcamps validates every bootcamp first and then creates them in order.
// Ids that are not UUIDs are replaced. It stops at the first failed insert and
// reports how many were stored before it.
func (s *seedService) ImportBootcamps(ctx context.Context, bootcamps []model.Bootcamp) (int, error) {
	now := time.Now()
	for i := range bootcamps {
		b := &bootcamps[i]
		if _, err := uuid.Parse(b.ID); err != nil {
			b.ID = ""
		}
		b.Prepare(now)
		if err := s.validator.Struct(b); err != nil {
			return 0, fmt.Errorf("bootcamp %d (%s): %w", i, b.Name, err)
		}
	}

	count := 0
	for i := range bootcamps {
		if err := s.repo.Create(ctx, &bootcamps[i]); err != nil {
			return count, fmt.Errorf("import bootcamp %s: %w", bootcamps[i].Name, err)
		}
		count++
	}

	s.notifier.Notify(ctx, events.New(events.BootcampsSeeded, "", "", map[string]int{"count": count}))
	return count, nil
}

func (s *seedService) DeleteBootcamps(ctx context.Context) (int64, error) {
	existing, err := s.repo.Find(ctx, query.Spec{Projection: []string{query.IDField}})
	if err != nil {
		return 0, fmt.Errorf("list bootcamps: %w", err)
	}

	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete bootcamps: %w", err)
	}

	keys := make([]string, 0, len(existing))
	for _, b := range existing {
		keys = append(keys, bootcampCacheKey(b.ID))
	}
	s.cache.Delete(ctx, keys...)

	s.notifier.Notify(ctx, events.New(events.BootcampsPurged, "", "", map[string]int64{"count": n}))
	return n, nil
}
