package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/events"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/repository"
)

const bootcampCacheTTL = 5 * time.Minute

// BootcampService handles bootcamp operations.
type BootcampService interface {
	List(ctx context.Context, spec query.Spec) ([]model.Bootcamp, error)
	Get(ctx context.Context, id string) (*model.Bootcamp, error)
	Create(ctx context.Context, actor *model.User, bootcamp *model.Bootcamp) (*model.Bootcamp, error)
	Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.Bootcamp, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type bootcampService struct {
	repo      repository.Store[model.Bootcamp]
	validator StructValidator
	cache     *cache.Client
	notifier  *events.Notifier
}

// NewBootcampService creates a new bootcamp service.
func NewBootcampService(repo repository.Store[model.Bootcamp], validator StructValidator, cache *cache.Client, notifier *events.Notifier) BootcampService {
	return &bootcampService{
		repo:      repo,
		validator: validator,
		cache:     cache,
		notifier:  notifier,
	}
}

func bootcampCacheKey(id string) string {
	return fmt.Sprintf("bootcamp:%s", id)
}

func (s *bootcampService) List(ctx context.Context, spec query.Spec) ([]model.Bootcamp, error) {
	bootcamps, err := s.repo.Find(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("list bootcamps: %w", err)
	}
	return bootcamps, nil
}

// Get retrieves a bootcamp by ID with caching.
func (s *bootcampService) Get(ctx context.Context, id string) (*model.Bootcamp, error) {
	var cached model.Bootcamp
	if s.cache.GetJSON(ctx, bootcampCacheKey(id), &cached) {
		return &cached, nil
	}

	bootcamp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("Bootcamp", id, err)
	}

	s.cache.SetJSON(ctx, bootcampCacheKey(id), bootcamp, bootcampCacheTTL)
	return bootcamp, nil
}

func (s *bootcampService) Create(ctx context.Context, actor *model.User, bootcamp *model.Bootcamp) (*model.Bootcamp, error) {
	bootcamp.ID = ""
	bootcamp.CreatedAt = time.Time{}
	bootcamp.Prepare(time.Now())
	if err := s.validator.Struct(bootcamp); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bootcamp); err != nil {
		return nil, fmt.Errorf("create bootcamp: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.BootcampCreated, bootcamp.ID, actor.ID, bootcamp))
	return bootcamp, nil
}

func (s *bootcampService) Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.Bootcamp, error) {
	bootcamp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("Bootcamp", id, err)
	}

	kept := bootcamp.Listing
	if err := merge(bootcamp, patch); err != nil {
		return nil, err
	}
	bootcamp.ID, bootcamp.CreatedAt = kept.ID, kept.CreatedAt
	bootcamp.Prepare(time.Now())
	if err := s.validator.Struct(bootcamp); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bootcamp); err != nil {
		return nil, fmt.Errorf("update bootcamp %s: %w", id, err)
	}
	s.cache.Delete(ctx, bootcampCacheKey(id))

	s.notifier.Notify(ctx, events.New(events.BootcampUpdated, bootcamp.ID, actor.ID, bootcamp))
	return bootcamp, nil
}

func (s *bootcampService) Delete(ctx context.Context, actor *model.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("Bootcamp", id, err)
	}
	s.cache.Delete(ctx, bootcampCacheKey(id))

	s.notifier.Notify(ctx, events.New(events.BootcampDeleted, id, actor.ID, nil))
	return nil
}
