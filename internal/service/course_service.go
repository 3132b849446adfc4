package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/events"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/repository"
)

// CourseService handles course operations. Only the owner or an admin may
// change a course, and a non-admin owns at most one course.
type CourseService interface {
	List(ctx context.Context, spec query.Spec) ([]model.Course, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	Create(ctx context.Context, actor *model.User, course *model.Course) (*model.Course, error)
	Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.Course, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type courseService struct {
	repo      repository.Store[model.Course]
	validator StructValidator
	notifier  *events.Notifier
	// per owner locks serializing the single course check with the insert
	owners sync.Map
}

// NewCourseService creates a new course service.
func NewCourseService(repo repository.Store[model.Course], validator StructValidator, notifier *events.Notifier) CourseService {
	return &courseService{repo: repo, validator: validator, notifier: notifier}
}

func (s *courseService) List(ctx context.Context, spec query.Spec) ([]model.Course, error) {
	courses, err := s.repo.Find(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("Course", id, err)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, actor *model.User, course *model.Course) (*model.Course, error) {
	if !actor.IsAdmin() {
		defer s.lockOwner(actor.ID)()
		_, err := s.repo.FindOne(ctx, query.Eq("user", actor.ID))
		switch {
		case err == nil:
			return nil, apperrors.Validation("The user with ID %s has a role of %q and can only publish a single course", actor.ID, actor.Role)
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("find published course: %w", err)
		}
	}

	course.ID = ""
	course.CreatedAt = time.Time{}
	course.User = actor.ID
	course.Prepare(time.Now())
	if err := s.validator.Struct(course); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.CourseCreated, course.ID, actor.ID, course))
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("Course", id, err)
	}
	if !course.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("User %s is not authorized to update this course", actor.ID)
	}

	kept := *course
	if err := merge(course, patch); err != nil {
		return nil, err
	}
	course.ID, course.CreatedAt, course.User = kept.ID, kept.CreatedAt, kept.User
	course.Prepare(time.Now())
	if err := s.validator.Struct(course); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("update course %s: %w", id, err)
	}

	s.notifier.Notify(ctx, events.New(events.CourseUpdated, course.ID, actor.ID, course))
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, actor *model.User, id string) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError("Course", id, err)
	}
	if !course.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return apperrors.Forbidden("User %s is not authorized to delete this course", actor.ID)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("Course", id, err)
	}

	s.notifier.Notify(ctx, events.New(events.CourseDeleted, id, actor.ID, nil))
	return nil
}

// lockOwner holds the publishing lock of userID until the returned func is called.
func (s *courseService) lockOwner(userID string) func() {
	v, _ := s.owners.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
