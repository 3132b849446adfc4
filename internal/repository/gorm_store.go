package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormschema "gorm.io/gorm/schema"

	"devcamper/internal/query"
)

type gormStore[T any] struct {
	db      *gorm.DB
	schema  *schema
	columns map[string]string // JSON name -> column
}

// NewGormStore returns a Store backed by a SQL table through GORM.
func NewGormStore[T any](db *gorm.DB) (Store[T], error) {
	parsed, err := gormschema.Parse(new(T), &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	sch := schemaOf[T]()
	columns := make(map[string]string, len(sch.fields))
	for name, f := range sch.fields {
		if col := parsed.LookUpField(f.GoName); col != nil && col.DBName != "" {
			columns[name] = col.DBName
		}
	}
	return &gormStore[T]{db: db, schema: sch, columns: columns}, nil
}

func (s *gormStore[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	tx, none, err := s.where(s.db.WithContext(ctx).Model(new(T)), spec.Filters, false)
	if err != nil {
		return nil, err
	}
	if none {
		return []T{}, nil
	}

	for _, sf := range spec.Sort {
		if col, ok := s.column(sf.Field); ok {
			tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: sf.Desc})
		}
	}
	if len(spec.Projection) > 0 {
		cols := []string{s.columns[query.IDField]}
		for _, name := range spec.Projection {
			if col, ok := s.column(name); ok && name != query.IDField {
				cols = append(cols, col)
			}
		}
		tx = tx.Select(cols)
	}

	out := []T{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return out, nil
}

func (s *gormStore[T]) FindOne(ctx context.Context, conds ...query.Condition) (*T, error) {
	tx, none, err := s.where(s.db.WithContext(ctx), conds, true)
	if err != nil {
		return nil, err
	}
	if none {
		return nil, ErrNotFound
	}

	var record T
	if err := tx.Take(&record).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &record, nil
}

func (s *gormStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var record T
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &record, nil
}

func (s *gormStore[T]) Create(ctx context.Context, record *T) error {
	if _, err := prepare(record); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return translateGormError(err)
	}
	return nil
}

func (s *gormStore[T]) Save(ctx context.Context, record *T) error {
	id, err := prepare(record)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("lookup: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Model(record).Select("*").Updates(record).Error; err != nil {
			return translateGormError(err)
		}
		return nil
	})
}

func (s *gormStore[T]) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore[T]) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T))
	if res.Error != nil {
		return 0, fmt.Errorf("delete all: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// column returns the column of a field callers may sort or project on.
func (s *gormStore[T]) column(name string) (string, bool) {
	if _, ok := s.schema.lookup(name); !ok {
		return "", false
	}
	col, ok := s.columns[name]
	return col, ok
}

// where applies conds to tx. none is true when a condition can never match.
// internal permits hidden fields.
func (s *gormStore[T]) where(tx *gorm.DB, conds []query.Condition, internal bool) (*gorm.DB, bool, error) {
	for _, c := range conds {
		f, known := s.schema.resolve(c.Field, internal)
		col, hasCol := s.columns[c.Field]
		if !known || !hasCol {
			return tx, true, nil
		}
		values, err := f.castAll(c)
		if err != nil {
			return tx, false, err
		}
		if len(values) == 0 {
			return tx, true, nil
		}
		column := clause.Column{Name: col}

		if f.Slice {
			// slices are stored as JSON arrays; only membership tests make sense
			if c.Op != query.OpEq && c.Op != query.OpIn {
				return tx, true, nil
			}
			likes := make([]clause.Expression, 0, len(values))
			for _, v := range values {
				likes = append(likes, clause.Expr{
					SQL:  "? LIKE ? ESCAPE '" + likeEscape + "'",
					Vars: []any{column, "%" + escapeLike(jsonLiteral(v)) + "%"},
				})
			}
			tx = tx.Where(clause.Or(likes...))
			continue
		}

		switch c.Op {
		case query.OpGt:
			tx = tx.Where(clause.Gt{Column: column, Value: values[0]})
		case query.OpGte:
			tx = tx.Where(clause.Gte{Column: column, Value: values[0]})
		case query.OpLt:
			tx = tx.Where(clause.Lt{Column: column, Value: values[0]})
		case query.OpLte:
			tx = tx.Where(clause.Lte{Column: column, Value: values[0]})
		case query.OpIn:
			tx = tx.Where(clause.IN{Column: column, Values: values})
		default:
			tx = tx.Where(clause.Eq{Column: column, Value: values[0]})
		}
	}
	return tx, false, nil
}

// likeEscape is not special in any supported dialect's string literals.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// jsonLiteral renders v the way the JSON serializer stores it inside an array.
func jsonLiteral(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return fmt.Errorf("gorm: %w", err)
	}
}
