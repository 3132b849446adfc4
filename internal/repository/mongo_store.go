package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devcamper/internal/query"
)

type mongoStore[T any] struct {
	coll   *mongo.Collection
	schema *schema
}

// NewMongoStore returns a Store backed by a MongoDB collection and ensures its indexes.
func NewMongoStore[T any](ctx context.Context, logger *zerolog.Logger, db *mongo.Database, collection string, indexes ...mongo.IndexModel) (Store[T], error) {
	coll := db.Collection(collection)
	if len(indexes) > 0 {
		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return nil, fmt.Errorf("create %s indexes: %w", collection, err)
		}
		logger.Debug().Str("collection", collection).Int("indexes", len(indexes)).Msg("mongo indexes ensured")
	}
	return &mongoStore[T]{coll: coll, schema: schemaOf[T]()}, nil
}

func (s *mongoStore[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	filter, none, err := mongoFilter(s.schema, spec.Filters, false)
	if err != nil {
		return nil, err
	}
	if none {
		return []T{}, nil
	}

	opts := options.Find().SetSort(mongoSort(s.schema, spec.Sort))
	if proj := mongoProjection(s.schema, spec.Projection); proj != nil {
		opts.SetProjection(proj)
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s *mongoStore[T]) FindOne(ctx context.Context, conds ...query.Condition) (*T, error) {
	filter, none, err := mongoFilter(s.schema, conds, true)
	if err != nil {
		return nil, err
	}
	if none {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, filter)
}

func (s *mongoStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var record T
	if err := s.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one %s: %w", s.coll.Name(), err)
	}
	return &record, nil
}

func (s *mongoStore[T]) Create(ctx context.Context, record *T) error {
	if _, err := prepare(record); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *mongoStore[T]) Save(ctx context.Context, record *T) error {
	id, err := prepare(record)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("replace %s: %w", s.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore[T]) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore[T]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete all %s: %w", s.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

var mongoOperators = map[query.Operator]string{
	query.OpEq:  "$eq",
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
}

// mongoFilter builds a filter document. none is true when a condition names a
// field the entity does not expose, in which case nothing can match. internal
// permits hidden fields.
func mongoFilter(sch *schema, conds []query.Condition, internal bool) (filter bson.M, none bool, err error) {
	filter = bson.M{}
	for _, c := range conds {
		head, rest, nested := strings.Cut(c.Field, ".")
		f, ok := sch.resolve(head, internal)
		if !ok {
			return nil, true, nil
		}

		path := f.BSON
		var values []any
		if nested {
			path += "." + rest
			for _, v := range c.Values {
				values = append(values, v)
			}
		} else if values, err = f.castAll(c); err != nil {
			return nil, false, err
		}

		ops, _ := filter[path].(bson.M)
		if ops == nil {
			ops = bson.M{}
			filter[path] = ops
		}
		if c.Op == query.OpIn {
			ops[mongoOperators[c.Op]] = bson.A(values)
		} else if len(values) > 0 {
			ops[mongoOperators[c.Op]] = values[0]
		}
	}
	return filter, false, nil
}

func mongoSort(sch *schema, fields []query.SortField) bson.D {
	sort := bson.D{}
	for _, sf := range fields {
		f, ok := sch.lookup(sf.Field)
		if !ok {
			continue
		}
		dir := 1
		if sf.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.BSON, Value: dir})
	}
	return sort
}

func mongoProjection(sch *schema, fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	proj := bson.D{}
	for _, name := range fields {
		if f, ok := sch.lookup(name); ok {
			proj = append(proj, bson.E{Key: f.BSON, Value: 1})
		}
	}
	if len(proj) == 0 {
		// only unknown fields selected: keep the id
		proj = append(proj, bson.E{Key: "_id", Value: 1})
	}
	return proj
}
