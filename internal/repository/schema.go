package repository

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"devcamper/internal/model"
	"devcamper/internal/query"
)

var timeType = reflect.TypeOf(time.Time{})

// field describes one queryable attribute of an entity, keyed by its JSON name.
type field struct {
	GoName string
	BSON   string
	Type   reflect.Type // element type for slices, pointee for pointers
	Slice  bool
	// Hidden fields are never serialized. Only internal lookups may filter on them.
	Hidden bool
}

// schema lists the fields the query layer may filter, sort and project on.
// Fields hidden from JSON are keyed by their bson name and marked Hidden.
type schema struct {
	fields map[string]field
}

func schemaOf[T any]() *schema {
	s := &schema{fields: map[string]field{}}
	s.walk(reflect.TypeOf((*T)(nil)).Elem())
	return s
}

func (s *schema) walk(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			s.walk(sf.Type)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		bsonName := tagName(sf.Tag.Get("bson"))
		if bsonName == "" {
			bsonName = strings.ToLower(sf.Name)
		}
		name, hidden := tagName(sf.Tag.Get("json")), false
		if name == "-" {
			name, hidden = bsonName, true
		}
		if name == "" {
			continue
		}

		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		f := field{GoName: sf.Name, BSON: bsonName, Type: ft, Hidden: hidden}
		if ft.Kind() == reflect.Slice {
			f.Slice = true
			f.Type = ft.Elem()
		}
		s.fields[name] = f
	}
}

// lookup resolves a field that callers outside the service may name.
func (s *schema) lookup(name string) (field, bool) {
	f, ok := s.fields[name]
	if f.Hidden {
		return field{}, false
	}
	return f, ok
}

// lookupInternal also resolves hidden fields.
func (s *schema) lookupInternal(name string) (field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

func (s *schema) resolve(name string, internal bool) (field, bool) {
	if internal {
		return s.lookupInternal(name)
	}
	return s.lookup(name)
}

// cast converts a raw query value to the field's Go type.
func (f field) cast(name, raw string) (any, error) {
	if f.Type == timeType {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, raw)
	}

	switch f.Type.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, raw)
		}
		return v, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, raw)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// castAll converts the values of a condition.
func (f field) castAll(c query.Condition) ([]any, error) {
	out := make([]any, 0, len(c.Values))
	for _, raw := range c.Values {
		v, err := f.cast(c.Field, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func prepare[T any](record *T) (string, error) {
	rec, ok := any(record).(model.Record)
	if !ok {
		return "", fmt.Errorf("%T does not implement model.Record", record)
	}
	rec.Prepare(time.Now())
	return rec.GetID(), nil
}
