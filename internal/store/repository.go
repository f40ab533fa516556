package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_retail/internal/apperr"
)

// ErrMalformedRecord is returned when a stored document does not decode into its schema.
var ErrMalformedRecord = errors.New("malformed record")

// Record is implemented by entities that carry their store key.
type Record interface {
	SetID(id string)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks v against its `validate` struct tags and reports the first
// failure as an apperr.ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		check := fe.Tag()
		if fe.Param() != "" {
			check += "=" + fe.Param()
		}
		return apperr.Validation(fe.Field(), fmt.Sprintf("failed %q check", check))
	}
	return apperr.Validation("", err.Error())
}

// Repository is a typed view over one collection. It is the serialization
// boundary: reads reject documents that do not match T and writes reject
// values that fail validation.
type Repository[T any] struct {
	store      Store
	collection string
	logger     *zap.Logger
}

// NewRepository binds T to collection on s.
func NewRepository[T any](s Store, collection string, logger *zap.Logger) *Repository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository[T]{store: s, collection: collection, logger: logger}
}

// Collection returns the bound collection name.
func (r *Repository[T]) Collection() string { return r.collection }

// List returns every record in key order. Malformed documents are logged and skipped.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	docs, err := r.store.Get(ctx, r.collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := r.decode(doc)
		if err != nil {
			r.logger.Warn("skipping malformed record",
				zap.String("collection", r.collection),
				zap.String("key", doc.Key),
				zap.Error(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Get returns one record.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.store.Lookup(ctx, r.collection, id)
	if err != nil {
		return zero, err
	}
	return r.decode(doc)
}

// Create validates v and pushes it under a generated key.
func (r *Repository[T]) Create(ctx context.Context, v T) (T, error) {
	data, err := r.encode(v)
	if err != nil {
		return v, err
	}
	key, err := r.store.Push(ctx, r.collection, data)
	if err != nil {
		return v, err
	}
	setID(&v, key)
	return v, nil
}

// Put validates v and stores it under id, replacing any previous record.
func (r *Repository[T]) Put(ctx context.Context, id string, v T) (T, error) {
	data, err := r.encode(v)
	if err != nil {
		return v, err
	}
	if err := r.store.Set(ctx, r.collection, id, data); err != nil {
		return v, err
	}
	setID(&v, id)
	return v, nil
}

// Modify atomically loads the record, applies fn and stores the validated result.
// An error from fn aborts the write and is returned unchanged.
func (r *Repository[T]) Modify(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var result T
	err := r.store.Mutate(ctx, r.collection, id, func(current json.RawMessage) (json.RawMessage, error) {
		v, err := r.decode(Document{Key: id, Data: current})
		if err != nil {
			return nil, err
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		data, err := r.encode(v)
		if err != nil {
			return nil, err
		}
		setID(&v, id)
		result = v
		return data, nil
	})
	return result, err
}

// Patch applies a partial record and stores it only if the merged record is valid.
func (r *Repository[T]) Patch(ctx context.Context, id string, partial map[string]any) (T, error) {
	fields := make(map[string]any, len(partial))
	for name, value := range partial {
		if name != "id" {
			fields[name] = value
		}
	}
	var result T
	err := r.store.Mutate(ctx, r.collection, id, func(current json.RawMessage) (json.RawMessage, error) {
		merged, err := mergePatch(current, fields)
		if err != nil {
			return nil, apperr.Validation("", err.Error())
		}
		v, err := r.decodeStrict(Document{Key: id, Data: merged})
		if err != nil {
			return nil, apperr.Validation("", err.Error())
		}
		if err := Validate(v); err != nil {
			return nil, err
		}
		result = v
		return merged, nil
	})
	return result, err
}

// Delete removes the record.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, r.collection, id)
}

func (r *Repository[T]) decode(doc Document) (T, error) {
	v, err := r.decodeStrict(doc)
	if err != nil {
		return v, fmt.Errorf("%w: %s/%s: %v", ErrMalformedRecord, r.collection, doc.Key, err)
	}
	if err := Validate(v); err != nil {
		return v, fmt.Errorf("%w: %s/%s: %v", ErrMalformedRecord, r.collection, doc.Key, err)
	}
	return v, nil
}

func (r *Repository[T]) decodeStrict(doc Document) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(doc.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	setID(&v, doc.Key)
	return v, nil
}

func (r *Repository[T]) encode(v T) (json.RawMessage, error) {
	if err := Validate(v); err != nil {
		return nil, err
	}
	setID(&v, "")
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Validation("", err.Error())
	}
	return data, nil
}

func setID[T any](v *T, id string) {
	if rec, ok := any(v).(Record); ok {
		rec.SetID(id)
	}
}
