// Package docstore is the document database the domain persists into.
// Documents are schemaless JSON objects keyed by (collection, id); schema is
// enforced by the typed Collection wrapper, not by the store.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"tradehub-be/internal/apperr"
)

type Document struct {
	ID        string
	Data      json.RawMessage
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WriteResult reports the version after a write. Conflict is set when the
// caller's expected version no longer matched: the write still applied.
type WriteResult struct {
	Version   int64
	UpdatedAt time.Time
	Conflict  bool
}

type FilterOp string

const (
	OpEq FilterOp = "eq"
	OpIn FilterOp = "in"
)

type Filter struct {
	Field  string
	Op     FilterOp
	Value  any
	Values []string
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

func In(field string, values ...string) Filter {
	return Filter{Field: field, Op: OpIn, Values: values}
}

type Sort struct {
	Field   string
	Desc    bool
	Numeric bool
}

type Query struct {
	Filters []Filter
	Sort    []Sort
	Limit   int
	Offset  int
}

// Cursor is a lazy sequence of query results.
type Cursor interface {
	Next() bool
	Document() Document
	Err() error
	Close() error
}

type Store interface {
	Create(ctx context.Context, collection, id string, data json.RawMessage) (Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) (Cursor, error)
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
	// Update merges patch (a JSON object) into the stored document.
	Update(ctx context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (WriteResult, error)
	Delete(ctx context.Context, collection, id string) error
}

var (
	ErrNotFound      = apperr.NotFound("document")
	ErrAlreadyExists = apperr.Validation("id", "document already exists")
)

const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func checkField(field string) error {
	if !fieldPattern.MatchString(field) {
		return apperr.Validation("field", "invalid document field %q", field)
	}
	return nil
}

func checkQuery(q Query) error {
	for _, f := range q.Filters {
		if err := checkField(f.Field); err != nil {
			return err
		}
	}
	for _, s := range q.Sort {
		if err := checkField(s.Field); err != nil {
			return err
		}
	}
	return nil
}

// stringify renders a filter value the way Postgres' ->> operator renders
// the stored JSON scalar.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
