package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"tradehub-be/internal/apperr"

	"github.com/google/uuid"
)

type memDoc struct {
	data      json.RawMessage
	version   int64
	createdAt time.Time
	updatedAt time.Time
	seq       int64
}

// Memory is an in-process Store for local runs and tests.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]*memDoc
	seq   int64
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		colls: make(map[string]map[string]*memDoc),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Create(_ context.Context, collection, id string, data json.RawMessage) (Document, error) {
	if !isObject(data) {
		return Document{}, apperr.Validation("data", "document must be a JSON object")
	}
	if id == "" {
		id = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.colls[collection]
	if !ok {
		coll = make(map[string]*memDoc)
		m.colls[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return Document{}, ErrAlreadyExists
	}

	m.seq++
	now := m.now()
	d := &memDoc{data: clone(data), version: 1, createdAt: now, updatedAt: now, seq: m.seq}
	coll[id] = d
	return d.document(id), nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.colls[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return d.document(id), nil
}

func (m *Memory) Query(_ context.Context, collection string, q Query) (Cursor, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}

	m.mu.RLock()
	type row struct {
		doc    Document
		fields map[string]any
		seq    int64
	}
	var rows []row
	for id, d := range m.colls[collection] {
		fields := decodeFields(d.data)
		fields[FieldID] = id
		if matches(fields, q.Filters) {
			rows = append(rows, row{doc: d.document(id), fields: fields, seq: d.seq})
		}
	}
	m.mu.RUnlock()

	// Ties fall back to insertion order, reversed when the last sort key is
	// descending.
	tieDesc := len(q.Sort) > 0 && q.Sort[len(q.Sort)-1].Desc
	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range q.Sort {
			c := compare(rows[i].doc, rows[j].doc, rows[i].fields, rows[j].fields, s)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		if len(q.Sort) == 0 {
			if c := rows[i].doc.CreatedAt.Compare(rows[j].doc.CreatedAt); c != 0 {
				return c < 0
			}
		}
		if tieDesc {
			return rows[i].seq > rows[j].seq
		}
		return rows[i].seq < rows[j].seq
	})

	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	docs := make([]Document, len(rows))
	for i, r := range rows {
		docs[i] = r.doc
	}
	return &sliceCursor{docs: docs, pos: -1}, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	cur, err := m.Query(ctx, collection, Query{Filters: filters})
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	var n int64
	for cur.Next() {
		n++
	}
	return n, cur.Err()
}

func (m *Memory) Update(_ context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (WriteResult, error) {
	var p map[string]json.RawMessage
	if err := json.Unmarshal(patch, &p); err != nil {
		return WriteResult{}, apperr.Validation("patch", "patch must be a JSON object")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.colls[collection][id]
	if !ok {
		return WriteResult{}, ErrNotFound
	}

	var current map[string]json.RawMessage
	if err := json.Unmarshal(d.data, &current); err != nil {
		return WriteResult{}, apperr.Infrastructure("docstore decode", err)
	}
	for k, v := range p {
		current[k] = clone(v)
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return WriteResult{}, apperr.Infrastructure("docstore encode", err)
	}

	d.data = merged
	d.version++
	d.updatedAt = m.now()

	return WriteResult{
		Version:   d.version,
		UpdatedAt: d.updatedAt,
		Conflict:  expectedVersion > 0 && d.version != expectedVersion+1,
	}, nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.colls[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.colls[collection], id)
	return nil
}

func (d *memDoc) document(id string) Document {
	return Document{
		ID:        id,
		Data:      clone(d.data),
		Version:   d.version,
		CreatedAt: d.createdAt,
		UpdatedAt: d.updatedAt,
	}
}

type sliceCursor struct {
	docs []Document
	pos  int
}

func (c *sliceCursor) Next() bool {
	if c.pos+1 >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Document() Document { return c.docs[c.pos] }
func (c *sliceCursor) Err() error         { return nil }
func (c *sliceCursor) Close() error       { return nil }

func clone(b json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}

func isObject(b json.RawMessage) bool {
	var m map[string]json.RawMessage
	return json.Unmarshal(b, &m) == nil && m != nil
}

func decodeFields(b json.RawMessage) map[string]any {
	fields := map[string]any{}
	_ = json.Unmarshal(b, &fields)
	return fields
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		switch {
		case f.Op == OpIn:
			if !ok || v == nil || !contains(f.Values, stringify(v)) {
				return false
			}
		case f.Value == nil:
			if ok && v != nil {
				return false
			}
		default:
			if !ok || v == nil || stringify(v) != stringify(f.Value) {
				return false
			}
		}
	}
	return true
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func compare(a, b Document, fa, fb map[string]any, s Sort) int {
	switch {
	case s.Field == FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case s.Field == FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case s.Numeric:
		x, _ := strconv.ParseFloat(scalar(fa[s.Field]), 64)
		y, _ := strconv.ParseFloat(scalar(fb[s.Field]), 64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	default:
		x, y := scalar(fa[s.Field]), scalar(fb[s.Field])
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return stringify(v)
}
