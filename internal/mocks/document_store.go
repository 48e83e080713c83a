package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// MemoryDocumentStore implements store.DocumentStore in memory.
// Stored values are normalized through JSON, so numbers read back as float64
// exactly as they do from the PostgreSQL store.
type MemoryDocumentStore struct {
	// Hooks run before the default behavior; a non-nil error is returned as is.
	GetFn    func(collection, id string) error
	QueryFn  func(q store.Query) error
	CreateFn func(collection, id string) error
	UpdateFn func(collection, id string) error

	mu   sync.Mutex
	data map[string]map[string]map[string]any
}

// NewMemoryDocumentStore creates an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{data: make(map[string]map[string]map[string]any)}
}

var _ store.DocumentStore = (*MemoryDocumentStore)(nil)

// Put stores a document for test setup. It panics if data cannot be encoded.
func (m *MemoryDocumentStore) Put(collection, id string, data map[string]any) {
	if err := m.Set(context.Background(), collection, id, data); err != nil {
		panic(err)
	}
}

// Count returns the number of documents in a collection.
func (m *MemoryDocumentStore) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[collection])
}

// Docs returns copies of every document in a collection, ordered by id.
func (m *MemoryDocumentStore) Docs(collection string) []*store.Document {
	docs, _ := m.Query(context.Background(), store.Query{Collection: collection})
	return docs
}

// Get implements store.DocumentStore.Get
func (m *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	if m.GetFn != nil {
		if err := m.GetFn(collection, id); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[collection][id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return &store.Document{ID: id, Data: clone(data)}, nil
}

// Query implements store.DocumentStore.Query
func (m *MemoryDocumentStore) Query(ctx context.Context, q store.Query) ([]*store.Document, error) {
	if m.QueryFn != nil {
		if err := m.QueryFn(q); err != nil {
			return nil, err
		}
	}
	if q.Collection == "" {
		return nil, fmt.Errorf("%w: collection is required", store.ErrInvalidQuery)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]*store.Document, 0)
	for id, data := range m.data[q.Collection] {
		ok, err := matches(data, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, &store.Document{ID: id, Data: clone(data)})
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			a, aok := lookup(docs[i].Data, q.OrderBy)
			b, bok := lookup(docs[j].Data, q.OrderBy)
			if aok != bok {
				return aok
			}
			as, bs := fmt.Sprint(a), fmt.Sprint(b)
			if as != bs {
				if q.Descending {
					return as > bs
				}
				return as < bs
			}
		}
		return docs[i].ID < docs[j].ID
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// Set implements store.DocumentStore.Set
func (m *MemoryDocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = normalized
	return nil
}

// Create implements store.DocumentStore.Create
func (m *MemoryDocumentStore) Create(ctx context.Context, collection, id string, data map[string]any) (bool, error) {
	if m.CreateFn != nil {
		if err := m.CreateFn(collection, id); err != nil {
			return false, err
		}
	}
	normalized, err := normalize(data)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collection(collection)
	if _, exists := docs[id]; exists {
		return false, nil
	}
	docs[id] = normalized
	return true, nil
}

// Update implements store.DocumentStore.Update
func (m *MemoryDocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if m.UpdateFn != nil {
		if err := m.UpdateFn(collection, id); err != nil {
			return err
		}
	}
	normalized, err := normalize(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.data[collection][id]
	if !ok {
		return store.ErrDocumentNotFound
	}
	for k, v := range normalized {
		existing[k] = v
	}
	return nil
}

func (m *MemoryDocumentStore) collection(name string) map[string]map[string]any {
	docs, ok := m.data[name]
	if !ok {
		docs = make(map[string]map[string]any)
		m.data[name] = docs
	}
	return docs
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func clone(data map[string]any) map[string]any {
	out, _ := normalize(data)
	return out
}

func lookup(data map[string]any, field string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func matches(data map[string]any, filters []store.Filter) (bool, error) {
	for _, f := range filters {
		operand, err := normalizeValue(f.Value)
		if err != nil {
			return false, err
		}
		value, present := lookup(data, f.Field)

		var ok bool
		switch f.Op {
		case store.OpEq:
			ok = present && reflect.DeepEqual(value, operand)
		case store.OpContains:
			ok = present && contains(value, operand)
		case store.OpLt, store.OpLte, store.OpGt, store.OpGte:
			cmp, comparable, err := compare(value, operand)
			if err != nil {
				return false, err
			}
			ok = present && comparable && satisfies(f.Op, cmp)
		default:
			return false, fmt.Errorf("%w: operator %q", store.ErrInvalidQuery, f.Op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// compare orders value against operand when both are strings (bytewise) or
// both are numbers.
func compare(value, operand any) (int, bool, error) {
	switch o := operand.(type) {
	case string:
		v, ok := value.(string)
		if !ok {
			return 0, false, nil
		}
		return strings.Compare(v, o), true, nil
	case float64:
		v, ok := value.(float64)
		if !ok {
			return 0, false, nil
		}
		switch {
		case v < o:
			return -1, true, nil
		case v > o:
			return 1, true, nil
		}
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("%w: cannot range-compare %T", store.ErrInvalidQuery, operand)
	}
}

func satisfies(op store.Operator, cmp int) bool {
	switch op {
	case store.OpLt:
		return cmp < 0
	case store.OpLte:
		return cmp <= 0
	case store.OpGt:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// contains mirrors jsonb @>.
func contains(container, contained any) bool {
	switch c := contained.(type) {
	case map[string]any:
		obj, ok := container.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range c {
			inner, ok := obj[k]
			if !ok || !contains(inner, v) {
				return false
			}
		}
		return true
	case []any:
		arr, ok := container.([]any)
		if !ok {
			return false
		}
		for _, want := range c {
			found := false
			for _, have := range arr {
				if contains(have, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		if arr, ok := container.([]any); ok {
			for _, have := range arr {
				if reflect.DeepEqual(have, contained) {
					return true
				}
			}
			return false
		}
		return reflect.DeepEqual(container, contained)
	}
}
