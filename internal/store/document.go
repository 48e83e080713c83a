package store

import (
	"context"
)

// Collection names used by the typed stores.
const (
	CollectionTasks         = "tasks"
	CollectionUsers         = "users"
	CollectionMemberships   = "memberships"
	CollectionNotifications = "notifications"
)

// Operator is a comparison applied by a query filter.
type Operator string

// Supported filter operators. Ordering comparisons on strings are bytewise,
// which is what makes ISO-8601 due dates range-queryable as text.
const (
	OpEq       Operator = "=="
	OpLt       Operator = "<"
	OpLte      Operator = "<="
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpContains Operator = "contains"
)

// Filter restricts a query to documents whose field satisfies Op against
// Value. Field is a dotted path into the document ("created_by.user_id").
// OpContains tests JSON containment: the field's value must contain Value.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Query selects documents from one collection. All filters must match.
// A zero Limit means no limit.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Where appends a filter and returns the query for chaining.
func (q Query) Where(field string, op Operator, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Document is a stored JSON object together with its id.
type Document struct {
	ID   string
	Data map[string]any
}

// DocumentStore is the generic persistence capability every typed store is
// built on.
type DocumentStore interface {
	// Get returns one document.
	// Returns ErrDocumentNotFound if it does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Query returns the documents matching q, ordered by q.OrderBy when set.
	// Returns ErrInvalidQuery for unsupported fields or operators.
	Query(ctx context.Context, q Query) ([]*Document, error)

	// Set writes data as the full content of the document, creating it if needed.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Create writes the document only if no document with that id exists.
	// It reports whether the document was created; losing to an existing
	// document is not an error.
	Create(ctx context.Context, collection, id string, data map[string]any) (bool, error)

	// Update merges fields into an existing document.
	// Returns ErrDocumentNotFound if it does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
}
