package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/redact"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// fieldPattern restricts field paths to dotted identifiers so they can be
// rendered into a text[] path literal without escaping.
var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// DocumentStore implements the store.DocumentStore interface on a single
// JSONB table.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDocumentStore creates a PostgreSQL implementation of store.DocumentStore.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// Get implements store.DocumentStore.Get
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document",
			redact.ErrorAttr(err),
			slog.String("collection", collection),
			slog.String("id", id))
		return nil, MapError(err)
	}

	return decodeDocument(id, raw)
}

// Query implements store.DocumentStore.Query
func (s *DocumentStore) Query(ctx context.Context, q store.Query) ([]*store.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query documents",
			redact.ErrorAttr(err),
			slog.String("collection", q.Collection),
			slog.Int("filters", len(q.Filters)))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", redact.ErrorAttr(cerr))
		}
	}()

	docs := make([]*store.Document, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, MapError(err)
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("queried documents",
		slog.String("collection", q.Collection),
		slog.Int("count", len(docs)))
	return docs, nil
}

// Set implements store.DocumentStore.Set
func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, collection, id, string(raw))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to set document",
			redact.ErrorAttr(err),
			slog.String("collection", collection),
			slog.String("id", id))
		return MapError(err)
	}
	return nil
}

// Create implements store.DocumentStore.Create
// The insert is a single statement, so concurrent creators of the same id
// cannot both succeed.
func (s *DocumentStore) Create(ctx context.Context, collection, id string, data map[string]any) (bool, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, string(raw))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create document",
			redact.ErrorAttr(err),
			slog.String("collection", collection),
			slog.String("id", id))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// Update implements store.DocumentStore.Update
// Top-level keys in fields replace the stored values; other keys are kept.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, string(raw))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update document",
			redact.ErrorAttr(err),
			slog.String("collection", collection),
			slog.String("id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDocumentNotFound)
}

func decodeDocument(id string, raw []byte) (*store.Document, error) {
	data := make(map[string]any)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return &store.Document{ID: id, Data: data}, nil
}

// pathLiteral renders a dotted field as a text[] literal such as {created_by,user_id}.
func pathLiteral(field string) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("%w: field %q", store.ErrInvalidQuery, field)
	}
	return "{" + strings.ReplaceAll(field, ".", ",") + "}", nil
}

// buildSelect translates a store query into SQL. Ordering comparisons only
// match values of the same JSON type as the operand; strings compare bytewise.
func buildSelect(q store.Query) (string, []any, error) {
	if q.Collection == "" {
		return "", nil, fmt.Errorf("%w: collection is required", store.ErrInvalidQuery)
	}

	var sb strings.Builder
	args := []any{q.Collection}
	sb.WriteString("SELECT id, data FROM documents WHERE collection = $1")

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, f := range q.Filters {
		path, err := pathLiteral(f.Field)
		if err != nil {
			return "", nil, err
		}
		p := arg(path) + "::text[]"

		switch f.Op {
		case store.OpEq, store.OpContains:
			operand, err := json.Marshal(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", store.ErrInvalidQuery, err)
			}
			op := "="
			if f.Op == store.OpContains {
				op = "@>"
			}
			fmt.Fprintf(&sb, " AND data #> %s %s %s::jsonb", p, op, arg(string(operand)))

		case store.OpLt, store.OpLte, store.OpGt, store.OpGte:
			switch v := f.Value.(type) {
			case string:
				fmt.Fprintf(&sb, ` AND jsonb_typeof(data #> %s) = 'string' AND (data #>> %s) COLLATE "C" %s %s`,
					p, p, f.Op, arg(v))
			case int, int32, int64, float32, float64:
				operand, _ := json.Marshal(v)
				fmt.Fprintf(&sb, " AND jsonb_typeof(data #> %s) = 'number' AND data #> %s %s %s::jsonb",
					p, p, f.Op, arg(string(operand)))
			default:
				return "", nil, fmt.Errorf("%w: cannot range-compare %T", store.ErrInvalidQuery, f.Value)
			}

		default:
			return "", nil, fmt.Errorf("%w: operator %q", store.ErrInvalidQuery, f.Op)
		}
	}

	if q.OrderBy != "" {
		path, err := pathLiteral(q.OrderBy)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, ` ORDER BY (data #>> %s::text[]) COLLATE "C" %s NULLS LAST, id`, arg(path), dir)
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), args, nil
}
