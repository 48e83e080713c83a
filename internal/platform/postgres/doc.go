// Package postgres provides the PostgreSQL implementation of the document
// storage interface defined in the internal/store package. Documents are kept
// as JSONB rows keyed by (collection, id); this package owns the schema, its
// migrations, and the translation of store queries into SQL.
package postgres
