// Package mocks provides centralized mock implementations for testing.
//
// Mocks follow one pattern: a struct with a function field per interface
// method, falling back to simple default behavior when the field is nil.
// MemoryDocumentStore is the exception: it is a working in-memory
// store.DocumentStore that mirrors the PostgreSQL query semantics closely
// enough for service tests, with optional hooks for injecting failures.
//
// Usage:
//
//	docs := mocks.NewMemoryDocumentStore()
//	docs.Put(store.CollectionTasks, "t1", map[string]any{"due_date": "2025-01-15T09:00"})
//	docs.QueryFn = func(q store.Query) error { return errors.New("offline") }
package mocks
