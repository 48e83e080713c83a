// Package docstore implements the typed stores of package store on top of a
// generic store.DocumentStore. It owns the mapping between loosely typed
// documents and domain entities: numeric fields stored as strings, creator
// and assignee fields stored as either an object or a list, and timestamps
// stored as text.
package docstore
