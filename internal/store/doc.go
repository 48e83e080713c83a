// Package store defines interfaces for data persistence operations.
// Task, user, membership and notification data live as JSON documents in
// named collections; DocumentStore is the generic capability over those
// collections and the typed stores describe what the deadline engine needs
// from each of them.
package store
