// Package metrics exposes Prometheus metrics for deadline sweeps, email
// delivery and HTTP traffic. Each Metrics owns its registry so tests and
// multiple instances never collide on the global one.
package metrics
