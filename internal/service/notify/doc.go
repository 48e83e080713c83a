// Package notify implements the deadline notification engine: resolving the
// query window for a sweep, working out who is involved in a task, and
// creating deduplicated in-app notifications with optional email delivery.
//
// The engine is synchronous and keeps no state between calls. Idempotence
// comes from the notification store: every notification has an id derived
// from (user, task, title), and creation is create-if-absent.
package notify
