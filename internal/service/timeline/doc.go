// Package timeline builds the per-user deadline overview: every task the user
// is involved in, annotated with its urgency, bucketed by due date, with
// same-day conflicts and summary statistics.
package timeline
