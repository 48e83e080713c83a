// Package deadline implements the pure date arithmetic behind task deadlines:
// lenient due-date parsing, urgency classification, timeline bucketing and
// same-day conflict detection. Nothing in this package performs I/O and
// every function takes "now" explicitly.
package deadline
