// Package config loads server, database, SMTP, Redis and deadline-sweep
// settings from an optional YAML file and TASKDESK_* environment variables,
// then validates them before anything else starts.
package config
