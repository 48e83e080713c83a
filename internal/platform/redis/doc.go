// Package redis provides the Redis client and the sweep lease built on it.
// Redis is optional: without a URL the application runs sweeps unlocked.
package redis
