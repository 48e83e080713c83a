// Package api exposes the deadline engine over HTTP. Handlers translate
// query parameters and JSON bodies into notify and timeline service calls
// and map service errors to status codes without leaking internal detail.
package api
