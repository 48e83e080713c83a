// Package smtp sends plain-text email through an SMTP relay using STARTTLS
// and PLAIN authentication.
package smtp
