// Package requestid tags control API requests with a correlation id that is
// echoed in the X-Request-ID header and attached to log records.
package requestid
