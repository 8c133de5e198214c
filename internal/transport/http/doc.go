// Package http contains the chi HTTP handlers of the dashboard API. All
// error responses follow RFC 7807 via the shared error handler.
package http
