// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the shared API key and the
// request timeouts. The start command validates it before building the Fiber
// app.
package server
