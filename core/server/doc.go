// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber application; this package only defines
// the listen port and the API key consumed by the auth middleware.
package server
