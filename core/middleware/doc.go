// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key check on the X-API-Key header. Disabled when no key is
//     configured.
//   - rayid: tags every request with a ray id (X-Ray-ID) that handlers add
//     to their log lines through logger.WithRayID.
//
// Register rayid first so rejected requests are traceable too.
package middleware
