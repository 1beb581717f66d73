// Package jobads owns the stored job ad table.
//
// It provides the field projection applied to raw feed documents, the GORM
// repository the reconciler writes through, and a read-only HTTP API:
//
//	GET /jobads?limit=&offset=&city=&occupation=
//	GET /jobads/count
//	GET /jobads/:id
//
// Projection never fails. A missing key at any depth of a field's path is
// stored as a single space.
package jobads
