// Package jobstream is the client for the JobTech job ad stream.
//
// FetchAll reads the snapshot endpoint for bootstrap. FetchSince reads the
// stream endpoint with a date parameter in watermark layout and returns
// changed and removed ads; removed ads carry "removed": true.
//
// Requests are paced by a token bucket. Retries are left to the caller.
package jobstream
