// Package b3 fetches index composition snapshots from the B3 portfolio API.
//
// The request parameters travel as a base64 encoded JSON document appended
// to the configured base URL. The response's "results" array becomes a
// table.Table with one row per constituent.
package b3
