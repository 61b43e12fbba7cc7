// Package decode reads raw episode exports into header-aligned records.
//
// A Decoder tries an ordered list of text encodings (UTF-8, Latin-1, and
// Windows-1252 by default) and keeps the first one under which the file
// decodes cleanly and parses as delimited rows. Rows with the wrong field
// count are skipped rather than failing the load. When no encoding works the
// Decoder returns a *DataSourceError describing every rejected attempt.
package decode
