// Package export writes analytics tables to delimited text and XLSX.
//
// The CSV layout is designed to be read back by the pipeline: canonical
// columns come first under headers the schema resolver maps to the same
// fields, and derived columns follow under headers it either ignores or
// cannot classify. Re-ingesting an export reproduces season, episode order
// and viewer values.
package export
