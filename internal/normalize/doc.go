// Package normalize turns raw episode cells into typed values.
//
// Every parser is total over strings: malformed input yields a missing value
// rather than an error. Rows applies the parsers to decoded records using a
// resolved header mapping and drops rows that have no usable season.
package normalize
