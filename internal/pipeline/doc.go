// Package pipeline runs one episode load end to end: decode, header
// resolution, normalization and metric derivation.
//
// Each load is tagged with a load ID that travels on the context and on
// every log line. Decode and schema failures abort the load; every later
// stage is total, so a resolved file always yields a table, possibly empty.
package pipeline
