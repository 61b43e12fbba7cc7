// Package schema maps arbitrary, possibly garbled column headers onto the
// canonical episode fields.
//
// Headers are normalized first (byte-order marks, mojibake from encoding
// mismatches, Unicode compatibility forms, dash variants, whitespace) and then
// classified by an ordered rule list. The rule order is the tie-break for
// headers that match several rules, and the first header claiming a canonical
// field keeps it; later candidates are reported as ignored.
package schema
