// Package textutil provides fuzzy name matching and filename helpers.
//
// Names are compared through character trigram fingerprints so that small
// spelling differences ("Hilenburg" vs "Hillenburg") still score highly.
// Suggest ranks candidate names against a query; the CLI uses it to propose
// writers or characters when a filter matches nothing.
package textutil
