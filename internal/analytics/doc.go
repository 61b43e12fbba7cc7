// Package analytics enriches normalized episode rows with derived metrics
// and exposes the result as an immutable, filterable table.
//
// Derived columns (imputed viewers, episode order, anomaly and top-decile
// flags, moving averages, season growth) are computed once by Build over the
// complete row set. Filters return views that share those values; they never
// recompute them against the subset.
package analytics
