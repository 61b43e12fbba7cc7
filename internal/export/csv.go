package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"episodestats/internal/analytics"
)

// WriteCSV writes every episode of table with the given delimiter.
func WriteCSV(w io.Writer, table *analytics.Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(EpisodeHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < table.Len(); i++ {
		if err := cw.Write(episodeRecord(table.At(i))); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
