package testsupport

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/transform"

	"episodestats/internal/decode"
)

// WriteCSV writes rows (header first) as a UTF-8 CSV file under dir and
// returns its path.
func WriteCSV(t testing.TB, dir, name string, rows [][]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("encode csv %s: %v", name, err)
	}
	return WriteFile(t, filepath.Join(dir, name), buf.Bytes())
}

// WriteEncoded transcodes UTF-8 text into enc and writes it to path.
func WriteEncoded(t testing.TB, path, text string, enc decode.Encoding) string {
	t.Helper()

	data := []byte(text)
	if encoder := enc.Encoder(); encoder != nil {
		out, _, err := transform.Bytes(encoder, data)
		if err != nil {
			t.Fatalf("encode %s as %s: %v", path, enc.Name, err)
		}
		data = out
	}
	return WriteFile(t, path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
