package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"episodestats/internal/analytics"
	"episodestats/internal/fileutil"
	"episodestats/internal/textutil"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrLocked is returned when another writer holds the target's lock until
// the context ends.
var ErrLocked = errors.New("export target is locked by another process")

const lockRetryDelay = 50 * time.Millisecond

// ToFile atomically writes table to path in format. A sibling lock file
// serializes concurrent exports to the same target.
func ToFile(ctx context.Context, path string, table *analytics.Table, format string, delimiter rune) (fileutil.Digest, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var fill func(io.Writer) error
	switch format {
	case FormatCSV:
		fill = func(w io.Writer) error { return WriteCSV(w, table, delimiter) }
	case FormatXLSX:
		fill = func(w io.Writer) error { return WriteXLSX(w, table) }
	default:
		return fileutil.Digest{}, fmt.Errorf("unsupported export format %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fileutil.Digest{}, fmt.Errorf("create export directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fileutil.Digest{}, fmt.Errorf("acquire export lock: %w", err)
	}
	if !ok {
		return fileutil.Digest{}, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() { _ = lock.Unlock() }()

	digest, err := fileutil.WriteAtomic(path, 0o644, fill)
	if err != nil {
		return fileutil.Digest{}, fmt.Errorf("write %s export: %w", format, err)
	}
	return digest, nil
}

// DefaultPath names an export of source inside dir, stamped with at.
func DefaultPath(dir, source, format string, at time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name := fmt.Sprintf("%s-%s.%s", textutil.SanitizeToken(stem), at.UTC().Format("20060102T150405Z"), format)
	return filepath.Join(dir, name)
}
