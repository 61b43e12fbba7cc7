package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"episodestats/internal/analytics"
	"episodestats/internal/export"
	"episodestats/internal/logging"
	"episodestats/internal/pipeline"
	"episodestats/internal/testsupport"
)

func loadFixture(t *testing.T, path string) *pipeline.Result {
	t.Helper()
	loader, err := pipeline.NewFromConfig(testsupport.NewConfig(t), logging.NewNop())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	res, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load %s: %v", path, err)
	}
	return res
}

func TestCSVRoundTripPreservesKeyFields(t *testing.T) {
	dir := t.TempDir()
	original := loadFixture(t, testsupport.WriteEpisodes(t, dir))

	out := filepath.Join(dir, "export.csv")
	if _, err := export.ToFile(context.Background(), out, original.Table, export.FormatCSV, ','); err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	again := loadFixture(t, out)

	if len(again.Mapping.Ignored) != 2 {
		t.Fatalf("expected derived episode and viewer columns to be ignored, got %+v", again.Mapping.Ignored)
	}
	if again.Table.Len() != original.Table.Len() {
		t.Fatalf("row count changed: %d -> %d", original.Table.Len(), again.Table.Len())
	}
	for i := 0; i < original.Table.Len(); i++ {
		a, b := original.Table.At(i), again.Table.At(i)
		if a.Season != b.Season || a.EpisodeOrder != b.EpisodeOrder || a.USViewers != b.USViewers {
			t.Fatalf("row %d changed: %+v -> %+v", i, a, b)
		}
		if strings.Join(a.Writers, "|") != strings.Join(b.Writers, "|") || a.Title != b.Title {
			t.Fatalf("row %d text fields changed: %+v -> %+v", i, a, b)
		}
		if (a.Airdate == nil) != (b.Airdate == nil) || (a.Airdate != nil && !a.Airdate.Equal(*b.Airdate)) {
			t.Fatalf("row %d air date changed: %v -> %v", i, a.Airdate, b.Airdate)
		}
		if (a.RunningTimeMinutes == nil) != (b.RunningTimeMinutes == nil) ||
			(a.RunningTimeMinutes != nil && *a.RunningTimeMinutes != *b.RunningTimeMinutes) {
			t.Fatalf("row %d running time changed", i)
		}
		if a.IsAnomaly != b.IsAnomaly || a.IsTopDecile != b.IsTopDecile {
			t.Fatalf("row %d flags changed", i)
		}
	}
}

func TestWriteCSVUsesDelimiterAndListLiterals(t *testing.T) {
	table := analytics.Build(nil, analytics.DefaultOptions())
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table, ';'); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Season;Episode;Title;") {
		t.Fatalf("unexpected header %q", buf.String())
	}

	if got := export.ListLiteral([]string{"Mr. Krabs' Daughter", `back\slash`}); got != `['Mr. Krabs\' Daughter', 'back\\slash']` {
		t.Fatalf("unexpected literal %s", got)
	}
	if got := export.ListLiteral(nil); got != "[]" {
		t.Fatalf("unexpected empty literal %s", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	res := loadFixture(t, testsupport.WriteEpisodes(t, dir))

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res.Table); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != export.SheetEpisodes || sheets[1] != export.SheetSeasons {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows(export.SheetEpisodes)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != res.Table.Len()+1 || rows[0][3] != export.HeaderViewers || rows[1][2] != "Help Wanted" {
		t.Fatalf("unexpected episode rows %v", rows)
	}
	seasons, err := f.GetRows(export.SheetSeasons)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(seasons) != 3 || seasons[1][0] != "1" || seasons[2][1] != "2" {
		t.Fatalf("unexpected season rows %v", seasons)
	}
}

func TestToFileRejectsUnknownFormat(t *testing.T) {
	table := analytics.Build(nil, analytics.Options{})
	_, err := export.ToFile(context.Background(), filepath.Join(t.TempDir(), "out.json"), table, "json", ',')
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestToFileWaitsForLock(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	holder := flock.New(out + ".lock")
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	table := analytics.Build(nil, analytics.Options{})
	_, err := export.ToFile(ctx, out, table, export.FormatCSV, ',')
	if !errors.Is(err, export.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output while locked, got %v", statErr)
	}
}

func TestDefaultPath(t *testing.T) {
	at := time.Date(2024, time.March, 5, 6, 7, 8, 0, time.UTC)
	got := export.DefaultPath("/exports", "/data/SpongeBob Episodes.csv", "xlsx", at)
	if got != filepath.Join("/exports", "spongebob_episodes-20240305T060708Z.xlsx") {
		t.Fatalf("unexpected path %s", got)
	}
}
