package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadGridCSV(t *testing.T) {
	// uneven row widths and quoted commas, as the real exports come
	path := writeTemp(t, "export.csv",
		"PO #,Customer,Product\n"+
			"PO-1001,FLORAMART,\"ROSE, RED NAOMI\"\n"+
			"PO-1002,BLOOMCO\n")

	grid, err := FileGridReader{}.ReadGrid(path, "")
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	if len(grid) != 3 {
		t.Fatalf("rows = %d, want 3", len(grid))
	}
	if grid[1][2] != "ROSE, RED NAOMI" {
		t.Errorf("quoted cell = %q", grid[1][2])
	}
	if len(grid[2]) != 2 {
		t.Errorf("short row = %d cells, want 2", len(grid[2]))
	}
}

func TestReadGridUnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "notes.txt", "not a spreadsheet")
	_, err := FileGridReader{}.ReadGrid(path, "")
	if err == nil {
		t.Fatal("expected an error for an unsupported file type")
	}
}

func TestReadGridMissingXLSXSheet(t *testing.T) {
	// a corrupt or absent workbook never maps to ErrTableNotFound; only a
	// readable workbook missing the named sheet does, so here the open error
	// itself must come through untagged
	path := writeTemp(t, "broken.xlsx", "zip? no")
	_, err := FileGridReader{}.ReadGrid(path, "OPBASE")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrTableNotFound) {
		t.Errorf("open failure mis-tagged as table-not-found: %v", err)
	}
}

func TestFileSHA256(t *testing.T) {
	path := writeTemp(t, "blob.bin", "abc")
	got, err := FileSHA256(path)
	if err != nil {
		t.Fatalf("FileSHA256: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}

	if _, err := FileSHA256(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing file must error")
	}
}
