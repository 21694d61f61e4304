package ingestion

import (
	"errors"
	"strings"
)

// ErrTableNotFound means no row in the grid satisfied the dialect's header
// signature. For financial dialects this is fatal for the file: guessing a
// header position has produced silently-wrong loads before, so we refuse to.
var ErrTableNotFound = errors.New("table header row not found")

// LocateAnchor scans the grid top to bottom and returns the index of the
// first row whose cells jointly contain every signature fragment. Requiring
// all fragments to co-occur in one row keeps a fragment that happens to show
// up inside a footnote from matching on its own.
func LocateAnchor(grid RawGrid, signature []string) (int, error) {
	for i, row := range grid {
		if rowMatchesSignature(row, signature) {
			return i, nil
		}
	}
	return -1, ErrTableNotFound
}

// LocateAnchorOrFirstRow is the lenient variant reserved for non-financial
// dialects: when the signature never matches it falls back to the first
// non-empty row and reports that it did so.
func LocateAnchorOrFirstRow(grid RawGrid, signature []string) (idx int, fellBack bool, err error) {
	if i, err := LocateAnchor(grid, signature); err == nil {
		return i, false, nil
	}
	for i, row := range grid {
		if !rowIsEmpty(row) {
			return i, true, nil
		}
	}
	return -1, false, ErrTableNotFound
}

func rowMatchesSignature(row []string, signature []string) bool {
	if len(signature) == 0 {
		return false
	}
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if v := NormalizeCell(c); v != "" {
			cells = append(cells, strings.ToLower(v))
		}
	}
	if len(cells) == 0 {
		return false
	}
	joined := strings.Join(cells, " ")
	for _, frag := range signature {
		if !strings.Contains(joined, frag) {
			return false
		}
	}
	return true
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
