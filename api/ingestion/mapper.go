package ingestion

import (
	"errors"
	"strings"
	"time"
)

// ErrKeyColumnNotFound means the header row matched the signature but no
// column could be bound to the dialect's business-key field (nor to its
// fallback). Fatal for the file: without a key nothing can be grouped.
var ErrKeyColumnNotFound = errors.New("business key column not found")

// ColumnBinding ties one source column to the rule that claimed it.
type ColumnBinding struct {
	Index int
	// Name is the normalized lower-cased source column name, kept around to
	// recognize repeated-header rows that restate the legend as pseudo-data.
	Name string
	Rule ColumnRule
}

// BindColumns walks the header row and, per column, picks the first rule
// with a fragment contained in the column name. Columns matching no rule are
// dropped, which keeps unknown extra columns from breaking ingestion. Each
// target field is bound at most once; later columns that hit an
// already-claimed target are dropped too.
func BindColumns(header []string, rules []ColumnRule) []ColumnBinding {
	claimed := make(map[string]bool, len(rules))
	var bindings []ColumnBinding
	for j, raw := range header {
		name := strings.ToLower(NormalizeCell(raw))
		if name == "" {
			continue
		}
		for _, rule := range rules {
			if !ruleMatches(rule, name) {
				continue
			}
			if !claimed[rule.Target] {
				claimed[rule.Target] = true
				bindings = append(bindings, ColumnBinding{Index: j, Name: name, Rule: rule})
			}
			break
		}
	}
	return bindings
}

func ruleMatches(rule ColumnRule, columnName string) bool {
	for _, frag := range rule.Fragments {
		if strings.Contains(columnName, frag) {
			return true
		}
	}
	return false
}

// MapStats summarizes what the mapper kept and what it threw away.
type MapStats struct {
	RowsRetained int
	RowsRejected int
	// FieldFailures counts cells that looked like data but refused to
	// coerce, per target field. These rows survive with the field nulled.
	FieldFailures map[string]int
	DatesDefault  int
}

// MapColumns converts every row beneath the anchor into a CanonicalRecord,
// applying the per-field sanitizer and the business-key hygiene rules.
// defaultDate backs the dialect's structurally required date fields.
func MapColumns(grid RawGrid, anchor int, d Dialect, defaultDate time.Time) ([]CanonicalRecord, MapStats, error) {
	stats := MapStats{FieldFailures: make(map[string]int)}
	if anchor < 0 || anchor >= len(grid) {
		return nil, stats, ErrTableNotFound
	}

	bindings := BindColumns(grid[anchor], d.Rules)

	keyField := d.KeyField
	keyBinding := findBinding(bindings, keyField)
	if keyBinding == nil && d.KeyFallback != "" {
		keyField = d.KeyFallback
		keyBinding = findBinding(bindings, keyField)
	}
	if keyBinding == nil {
		return nil, stats, ErrKeyColumnNotFound
	}

	var records []CanonicalRecord
	for _, row := range grid[anchor+1:] {
		if rowIsEmpty(row) {
			continue
		}
		rec := make(CanonicalRecord, len(bindings))
		for _, b := range bindings {
			if b.Index >= len(row) {
				continue
			}
			applyCell(rec, b, row[b.Index], d, defaultDate, &stats)
		}

		key := rec.Text(keyField)
		if !validBusinessKey(key, keyBinding.Name, d) {
			stats.RowsRejected++
			continue
		}
		if d.DeriveLine != nil {
			d.DeriveLine(rec)
		}
		records = append(records, rec)
		stats.RowsRetained++
	}
	return records, stats, nil
}

func findBinding(bindings []ColumnBinding, target string) *ColumnBinding {
	for i := range bindings {
		if bindings[i].Rule.Target == target {
			return &bindings[i]
		}
	}
	return nil
}

// applyCell sanitizes one cell per its rule and stores the result, leaving
// the field null (absent) when the cell is a placeholder or unparsable.
func applyCell(rec CanonicalRecord, b ColumnBinding, raw string, d Dialect, defaultDate time.Time, stats *MapStats) {
	switch b.Rule.Type {
	case TypeInteger:
		if v, ok := ToInteger(raw); ok {
			rec[b.Rule.Target] = v
		} else if !isPlaceholder(raw) {
			stats.FieldFailures[b.Rule.Target]++
		}
	case TypeDecimal:
		if v, ok := ToDecimal(raw); ok {
			rec[b.Rule.Target] = v
		} else if !isPlaceholder(raw) {
			stats.FieldFailures[b.Rule.Target]++
		}
	case TypeDate:
		if dateRequired(d, b.Rule.Target) {
			dv := ToDateOrDefault(raw, defaultDate)
			if dv.Defaulted {
				stats.DatesDefault++
			}
			rec[b.Rule.Target] = dv
		} else if t, ok := ToDate(raw); ok {
			rec[b.Rule.Target] = DateValue{Time: t}
		} else if !isPlaceholder(raw) {
			stats.FieldFailures[b.Rule.Target]++
		}
	default:
		if v := NormalizeCell(raw); v != "" && !isPlaceholder(v) {
			rec[b.Rule.Target] = v
		}
	}
}

func dateRequired(d Dialect, target string) bool {
	for _, f := range d.RequiredDates {
		if f == target {
			return true
		}
	}
	return false
}

// validBusinessKey applies the hygiene rules that keep legend rows, repeated
// headers and footnote junk out of the order groups.
func validBusinessKey(key, headerName string, d Dialect) bool {
	key = NormalizeCell(key)
	if key == "" {
		return false
	}
	lower := strings.ToLower(key)
	if lower == headerName {
		// the export repeated its own column legend as a data row
		return false
	}
	if len(key) < d.MinKeyLen {
		return false
	}
	for _, phrase := range d.Denylist {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
