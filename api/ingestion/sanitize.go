package ingestion

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"FloraCorpSaas/api/constants"
)

// The sanitizers are total: they never return an error, they return a value
// and an ok flag. A malformed cell degrades to null, it does not abort a row
// and a row never aborts a batch.

// placeholderTokens are the junk markers pandas-era exports leave behind for
// missing values. All comparisons are against the lower-cased trimmed cell.
var placeholderTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"nat":  {},
	"none": {},
	"na":   {},
	"<na>": {},
	"n/a":  {},
	"null": {},
	"-":    {},
}

// NormalizeCell trims, strips non-breaking spaces and collapses inner runs
// of whitespace to single spaces.
func NormalizeCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, constants.NBSP, " ")
	return strings.Join(strings.Fields(s), " ")
}

func isPlaceholder(s string) bool {
	_, ok := placeholderTokens[strings.ToLower(NormalizeCell(s))]
	return ok
}

// ToDecimal converts a cell to a decimal, handling currency symbols and both
// separator locales: when a value carries both '.' and ',' the separator seen
// last is the decimal point and the other one marks thousands, so "1.234,56"
// and "1,234.56" both come out as 1234.56. A lone ',' is a decimal point.
func ToDecimal(cell string) (decimal.Decimal, bool) {
	s := NormalizeCell(cell)
	if isPlaceholder(s) {
		return decimal.Decimal{}, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// latin style: dots are thousands, comma is the decimal point
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// anglo style: commas are thousands
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			// "1,234,567" can only mean thousands
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// "0,36" means 0.36
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ToInteger converts a cell to an integer by parsing it as a decimal first
// (so "1.200,50" and "$ 1,200" both work) and truncating the fraction.
func ToInteger(cell string) (int64, bool) {
	d, ok := ToDecimal(cell)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// dateLayouts is ordered: ISO first because that is what re-exports of our
// own data look like, then dd/mm before mm/dd since the latin sources
// dominate, then dashed and named-month variants.
var dateLayouts = []string{
	constants.DateFormat,
	constants.DateTimeFormat,
	"2006-01-02T15:04:05",
	constants.DateFormatEU, "2/1/2006",
	constants.DateFormatUS, "1/2/2006",
	constants.DateFormatDash, "2-1-2006",
	"01-02-2006",
	"02/01/2006 15:04:05", "01/02/2006 15:04:05",
	"02-Jan-2006", "02-Jan-06", "2-Jan-2006",
	"Jan 2, 2006", "January 2, 2006",
	"2006/01/02",
}

// ToDate parses a cell into a date, trying the layout list in order and then
// falling back to Excel serial numbers. Returns ok=false when nothing fits.
func ToDate(cell string) (time.Time, bool) {
	s := NormalizeCell(cell)
	if isPlaceholder(s) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := parseExcelSerial(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ToDateOrDefault is ToDate for structurally required date fields: an
// unparsable cell yields the caller-supplied default, flagged as such.
func ToDateOrDefault(cell string, def time.Time) DateValue {
	if t, ok := ToDate(cell); ok {
		return DateValue{Time: t}
	}
	return DateValue{Time: def, Defaulted: true}
}

// parseExcelSerial converts an Excel serial date (possibly with a fractional
// time part) into a time.Time. The 1899-12-30 epoch absorbs Excel's phantom
// 1900-02-29 for every serial past it.
func parseExcelSerial(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if f < 1 {
		return time.Time{}, errors.New("not a date serial")
	}
	days := int(f)
	frac := f - float64(days)
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	d := base.AddDate(0, 0, days)
	return d.Add(time.Duration(frac * float64(24*time.Hour))), nil
}
