package ingestion

import (
	"testing"
	"time"
)

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims", in: "  PO-1001  ", want: "PO-1001"},
		{name: "collapses inner runs", in: "RED   NAOMI\tROSE", want: "RED NAOMI ROSE"},
		{name: "strips nbsp", in: " FB ", want: "FB"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCell(tt.in); got != tt.want {
				t.Errorf("NormalizeCell(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "plain", in: "12.50", want: "12.5", wantOK: true},
		{name: "latin thousands", in: "1.234,56", want: "1234.56", wantOK: true},
		{name: "anglo thousands", in: "1,234.56", want: "1234.56", wantOK: true},
		{name: "lone comma is decimal point", in: "0,36", want: "0.36", wantOK: true},
		{name: "repeated commas are thousands", in: "1,234,567", want: "1234567", wantOK: true},
		{name: "currency symbol and spaces", in: "$ 1.200,50", want: "1200.5", wantOK: true},
		{name: "negative", in: "-45,10", want: "-45.1", wantOK: true},
		{name: "nan placeholder", in: "NaN", wantOK: false},
		{name: "dash placeholder", in: "-", wantOK: false},
		{name: "empty", in: "", wantOK: false},
		{name: "text", in: "pending", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToDecimal(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ToDecimal(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ToDecimal(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestToInteger(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   int64
		wantOK bool
	}{
		{name: "plain", in: "42", want: 42, wantOK: true},
		{name: "float truncates", in: "12.0", want: 12, wantOK: true},
		{name: "latin formatted", in: "1.200,50", want: 1200, wantOK: true},
		{name: "none placeholder", in: "None", wantOK: false},
		{name: "text", in: "TBD", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInteger(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ToInteger(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ToInteger(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "iso", in: "2024-03-08", want: "2024-03-08", wantOK: true},
		{name: "day first wins on ambiguous", in: "08/03/2024", want: "2024-03-08", wantOK: true},
		{name: "month first when day first impossible", in: "12/31/2024", want: "2024-12-31", wantOK: true},
		{name: "dashed", in: "08-03-2024", want: "2024-03-08", wantOK: true},
		{name: "named month", in: "08-Mar-2024", want: "2024-03-08", wantOK: true},
		{name: "excel serial", in: "45000", want: "2023-03-15", wantOK: true},
		{name: "excel serial with time", in: "45000.5", want: "2023-03-15", wantOK: true},
		{name: "nat placeholder", in: "NaT", wantOK: false},
		{name: "garbage", in: "ASAP", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ToDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ToDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestToDateOrDefault(t *testing.T) {
	def := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	dv := ToDateOrDefault("2024-03-08", def)
	if dv.Defaulted {
		t.Error("parsable cell must not be flagged defaulted")
	}
	if dv.Time.Format("2006-01-02") != "2024-03-08" {
		t.Errorf("got %s, want 2024-03-08", dv.Time.Format("2006-01-02"))
	}

	dv = ToDateOrDefault("NaT", def)
	if !dv.Defaulted {
		t.Error("unparsable cell must be flagged defaulted")
	}
	if !dv.Time.Equal(def) {
		t.Errorf("got %s, want the default", dv.Time)
	}
}
