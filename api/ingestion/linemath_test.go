package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBoxFactor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "EB", want: "0.125"},
		{in: "qb", want: "0.25"},
		{in: " HB ", want: "0.5"},
		{in: "FB", want: "1"},
		{in: "UNKNOWN", want: "0.25"},
		{in: "", want: "0.25"},
	}
	for _, tt := range tests {
		if got := BoxFactor(tt.in); got.String() != tt.want {
			t.Errorf("BoxFactor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestComputeOrderLine(t *testing.T) {
	// 10 half boxes, 12 bunches per full box, 25 stems per bunch, $0.40/stem:
	// 6 bunches per physical box, 60 bunches, 1500 stems, $600.00
	line := ComputeOrderLine(10, "HB", 25, 12, decimal.NewFromFloat(0.40))
	if line.BunchesPerBox != 6 {
		t.Errorf("BunchesPerBox = %d, want 6", line.BunchesPerBox)
	}
	if line.TotalBunches != 60 {
		t.Errorf("TotalBunches = %d, want 60", line.TotalBunches)
	}
	if line.TotalStems != 1500 {
		t.Errorf("TotalStems = %d, want 1500", line.TotalStems)
	}
	if line.TotalValue.String() != "600" {
		t.Errorf("TotalValue = %s, want 600", line.TotalValue)
	}
}

func TestDeriveKometLine(t *testing.T) {
	rec := CanonicalRecord{
		FieldTotalUnits: int64(250),
		FieldUnitPrice:  decimal.NewFromFloat(0.36),
	}
	deriveKometLine(rec)
	if got := rec.DecimalOrZero(FieldTotalLineValue).String(); got != "90" {
		t.Errorf("total_line_value = %s, want 90", got)
	}

	// no Total U column: reconstruct from box fields
	rec = CanonicalRecord{
		FieldBoxes:         int64(4),
		FieldBoxType:       "QB",
		FieldBunchesPerBox: int64(12),
		FieldStemsPerBunch: int64(25),
		FieldUnitPrice:     decimal.NewFromFloat(0.50),
	}
	deriveKometLine(rec)
	// 12*0.25=3 bunches per box, 4*3*25=300 stems, $150
	if got := rec.IntOrZero(FieldTotalUnits); got != 300 {
		t.Errorf("total_units = %d, want 300", got)
	}
	if got := rec.DecimalOrZero(FieldTotalLineValue).String(); got != "150" {
		t.Errorf("total_line_value = %s, want 150", got)
	}
}

func TestDeriveOpbaseLinePrefersTotalColumn(t *testing.T) {
	rec := CanonicalRecord{
		FieldTotalSalesValue: decimal.NewFromFloat(123.45),
		FieldTotalUnits:      int64(100),
		FieldSalesPrice:      decimal.NewFromFloat(0.99),
	}
	deriveOpbaseLine(rec)
	if got := rec.DecimalOrZero(FieldTotalLineValue).String(); got != "123.45" {
		t.Errorf("total_line_value = %s, want the source total 123.45", got)
	}

	rec = CanonicalRecord{
		FieldTotalUnits: int64(100),
		FieldSalesPrice: decimal.NewFromFloat(0.99),
	}
	deriveOpbaseLine(rec)
	if got := rec.DecimalOrZero(FieldTotalLineValue).String(); got != "99" {
		t.Errorf("total_line_value = %s, want 99", got)
	}
}

func TestOpbaseLineFact(t *testing.T) {
	rec := CanonicalRecord{
		FieldTotalLineValue: decimal.NewFromInt(100),
		FieldTotalUnits:     int64(200),
		FieldPurchasePrice:  decimal.NewFromFloat(0.30),
	}
	fact, ok := opbaseLineFact(rec)
	if !ok {
		t.Fatal("expected a fact")
	}
	if fact.Sale.String() != "100" || !fact.HasCost || fact.Cost.String() != "60" {
		t.Errorf("fact = %+v, want sale 100 cost 60", fact)
	}

	// sale without cost is an incomplete fact
	fact, ok = opbaseLineFact(CanonicalRecord{FieldTotalLineValue: decimal.NewFromInt(50)})
	if !ok || fact.HasCost {
		t.Errorf("fact = %+v ok=%v, want cost-less fact", fact, ok)
	}

	// no sale, no fact
	if _, ok := opbaseLineFact(CanonicalRecord{}); ok {
		t.Error("record without sale must yield no fact")
	}
}

func TestStandingOrderLineFact(t *testing.T) {
	rec := CanonicalRecord{
		FieldTotalUnits:    int64(300),
		FieldSalesPrice:    decimal.NewFromFloat(0.40),
		FieldPurchasePrice: decimal.NewFromFloat(0.25),
	}
	fact, ok := standingOrderLineFact(rec)
	if !ok {
		t.Fatal("expected a fact")
	}
	if fact.Sale.String() != "120" || fact.Cost.String() != "75" || !fact.HasCost {
		t.Errorf("fact = %+v, want sale 120 cost 75", fact)
	}
}
