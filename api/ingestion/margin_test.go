package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fact(sale, cost float64) LineFact {
	f := LineFact{Sale: decimal.NewFromFloat(sale)}
	if cost > 0 {
		f.Cost = decimal.NewFromFloat(cost)
		f.HasCost = true
	}
	return f
}

func TestImputeMarginObservedRatio(t *testing.T) {
	// complete rows: sale 1000, cost 750 -> observed ratio 0.25
	// incomplete rows: sale 400 -> projected cost 400 * 0.75 = 300
	facts := []LineFact{
		fact(600, 450),
		fact(400, 300),
		fact(250, 0),
		fact(150, 0),
	}
	m := ImputeMargin(facts)

	if m.CompleteRows != 2 || m.ImputedRows != 2 {
		t.Fatalf("rows = %d complete %d imputed, want 2/2", m.CompleteRows, m.ImputedRows)
	}
	if m.RatioDefaulted {
		t.Error("ratio must be observed, not defaulted")
	}
	if m.ObservedRatio.String() != "0.25" {
		t.Errorf("ObservedRatio = %s, want 0.25", m.ObservedRatio)
	}
	if m.ProjectedCost.String() != "300" {
		t.Errorf("ProjectedCost = %s, want 300", m.ProjectedCost)
	}
	if m.TotalSale.String() != "1400" {
		t.Errorf("TotalSale = %s, want 1400", m.TotalSale)
	}
	if m.TotalCost.String() != "1050" {
		t.Errorf("TotalCost = %s, want 1050", m.TotalCost)
	}
	if m.Margin.String() != "350" {
		t.Errorf("Margin = %s, want 350", m.Margin)
	}
	if m.MarginPct.String() != "0.25" {
		t.Errorf("MarginPct = %s, want 0.25", m.MarginPct)
	}
}

func TestImputeMarginDefaultRatio(t *testing.T) {
	// no complete rows at all: fall back to the conservative default
	facts := []LineFact{fact(100, 0), fact(200, 0)}
	m := ImputeMargin(facts)

	if !m.RatioDefaulted {
		t.Fatal("ratio must be flagged as defaulted")
	}
	if m.ObservedRatio.String() != "0.2" {
		t.Errorf("ObservedRatio = %s, want 0.2", m.ObservedRatio)
	}
	// projected cost = 300 * 0.8
	if m.ProjectedCost.String() != "240" {
		t.Errorf("ProjectedCost = %s, want 240", m.ProjectedCost)
	}
	if m.Margin.String() != "60" {
		t.Errorf("Margin = %s, want 60", m.Margin)
	}
}

func TestImputeMarginSkipsNonPositiveSales(t *testing.T) {
	facts := []LineFact{
		fact(100, 80),
		{Sale: decimal.Zero},
		{Sale: decimal.NewFromInt(-5)},
	}
	m := ImputeMargin(facts)
	if m.CompleteRows != 1 || m.ImputedRows != 0 {
		t.Errorf("rows = %d/%d, want 1 complete 0 imputed", m.CompleteRows, m.ImputedRows)
	}
	if m.TotalSale.String() != "100" {
		t.Errorf("TotalSale = %s, want 100", m.TotalSale)
	}
}

func TestImputeMarginLowMarginLines(t *testing.T) {
	facts := []LineFact{
		fact(100, 95), // 5% margin, below the 10% alert threshold
		fact(100, 80), // 20% margin
		fact(100, 0),  // imputed rows never trip the alert
	}
	m := ImputeMargin(facts)
	if m.LowMarginLines != 1 {
		t.Errorf("LowMarginLines = %d, want 1", m.LowMarginLines)
	}
}

func TestImputeMarginEmpty(t *testing.T) {
	m := ImputeMargin(nil)
	if !m.TotalSale.IsZero() || !m.TotalCost.IsZero() || !m.Margin.IsZero() {
		t.Errorf("empty input must produce zero totals: %+v", m)
	}
	if !m.RatioDefaulted {
		t.Error("empty input has no complete rows, ratio must be defaulted")
	}
}

func TestBuildLineFacts(t *testing.T) {
	records := []CanonicalRecord{
		{FieldTotalLineValue: decimal.NewFromInt(100)},
		{}, // no sale value contributes nothing
	}
	facts := BuildLineFacts(records, OpbaseArchive)
	if len(facts) != 1 {
		t.Fatalf("facts = %d, want 1", len(facts))
	}
	if BuildLineFacts(records, KometConfirm) != nil {
		t.Error("dialect without a fact extractor must yield nil")
	}
}
