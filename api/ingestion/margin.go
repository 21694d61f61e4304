package ingestion

import (
	"github.com/shopspring/decimal"

	"FloraCorpSaas/internal/config"
)

// LineFact is the read-only financial view of one detail row: the sale value
// and, when the source recorded one, the cost value. Never persisted,
// recomputed for every report.
type LineFact struct {
	Sale    decimal.Decimal
	Cost    decimal.Decimal
	HasCost bool
}

// MarginSummary is the auditable output of the imputation engine. Ratios are
// fractions (0.25 means 25%). ImputedRows and ObservedRatio disclose exactly
// how much of the cost figure is projection rather than ground truth.
type MarginSummary struct {
	TotalSale decimal.Decimal
	TotalCost decimal.Decimal
	Margin    decimal.Decimal
	MarginPct decimal.Decimal

	// ObservedRatio is the margin ratio measured over complete rows, or the
	// conservative default when no complete rows exist.
	ObservedRatio  decimal.Decimal
	RatioDefaulted bool

	CompleteRows  int
	ImputedRows   int
	ProjectedCost decimal.Decimal

	// LowMarginLines counts complete rows whose own margin sits below the
	// alert threshold; imputed rows can't trip it by construction.
	LowMarginLines int
}

// ImputeMargin computes aggregate sale/cost/margin over the facts, inferring
// the cost of rows that never had one recorded. Many archive rows carry a
// sale value but a missing or zero cost; summing them as-is would inflate
// every margin report. The engine measures the margin ratio on the rows
// where both sides exist and projects the missing costs at that ratio.
func ImputeMargin(facts []LineFact) MarginSummary {
	var s MarginSummary

	var saleComplete, costComplete, saleIncomplete decimal.Decimal
	lowThreshold := decimal.NewFromFloat(config.LowMarginAlertRatio)

	for _, f := range facts {
		if !f.Sale.IsPositive() {
			continue
		}
		if f.HasCost && f.Cost.IsPositive() {
			saleComplete = saleComplete.Add(f.Sale)
			costComplete = costComplete.Add(f.Cost)
			s.CompleteRows++
			if f.Sale.Sub(f.Cost).Div(f.Sale).LessThan(lowThreshold) {
				s.LowMarginLines++
			}
		} else {
			saleIncomplete = saleIncomplete.Add(f.Sale)
			s.ImputedRows++
		}
	}

	if saleComplete.IsPositive() {
		s.ObservedRatio = saleComplete.Sub(costComplete).Div(saleComplete)
	} else {
		s.ObservedRatio = decimal.NewFromFloat(config.DefaultMarginRatio)
		s.RatioDefaulted = true
	}

	s.ProjectedCost = saleIncomplete.Mul(decimal.NewFromInt(1).Sub(s.ObservedRatio)).Round(2)

	s.TotalSale = saleComplete.Add(saleIncomplete)
	s.TotalCost = costComplete.Add(s.ProjectedCost)
	s.Margin = s.TotalSale.Sub(s.TotalCost)
	if s.TotalSale.IsPositive() {
		s.MarginPct = s.Margin.Div(s.TotalSale)
	}
	return s
}

// BuildLineFacts extracts the (sale, cost) pairs for a reconcile-enabled
// dialect. Records without a usable sale value contribute nothing.
func BuildLineFacts(records []CanonicalRecord, d Dialect) []LineFact {
	if d.LineFact == nil {
		return nil
	}
	facts := make([]LineFact, 0, len(records))
	for _, rec := range records {
		if f, ok := d.LineFact(rec); ok {
			facts = append(facts, f)
		}
	}
	return facts
}
