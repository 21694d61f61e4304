package ingestion

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Box volume factors relative to a full box. The packing world measures
// everything against the theoretical full ("tabaco") box.
var boxFactors = map[string]decimal.Decimal{
	"EB": decimal.NewFromFloat(0.125), // eighth box
	"QB": decimal.NewFromFloat(0.25),  // quarter box
	"HB": decimal.NewFromFloat(0.5),   // half box
	"FB": decimal.NewFromInt(1),       // full box
}

// BoxFactor returns the volume factor for a box type code, defaulting to a
// quarter box when the code is unknown.
func BoxFactor(boxType string) decimal.Decimal {
	if f, ok := boxFactors[strings.ToUpper(strings.TrimSpace(boxType))]; ok {
		return f
	}
	return boxFactors["QB"]
}

// OrderLine is the exploded math of one order row: physical boxes turned
// into bunches, stems and dollars.
type OrderLine struct {
	BunchesPerBox int64
	TotalBunches  int64
	TotalStems    int64
	TotalValue    decimal.Decimal
}

// ComputeOrderLine converts box counts into stem counts and a line value.
// bunchesPerFullBox is the capacity of a theoretical full box; the box type
// scales it down to the physical box actually shipped. unitPrice is per stem.
func ComputeOrderLine(boxes int64, boxType string, stemsPerBunch, bunchesPerFullBox int64, unitPrice decimal.Decimal) OrderLine {
	perBox := decimal.NewFromInt(bunchesPerFullBox).Mul(BoxFactor(boxType)).IntPart()
	totalBunches := boxes * perBox
	totalStems := totalBunches * stemsPerBunch
	return OrderLine{
		BunchesPerBox: perBox,
		TotalBunches:  totalBunches,
		TotalStems:    totalStems,
		TotalValue:    decimal.NewFromInt(totalStems).Mul(unitPrice).Round(2),
	}
}

// deriveKometLine fills total_line_value for the vendor-confirmation rows:
// the export carries total units and a per-unit cost.
func deriveKometLine(rec CanonicalRecord) {
	units, uok := rec.Int(FieldTotalUnits)
	price, pok := rec.Decimal(FieldUnitPrice)
	if uok && pok {
		rec[FieldTotalLineValue] = decimal.NewFromInt(units).Mul(price).Round(2)
		return
	}
	// Some confirmations omit Total U; reconstruct it from the box fields.
	boxes, bok := rec.Int(FieldBoxes)
	bunches, bpok := rec.Int(FieldBunchesPerBox)
	stems, sok := rec.Int(FieldStemsPerBunch)
	if bok && bpok && sok && pok {
		line := ComputeOrderLine(boxes, rec.Text(FieldBoxType), stems, bunches, price)
		rec[FieldTotalUnits] = line.TotalStems
		rec[FieldTotalLineValue] = line.TotalValue
	}
}

// deriveOpbaseLine prefers the archive's own total column and reconstructs
// it from stems and price only when that column is blank.
func deriveOpbaseLine(rec CanonicalRecord) {
	if total, ok := rec.Decimal(FieldTotalSalesValue); ok {
		rec[FieldTotalLineValue] = total
		return
	}
	units, uok := rec.Int(FieldTotalUnits)
	price, pok := rec.Decimal(FieldSalesPrice)
	if uok && pok {
		rec[FieldTotalLineValue] = decimal.NewFromInt(units).Mul(price).Round(2)
	}
}

// deriveStandingOrderLine runs the audit sheet's column formulas:
// stems = boxes * bunches/box * stems/bunch, then sale and line value.
func deriveStandingOrderLine(rec CanonicalRecord) {
	boxes := rec.IntOrZero(FieldBoxes)
	bunches := rec.IntOrZero(FieldBunchesPerBox)
	stems := rec.IntOrZero(FieldStemsPerBunch)
	totalStems := boxes * bunches * stems
	rec[FieldTotalUnits] = totalStems
	if price, ok := rec.Decimal(FieldSalesPrice); ok {
		rec[FieldTotalLineValue] = decimal.NewFromInt(totalStems).Mul(price).Round(2)
	}
}

func opbaseLineFact(rec CanonicalRecord) (LineFact, bool) {
	sale, ok := rec.Decimal(FieldTotalLineValue)
	if !ok || !sale.IsPositive() {
		return LineFact{}, false
	}
	fact := LineFact{Sale: sale}
	units, uok := rec.Int(FieldTotalUnits)
	cost, cok := rec.Decimal(FieldPurchasePrice)
	if uok && cok {
		c := decimal.NewFromInt(units).Mul(cost).Round(2)
		if c.IsPositive() {
			fact.Cost = c
			fact.HasCost = true
		}
	}
	return fact, true
}

func standingOrderLineFact(rec CanonicalRecord) (LineFact, bool) {
	units := rec.IntOrZero(FieldTotalUnits)
	salePrice, sok := rec.Decimal(FieldSalesPrice)
	if !sok || units == 0 {
		return LineFact{}, false
	}
	fact := LineFact{Sale: decimal.NewFromInt(units).Mul(salePrice).Round(2)}
	if !fact.Sale.IsPositive() {
		return LineFact{}, false
	}
	if costPrice, ok := rec.Decimal(FieldPurchasePrice); ok {
		c := decimal.NewFromInt(units).Mul(costPrice).Round(2)
		if c.IsPositive() {
			fact.Cost = c
			fact.HasCost = true
		}
	}
	return fact, true
}
