package ingestion

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawGrid is one spreadsheet worth of cells exactly as read from disk:
// rows of string cells, no header assumed anywhere.
type RawGrid [][]string

// Canonical field names. Every dialect maps its loose source columns onto
// this vocabulary; nothing outside it survives the mapping boundary.
const (
	FieldPONumber        = "po_number"
	FieldInvoiceNumber   = "invoice_number"
	FieldPOConsecutive   = "po_consecutive"
	FieldVendor          = "vendor"
	FieldFarmCode        = "farm_code"
	FieldFarmInvoice     = "farm_invoice"
	FieldCustomerCode    = "customer_code"
	FieldCustomerName    = "customer_name"
	FieldCustomerInvCode = "customer_inv_code"
	FieldShipDate        = "ship_date"
	FieldFlightDate      = "flight_date"
	FieldOrigin          = "origin"
	FieldStatus          = "status"
	FieldMarkCode        = "mark_code"
	FieldProductCode     = "product_code"
	FieldProductName     = "product_name"
	FieldFlowerType      = "flower_type"
	FieldVariety         = "variety"
	FieldColor           = "color"
	FieldGrade           = "grade"
	FieldBoxType         = "box_type"
	FieldBoxes           = "boxes"
	FieldBunchesPerBox   = "bunches_per_box"
	FieldStemsPerBunch   = "stems_per_bunch"
	FieldStemsPerBox     = "stems_per_box"
	FieldTotalUnits      = "total_units"
	FieldUnitPrice       = "unit_price"
	FieldSalesPrice      = "sales_price"
	FieldPurchasePrice   = "purchase_price"
	FieldSuggestedPrice  = "suggested_price"
	FieldTotalLineValue  = "total_line_value"
	FieldTotalSalesValue = "total_sales_value"
	FieldCashPayment     = "cash_payment"
	FieldCashPurchase    = "cash_purchase"
	FieldCredits         = "credits"
	FieldOrderKind       = "order_kind"
	FieldOrderType       = "order_type"
	FieldAWB             = "awb"
	FieldHAWB            = "hawb"
	FieldComments        = "comments"
	FieldContents        = "contents"
	FieldSleeveType      = "sleeve_type"
	FieldSize            = "size"
	FieldUPC             = "upc"
	FieldNotes           = "notes"
)

// DateValue is a parsed date plus the flag that tells report readers whether
// the value came from the cell or from the caller-supplied default.
type DateValue struct {
	Time      time.Time
	Defaulted bool
}

// CanonicalRecord maps canonical field names to typed values. Allowed value
// types are string, int64, decimal.Decimal and DateValue; an absent key is
// the null of this model. Values only enter through the sanitizers.
type CanonicalRecord map[string]any

// Text returns the string value of a field, or "" when absent.
func (r CanonicalRecord) Text(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// TextOr returns the string value of a field, or fallback when absent/blank.
func (r CanonicalRecord) TextOr(field, fallback string) string {
	if v := r.Text(field); v != "" {
		return v
	}
	return fallback
}

// Int returns the integer value of a field and whether it was present.
func (r CanonicalRecord) Int(field string) (int64, bool) {
	v, ok := r[field].(int64)
	return v, ok
}

// IntOrZero returns the integer value of a field, treating null as 0.
func (r CanonicalRecord) IntOrZero(field string) int64 {
	v, _ := r.Int(field)
	return v
}

// Decimal returns the decimal value of a field and whether it was present.
func (r CanonicalRecord) Decimal(field string) (decimal.Decimal, bool) {
	v, ok := r[field].(decimal.Decimal)
	return v, ok
}

// DecimalOrZero returns the decimal value of a field, treating null as 0.
func (r CanonicalRecord) DecimalOrZero(field string) decimal.Decimal {
	v, ok := r.Decimal(field)
	if !ok {
		return decimal.Zero
	}
	return v
}

// Date returns the date value of a field and whether it was present.
func (r CanonicalRecord) Date(field string) (DateValue, bool) {
	v, ok := r[field].(DateValue)
	return v, ok
}

// Has reports whether the field carries a value (i.e. is not null).
func (r CanonicalRecord) Has(field string) bool {
	_, ok := r[field]
	return ok
}
