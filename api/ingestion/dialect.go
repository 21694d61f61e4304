package ingestion

import "strings"

// FieldType selects the sanitizer applied to every cell of a mapped column.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeInteger FieldType = "integer"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

// ColumnRule binds source columns whose lower-cased name contains one of the
// fragments to a canonical target field. Rules are evaluated in order and the
// first match wins, which is how "precio compra" gets claimed before the
// looser "precio" and "hawb" before "awb".
type ColumnRule struct {
	Target    string
	Type      FieldType
	Fragments []string
}

// Dialect is the full per-source configuration: how to recognize the header
// row, how to map and type its columns, and what to do with the result.
type Dialect struct {
	Name  string
	Sheet string // named sheet to read; "" means the first sheet

	// Signature fragments that must jointly appear in the header row.
	Signature []string
	Rules     []ColumnRule

	KeyField string
	// KeyFallback is consulted when the source has no column for KeyField
	// at all (older archive exports pivot on PO instead of invoice).
	KeyFallback string
	MinKeyLen   int
	// Denylist phrases that disqualify a business-key cell (legend rows,
	// footnotes and repeated column legends masquerading as data).
	Denylist []string

	// Financial dialects must never guess a header position; only a
	// non-financial dialect may fall back to the first non-empty row.
	Financial bool

	// LoadEnabled dialects persist header+detail groups; reconcile-only
	// dialects (the standing-order audit sheet) never touch the store.
	LoadEnabled bool
	// Reconcile dialects feed the margin imputation engine.
	Reconcile bool

	// Historical marks archive loads: headers get Archived status and the
	// is_historical flag.
	Historical bool

	// RequiredDates lists date fields that must carry a value; unparsable
	// cells there default to "today", flagged as defaulted.
	RequiredDates []string

	// DeriveLine runs after a row is mapped and fills derived fields
	// (notably total_line_value) from whatever the dialect provides.
	DeriveLine func(rec CanonicalRecord)

	// LineFact extracts the (sale, cost) pair the margin engine consumes.
	// Nil for dialects that are never reconciled.
	LineFact func(rec CanonicalRecord) (LineFact, bool)
}

// commonDenylist covers legend and footnote phrases observed in the wild in
// the business-key column of noisy exports. Matched case-insensitively as
// substrings.
var commonDenylist = []string{
	"report explanation",
	"explicacion",
	"grand total",
	"subtotal",
	"page ",
	"generated on",
	"legend",
	"nota:",
}

// KometConfirm digests the vendor order-confirmation export ("Confirm POs"):
// a title block and legal footer around a table keyed by PO #.
var KometConfirm = Dialect{
	Name:      "komet",
	Signature: []string{"po #", "vendor", "product"},
	Rules: []ColumnRule{
		// quantity columns first so "qty po" and "total u" are claimed
		// before the bare "po" fragment can see them
		{Target: FieldBoxes, Type: TypeInteger, Fragments: []string{"qty po", "qty"}},
		{Target: FieldTotalUnits, Type: TypeInteger, Fragments: []string{"total u"}},
		{Target: FieldPONumber, Type: TypeText, Fragments: []string{"po #", "po#", "po"}},
		{Target: FieldCustomerCode, Type: TypeText, Fragments: []string{"customer"}},
		{Target: FieldMarkCode, Type: TypeText, Fragments: []string{"mark"}},
		{Target: FieldProductName, Type: TypeText, Fragments: []string{"product"}},
		{Target: FieldBoxType, Type: TypeText, Fragments: []string{"b/t", "uom"}},
		{Target: FieldUnitPrice, Type: TypeDecimal, Fragments: []string{"cost"}},
		{Target: FieldShipDate, Type: TypeDate, Fragments: []string{"ship"}},
		// the export titles its notes column "Notes for the vendor"; the
		// notes rule must run before the vendor rule can swallow it
		{Target: FieldNotes, Type: TypeText, Fragments: []string{"notes"}},
		{Target: FieldVendor, Type: TypeText, Fragments: []string{"vendor"}},
		{Target: FieldOrigin, Type: TypeText, Fragments: []string{"origin"}},
		{Target: FieldStatus, Type: TypeText, Fragments: []string{"status"}},
	},
	KeyField:      FieldPONumber,
	MinKeyLen:     3,
	Denylist:      commonDenylist,
	Financial:     true,
	LoadEnabled:   true,
	RequiredDates: []string{FieldShipDate},
	DeriveLine:    deriveKometLine,
}

// OpbaseArchive digests the historical sales archive (sheet OPBASE): latin
// number formats, dozens of loosely named columns, one row per invoice line.
var OpbaseArchive = Dialect{
	Name:      "opbase",
	Sheet:     "OPBASE",
	Signature: []string{"customer", "code"},
	Rules: []ColumnRule{
		{Target: FieldInvoiceNumber, Type: TypeText, Fragments: []string{"invoice"}},
		{Target: FieldPOConsecutive, Type: TypeText, Fragments: []string{"po# consec", "conseq"}},
		{Target: FieldPONumber, Type: TypeText, Fragments: []string{"po#", "po"}},
		{Target: FieldCashPurchase, Type: TypeDecimal, Fragments: []string{"compra contado"}},
		{Target: FieldCashPayment, Type: TypeDecimal, Fragments: []string{"pago contado"}},
		{Target: FieldPurchasePrice, Type: TypeDecimal, Fragments: []string{"precio compra", "preciocompra"}},
		{Target: FieldSalesPrice, Type: TypeDecimal, Fragments: []string{"precio venta", "precio unt st", "precio"}},
		{Target: FieldSuggestedPrice, Type: TypeDecimal, Fragments: []string{"sugerido"}},
		{Target: FieldTotalSalesValue, Type: TypeDecimal, Fragments: []string{"venta total", "valor t"}},
		{Target: FieldCredits, Type: TypeDecimal, Fragments: []string{"creditos", "credits"}},
		{Target: FieldBunchesPerBox, Type: TypeInteger, Fragments: []string{"qty/box"}},
		{Target: FieldStemsPerBox, Type: TypeInteger, Fragments: []string{"tallos por"}},
		{Target: FieldTotalUnits, Type: TypeInteger, Fragments: []string{"total tallos"}},
		{Target: FieldStemsPerBunch, Type: TypeInteger, Fragments: []string{"tallos"}},
		{Target: FieldBoxes, Type: TypeInteger, Fragments: []string{"quantity", "cajas"}},
		{Target: FieldBoxType, Type: TypeText, Fragments: []string{"uom"}},
		{Target: FieldFarmInvoice, Type: TypeText, Fragments: []string{"fact finca"}},
		{Target: FieldFarmCode, Type: TypeText, Fragments: []string{"finca", "farm"}},
		{Target: FieldCustomerInvCode, Type: TypeText, Fragments: []string{"customer inv"}},
		{Target: FieldCustomerCode, Type: TypeText, Fragments: []string{"customer", "cust"}},
		{Target: FieldFlightDate, Type: TypeDate, Fragments: []string{"fly"}},
		{Target: FieldHAWB, Type: TypeText, Fragments: []string{"hija", "hawb"}},
		{Target: FieldAWB, Type: TypeText, Fragments: []string{"awb"}},
		{Target: FieldProductName, Type: TypeText, Fragments: []string{"descrip", "desc"}},
		{Target: FieldFlowerType, Type: TypeText, Fragments: []string{"flor"}},
		{Target: FieldOrderKind, Type: TypeText, Fragments: []string{"tipo de orden"}},
		{Target: FieldOrderType, Type: TypeText, Fragments: []string{"type"}},
		{Target: FieldStatus, Type: TypeText, Fragments: []string{"status"}},
		{Target: FieldSleeveType, Type: TypeText, Fragments: []string{"sleeve"}},
		{Target: FieldContents, Type: TypeText, Fragments: []string{"contents"}},
		{Target: FieldComments, Type: TypeText, Fragments: []string{"comments"}},
		{Target: FieldSize, Type: TypeText, Fragments: []string{"size"}},
		{Target: FieldUPC, Type: TypeText, Fragments: []string{"upc"}},
		{Target: FieldProductCode, Type: TypeText, Fragments: []string{"code"}},
	},
	KeyField:      FieldInvoiceNumber,
	KeyFallback:   FieldPONumber,
	MinKeyLen:     3,
	Denylist:      commonDenylist,
	Financial:     true,
	LoadEnabled:   true,
	Reconcile:     true,
	Historical:    true,
	RequiredDates: []string{FieldFlightDate},
	DeriveLine:    deriveOpbaseLine,
	LineFact:      opbaseLineFact,
}

// StandingOrder audits the SO sheet of the master workbook. It is read-only
// with respect to the store: the rows feed the margin engine and nothing
// else, which is why this is the one dialect allowed an anchor fallback.
var StandingOrder = Dialect{
	Name:      "so",
	Sheet:     "SO",
	Signature: []string{"po#", "code", "flydate"},
	Rules: []ColumnRule{
		{Target: FieldPONumber, Type: TypeText, Fragments: []string{"po#", "po"}},
		{Target: FieldProductCode, Type: TypeText, Fragments: []string{"code"}},
		{Target: FieldFlightDate, Type: TypeDate, Fragments: []string{"flydate", "fly"}},
		{Target: FieldBunchesPerBox, Type: TypeInteger, Fragments: []string{"qty/box"}},
		{Target: FieldBoxes, Type: TypeInteger, Fragments: []string{"quantity", "qty"}},
		{Target: FieldPurchasePrice, Type: TypeDecimal, Fragments: []string{"precio compra"}},
		{Target: FieldSalesPrice, Type: TypeDecimal, Fragments: []string{"precio"}},
		{Target: FieldStemsPerBunch, Type: TypeInteger, Fragments: []string{"tallos", "stems"}},
		{Target: FieldCustomerCode, Type: TypeText, Fragments: []string{"customer", "cust"}},
	},
	KeyField:   FieldPONumber,
	MinKeyLen:  3,
	Denylist:   commonDenylist,
	Reconcile:  true,
	DeriveLine: deriveStandingOrderLine,
	LineFact:   standingOrderLineFact,
}

var dialects = map[string]Dialect{
	KometConfirm.Name:  KometConfirm,
	OpbaseArchive.Name: OpbaseArchive,
	StandingOrder.Name: StandingOrder,
}

// DialectByName resolves a dialect identifier as supplied by an upload
// request. Lookup is case-insensitive.
func DialectByName(name string) (Dialect, bool) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// DialectNames returns the recognized dialect identifiers.
func DialectNames() []string {
	return []string{KometConfirm.Name, OpbaseArchive.Name, StandingOrder.Name}
}
