package ingestion

import (
	"time"

	"github.com/shopspring/decimal"

	"FloraCorpSaas/api/constants"
)

// OrderHeader is the one-per-business-key record. Its aggregates are always
// computed from the group, never copied from any single row, and together
// with the details they are replaced as a unit on re-ingestion.
type OrderHeader struct {
	PONumber      string
	InvoiceNumber string
	Vendor        string
	CustomerName  string
	ShipDate      time.Time
	ShipDefaulted bool
	FlightDate    time.Time
	AWB           string
	HAWB          string
	Origin        string
	Status        string
	IsHistorical  bool
	SourceFile    string
	TotalBoxes    int64
	TotalValue    decimal.Decimal
}

// OrderDetail is one source row, owned by exactly one header.
type OrderDetail struct {
	BusinessKey string
	Fields      CanonicalRecord
}

// OrderGroup pairs a header with the details it owns.
type OrderGroup struct {
	Header  OrderHeader
	Details []OrderDetail
}

// GroupOrders groups canonical records by business key, preserving
// first-seen order. Shared header fields come from the first record of each
// group (the dialects repeat them identically on every line); the aggregates
// are summed over the whole group. A group whose every row failed numeric
// sanitization still yields a header with zero totals: a visibly empty
// record beats silent loss.
func GroupOrders(records []CanonicalRecord, d Dialect, sourceFile string) []OrderGroup {
	keyField := groupKeyField(records, d)

	index := make(map[string]int)
	var groups []OrderGroup
	for _, rec := range records {
		key := rec.Text(keyField)
		if key == "" {
			continue // mapper already rejected these; belt and braces
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, OrderGroup{Header: newHeader(key, rec, d, sourceFile)})
		}
		g := &groups[i]
		g.Header.TotalBoxes += rec.IntOrZero(FieldBoxes)
		g.Header.TotalValue = g.Header.TotalValue.Add(rec.DecimalOrZero(FieldTotalLineValue))
		g.Details = append(g.Details, OrderDetail{BusinessKey: key, Fields: rec})
	}
	return groups
}

// groupKeyField mirrors the mapper's key fallback: when no record carries
// the primary key field the dialect's fallback key is in play.
func groupKeyField(records []CanonicalRecord, d Dialect) string {
	for _, rec := range records {
		if rec.Has(d.KeyField) {
			return d.KeyField
		}
	}
	if d.KeyFallback != "" {
		return d.KeyFallback
	}
	return d.KeyField
}

func newHeader(key string, first CanonicalRecord, d Dialect, sourceFile string) OrderHeader {
	h := OrderHeader{
		SourceFile:   sourceFile,
		IsHistorical: d.Historical,
		Origin:       first.TextOr(FieldOrigin, constants.DefaultOrigin),
	}

	if d.Historical {
		h.InvoiceNumber = key
		h.PONumber = first.TextOr(FieldPONumber, key)
		h.Status = constants.StatusArchived
		h.Vendor = first.TextOr(FieldFarmCode, "VARIOUS")
		h.CustomerName = first.TextOr(FieldCustomerCode, "UNKNOWN")
	} else {
		h.PONumber = key
		h.InvoiceNumber = first.Text(FieldInvoiceNumber)
		h.Status = first.TextOr(FieldStatus, constants.StatusConfirmed)
		h.Vendor = first.Text(FieldVendor)
		h.CustomerName = first.Text(FieldCustomerCode)
	}

	h.AWB = first.Text(FieldAWB)
	h.HAWB = first.Text(FieldHAWB)

	if dv, ok := first.Date(FieldShipDate); ok {
		h.ShipDate = dv.Time
		h.ShipDefaulted = dv.Defaulted
	}
	if dv, ok := first.Date(FieldFlightDate); ok {
		h.FlightDate = dv.Time
		if h.ShipDate.IsZero() {
			// archive sheets only track the flight date
			h.ShipDate = dv.Time
			h.ShipDefaulted = dv.Defaulted
		}
	}
	return h
}
