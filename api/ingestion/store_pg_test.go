package ingestion

import "testing"

func TestUpsertConflictKeyPerOrderKind(t *testing.T) {
	live := OrderHeader{PONumber: "PO-1001"}
	if got := upsertConflict(live); got != "(po_number) WHERE NOT is_historical" {
		t.Errorf("live conflict target = %q", got)
	}
	hist := OrderHeader{PONumber: "P-100", InvoiceNumber: "INV-1", IsHistorical: true}
	if got := upsertConflict(hist); got != "(invoice_number) WHERE is_historical" {
		t.Errorf("historical conflict target = %q", got)
	}
}

func TestHistoricalGroupsSharingPOStayDistinct(t *testing.T) {
	// archive exports reuse one PO across invoices; two invoices on the same
	// PO are two orders and the second must never overwrite the first
	records := []CanonicalRecord{
		{FieldInvoiceNumber: "INV-1", FieldPONumber: "P-100", FieldBoxes: int64(1)},
		{FieldInvoiceNumber: "INV-2", FieldPONumber: "P-100", FieldBoxes: int64(2)},
	}
	groups := GroupOrders(records, OpbaseArchive, "opbase.xls")
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}

	a, b := groups[0].Header, groups[1].Header
	if a.PONumber != "P-100" || b.PONumber != "P-100" {
		t.Errorf("PO numbers = %q/%q, the shared PO must be preserved on both", a.PONumber, b.PONumber)
	}
	if groupKey(a) == groupKey(b) {
		t.Fatalf("both groups resolve to store key %q despite distinct invoices", groupKey(a))
	}
	if upsertConflict(a) != "(invoice_number) WHERE is_historical" {
		t.Errorf("historical upsert must conflict on the invoice, got %q", upsertConflict(a))
	}
}
