package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeStore records ReplaceOrder calls and fails the keys it is told to.
type fakeStore struct {
	calls       []string
	failKeys    map[string]error
	unavailable bool
}

func (f *fakeStore) ReplaceOrder(ctx context.Context, h OrderHeader, details []OrderDetail) (string, error) {
	key := h.PONumber
	if h.IsHistorical && h.InvoiceNumber != "" {
		key = h.InvoiceNumber
	}
	f.calls = append(f.calls, key)
	if f.unavailable {
		return "", fmt.Errorf("dial tcp: %w", ErrStoreUnavailable)
	}
	if err, ok := f.failKeys[key]; ok {
		return "", err
	}
	return "id-" + key, nil
}

func group(po string, details int) OrderGroup {
	g := OrderGroup{Header: OrderHeader{PONumber: po}}
	for i := 0; i < details; i++ {
		g.Details = append(g.Details, OrderDetail{BusinessKey: po})
	}
	return g
}

func TestLoadGroupsAllSucceed(t *testing.T) {
	store := &fakeStore{}
	sum, err := LoadGroups(context.Background(), store, []OrderGroup{
		group("PO-1", 2), group("PO-2", 3),
	})
	if err != nil {
		t.Fatalf("LoadGroups: %v", err)
	}
	if sum.HeadersWritten != 2 || sum.DetailsWritten != 5 {
		t.Errorf("summary = %+v, want 2 headers 5 details", sum)
	}
	if len(sum.FailedKeys) != 0 {
		t.Errorf("FailedKeys = %v, want none", sum.FailedKeys)
	}
}

func TestLoadGroupsIsolatesFailures(t *testing.T) {
	store := &fakeStore{failKeys: map[string]error{
		"PO-2": errors.New("value too long for column vendor"),
	}}
	sum, err := LoadGroups(context.Background(), store, []OrderGroup{
		group("PO-1", 1), group("PO-2", 1), group("PO-3", 1),
	})
	if err != nil {
		t.Fatalf("a constraint failure must not abort the batch: %v", err)
	}
	if sum.HeadersWritten != 2 {
		t.Errorf("HeadersWritten = %d, want 2", sum.HeadersWritten)
	}
	if len(sum.FailedKeys) != 1 || sum.FailedKeys[0].Key != "PO-2" {
		t.Fatalf("FailedKeys = %v, want exactly PO-2", sum.FailedKeys)
	}
	if len(store.calls) != 3 {
		t.Errorf("calls = %v, every group must still be attempted", store.calls)
	}
}

func TestLoadGroupsAbortsWhenStoreUnavailable(t *testing.T) {
	store := &fakeStore{unavailable: true}
	sum, err := LoadGroups(context.Background(), store, []OrderGroup{
		group("PO-1", 1), group("PO-2", 1),
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if len(store.calls) != 1 {
		t.Errorf("calls = %v, connectivity loss must stop the run", store.calls)
	}
	if len(sum.FailedKeys) != 1 {
		t.Errorf("FailedKeys = %v, the aborting key must be reported", sum.FailedKeys)
	}
}

func TestLoadGroupsHistoricalKey(t *testing.T) {
	store := &fakeStore{}
	g := OrderGroup{Header: OrderHeader{PONumber: "PO-8001", InvoiceNumber: "INV-7001", IsHistorical: true}}
	if _, err := LoadGroups(context.Background(), store, []OrderGroup{g}); err != nil {
		t.Fatalf("LoadGroups: %v", err)
	}
	if store.calls[0] != "INV-7001" {
		t.Errorf("key = %q, want the invoice number", store.calls[0])
	}
}
