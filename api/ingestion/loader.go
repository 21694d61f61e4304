package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrStoreUnavailable distinguishes connectivity loss from per-group
// constraint trouble. Connectivity kills the whole run; a constraint
// violation stays scoped to its group.
var ErrStoreUnavailable = errors.New("order store unavailable")

// OrderStore is the persistence contract the loader depends on.
// ReplaceOrder must upsert the header on its business key, fully replace
// that header's detail set and return the persisted header id — all within
// one transaction so another run touching the same key never observes a
// half-replaced order. Detail rows have no stable identity across
// re-exports, so full replacement is the only strategy that converges to
// the latest upload.
type OrderStore interface {
	ReplaceOrder(ctx context.Context, header OrderHeader, details []OrderDetail) (string, error)
}

// FailedKey records why one business key's group could not be loaded.
type FailedKey struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// LoadSummary aggregates per-group outcomes of one batch.
type LoadSummary struct {
	HeadersWritten int
	DetailsWritten int
	FailedKeys     []FailedKey
}

// LoadGroups persists every group independently: one group failing must not
// take its siblings down. Only a store-unavailable error aborts the batch,
// and then the summary still reports whatever was flushed before the cut.
func LoadGroups(ctx context.Context, store OrderStore, groups []OrderGroup) (LoadSummary, error) {
	var sum LoadSummary
	for _, g := range groups {
		key := groupKey(g.Header)
		if _, err := store.ReplaceOrder(ctx, g.Header, g.Details); err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				sum.FailedKeys = append(sum.FailedKeys, FailedKey{Key: key, Reason: err.Error()})
				return sum, fmt.Errorf("load aborted at key %s: %w", key, err)
			}
			log.Printf("[INGEST] group %s failed: %v", key, err)
			sum.FailedKeys = append(sum.FailedKeys, FailedKey{Key: key, Reason: err.Error()})
			continue
		}
		sum.HeadersWritten++
		sum.DetailsWritten += len(g.Details)
	}
	return sum, nil
}

func groupKey(h OrderHeader) string {
	if h.IsHistorical && h.InvoiceNumber != "" {
		return h.InvoiceNumber
	}
	return h.PONumber
}
