package ingestion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IngestionReport is everything one upload run discloses: where the table
// was found, what was kept, rejected, enriched, written and projected. It is
// the payload behind the upload endpoint and the ingestion log line.
type IngestionReport struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Dialect    string    `json:"dialect"`
	SourceFile string    `json:"source_file"`
	FileHash   string    `json:"file_hash,omitempty"`

	// AlreadyIngested short-circuits re-uploads of byte-identical files;
	// BatchID then names the earlier run.
	AlreadyIngested bool `json:"already_ingested,omitempty"`

	AnchorRow int `json:"anchor_row"`
	// AnchorGuessed is set when a non-financial dialect fell back to the
	// first non-empty row because the signature never matched.
	AnchorGuessed bool `json:"anchor_guessed,omitempty"`

	RowsRetained   int            `json:"rows_retained"`
	RowsRejected   int            `json:"rows_rejected"`
	FieldFailures  map[string]int `json:"field_failures,omitempty"`
	DatesDefaulted int            `json:"dates_defaulted,omitempty"`
	EnrichedRows   int            `json:"enriched_rows,omitempty"`

	GroupsFound    int         `json:"groups_found"`
	HeadersWritten int         `json:"headers_written"`
	DetailsWritten int         `json:"details_written"`
	FailedKeys     []FailedKey `json:"failed_keys,omitempty"`

	Margin *MarginSummary `json:"margin,omitempty"`
}

// Summary renders the one-line human digest that goes to the log.
func (r *IngestionReport) Summary() string {
	if r.AlreadyIngested {
		return fmt.Sprintf("%s: file already ingested as batch %s", r.Dialect, r.BatchID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d groups, %d headers, %d details written; %d rows kept, %d rejected",
		r.Dialect, r.GroupsFound, r.HeadersWritten, r.DetailsWritten, r.RowsRetained, r.RowsRejected)
	if len(r.FailedKeys) > 0 {
		fmt.Fprintf(&b, "; %d groups failed", len(r.FailedKeys))
	}
	if r.DatesDefaulted > 0 {
		fmt.Fprintf(&b, "; %d dates defaulted", r.DatesDefaulted)
	}
	if r.EnrichedRows > 0 {
		fmt.Fprintf(&b, "; %d rows enriched", r.EnrichedRows)
	}
	if r.Margin != nil {
		fmt.Fprintf(&b, "; margin %s (%d of %d rows imputed",
			r.Margin.Margin.StringFixed(2), r.Margin.ImputedRows,
			r.Margin.ImputedRows+r.Margin.CompleteRows)
		if r.Margin.RatioDefaulted {
			b.WriteString(", default ratio")
		}
		b.WriteString(")")
	}
	return b.String()
}
