package ingestion

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"FloraCorpSaas/internal/config"
)

// BatchStore is the bookkeeping side of the store: it remembers which file
// contents were already ingested and records the outcome of each run.
type BatchStore interface {
	FindBatchByHash(ctx context.Context, fileHash string) (uuid.UUID, bool, error)
	RecordBatch(ctx context.Context, b BatchRecord) error
}

// Pipeline wires the stages of one ingestion run: read the grid, find the
// anchor, map and sanitize rows, optionally enrich and reconcile, then load
// groups. Every collaborator except Reader may be nil; a nil Store turns the
// run into a dry parse.
type Pipeline struct {
	Reader     GridReader
	Store      OrderStore
	Batches    BatchStore
	Classifier Classifier

	// Now supplies the default for required dates; nil means time.Now.
	Now func() time.Time
	// ClassifyLimit caps enrichment calls per run; 0 means the configured
	// default, negative disables enrichment.
	ClassifyLimit int
}

// Ingest runs one file through the pipeline under the named dialect and
// returns the full report. The report is non-nil whenever parsing got far
// enough to say anything, even when err is set.
func (p *Pipeline) Ingest(ctx context.Context, path, dialectName string) (*IngestionReport, error) {
	d, ok := DialectByName(dialectName)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (want one of %v)", dialectName, DialectNames())
	}

	report := &IngestionReport{
		BatchID:    uuid.New(),
		Dialect:    d.Name,
		SourceFile: filepath.Base(path),
	}

	if hash, err := FileSHA256(path); err == nil {
		report.FileHash = hash
	}
	if p.Batches != nil && report.FileHash != "" {
		if prior, found, err := p.Batches.FindBatchByHash(ctx, report.FileHash); err != nil {
			return report, err
		} else if found {
			report.BatchID = prior
			report.AlreadyIngested = true
			return report, nil
		}
	}

	grid, err := p.Reader.ReadGrid(path, d.Sheet)
	if err != nil {
		return report, err
	}

	var anchor int
	if d.Financial {
		anchor, err = LocateAnchor(grid, d.Signature)
	} else {
		anchor, report.AnchorGuessed, err = LocateAnchorOrFirstRow(grid, d.Signature)
	}
	if err != nil {
		return report, err
	}
	report.AnchorRow = anchor

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	records, stats, err := MapColumns(grid, anchor, d, now())
	if err != nil {
		return report, err
	}
	report.RowsRetained = stats.RowsRetained
	report.RowsRejected = stats.RowsRejected
	report.DatesDefaulted = stats.DatesDefault
	if len(stats.FieldFailures) > 0 {
		report.FieldFailures = stats.FieldFailures
	}

	report.EnrichedRows = p.enrich(ctx, records)

	if d.Reconcile {
		if facts := BuildLineFacts(records, d); len(facts) > 0 {
			m := ImputeMargin(facts)
			report.Margin = &m
		}
	}

	if d.LoadEnabled && p.Store != nil {
		groups := GroupOrders(records, d, report.SourceFile)
		report.GroupsFound = len(groups)
		sum, loadErr := LoadGroups(ctx, p.Store, groups)
		report.HeadersWritten = sum.HeadersWritten
		report.DetailsWritten = sum.DetailsWritten
		report.FailedKeys = sum.FailedKeys
		if loadErr != nil {
			return report, loadErr
		}
	}

	if p.Batches != nil {
		if err := p.Batches.RecordBatch(ctx, BatchRecord{
			BatchID:        report.BatchID,
			Dialect:        report.Dialect,
			SourceFile:     report.SourceFile,
			FileHash:       report.FileHash,
			GroupsFound:    report.GroupsFound,
			HeadersWritten: report.HeadersWritten,
			DetailsWritten: report.DetailsWritten,
			RowsRejected:   report.RowsRejected,
		}); err != nil {
			log.Printf("[INGEST] batch %s not recorded: %v", report.BatchID, err)
		}
	}

	log.Printf("[INGEST] %s", report.Summary())
	return report, nil
}

// enrich classifies the descriptions of rows missing a flower type, up to
// the per-run cap. Classification failures null nothing and stop nothing.
func (p *Pipeline) enrich(ctx context.Context, records []CanonicalRecord) int {
	if p.Classifier == nil || p.ClassifyLimit < 0 {
		return 0
	}
	limit := p.ClassifyLimit
	if limit == 0 {
		limit = config.ClassifyLimitPerRun
	}

	enriched := 0
	for _, rec := range records {
		if enriched >= limit {
			break
		}
		if rec.Has(FieldFlowerType) {
			continue
		}
		desc := rec.Text(FieldProductName)
		if desc == "" {
			continue
		}
		fc, err := p.Classifier.Classify(ctx, desc)
		if err != nil {
			log.Printf("[INGEST] enrichment skipped for %q: %v", desc, err)
			continue
		}
		if fc.FlowerType == "" {
			continue
		}
		rec[FieldFlowerType] = fc.FlowerType
		if fc.Variety != "" && !rec.Has(FieldVariety) {
			rec[FieldVariety] = fc.Variety
		}
		if fc.Color != "" && !rec.Has(FieldColor) {
			rec[FieldColor] = fc.Color
		}
		enriched++
	}
	return enriched
}
