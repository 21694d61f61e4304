package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"FloraCorpSaas/internal/config"
)

// PgOrderStore is the Postgres implementation of OrderStore plus the batch
// bookkeeping queries the upload handler and the audit job use.
type PgOrderStore struct {
	pool *pgxpool.Pool
}

func NewPgOrderStore(pool *pgxpool.Pool) *PgOrderStore {
	return &PgOrderStore{pool: pool}
}

// ReplaceOrder upserts the header keyed on its business key, deletes every
// detail row belonging to it and inserts the new detail set, all in one
// transaction. Delete-then-insert is deliberate: a source row has no stable
// identity across re-exports, so only full replacement makes re-uploads
// converge instead of accumulate.
func (s *PgOrderStore) ReplaceOrder(ctx context.Context, h OrderHeader, details []OrderDetail) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", storeErr("begin", err)
	}
	defer tx.Rollback(ctx)

	var orderID string
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO sales_orders
			(po_number, invoice_number, vendor, customer_name, ship_date, flight_date,
			 awb, hawb, origin, status, is_historical, source_file, total_boxes, total_value, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, now())
		ON CONFLICT %s DO UPDATE SET
			po_number      = EXCLUDED.po_number,
			invoice_number = EXCLUDED.invoice_number,
			vendor         = EXCLUDED.vendor,
			customer_name  = EXCLUDED.customer_name,
			ship_date      = EXCLUDED.ship_date,
			flight_date    = EXCLUDED.flight_date,
			awb            = EXCLUDED.awb,
			hawb           = EXCLUDED.hawb,
			origin         = EXCLUDED.origin,
			status         = EXCLUDED.status,
			is_historical  = EXCLUDED.is_historical,
			source_file    = EXCLUDED.source_file,
			total_boxes    = EXCLUDED.total_boxes,
			total_value    = EXCLUDED.total_value,
			updated_at     = now()
		RETURNING order_id::text`, upsertConflict(h)),
		h.PONumber, nilIfEmpty(h.InvoiceNumber), h.Vendor, h.CustomerName,
		nilIfZeroTime(h.ShipDate), nilIfZeroTime(h.FlightDate),
		nilIfEmpty(h.AWB), nilIfEmpty(h.HAWB), h.Origin, h.Status,
		h.IsHistorical, h.SourceFile, h.TotalBoxes, h.TotalValue.StringFixed(2),
	).Scan(&orderID)
	if err != nil {
		return "", storeErr("upsert header", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sales_order_items WHERE order_id = $1::uuid`, orderID); err != nil {
		return "", storeErr("delete details", err)
	}

	for start := 0; start < len(details); start += config.DetailBatchSize {
		end := start + config.DetailBatchSize
		if end > len(details) {
			end = len(details)
		}
		if err := insertDetailBatch(ctx, tx, orderID, details[start:end]); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", storeErr("commit", err)
	}
	return orderID, nil
}

// upsertConflict picks the conflict target matching the header's business
// key. Archive exports reuse one PO value across several invoices, so a
// historical header is unique per invoice_number and a live order per
// po_number; sales_orders carries the two partial unique indexes
// (invoice_number WHERE is_historical, po_number WHERE NOT is_historical)
// these clauses infer.
func upsertConflict(h OrderHeader) string {
	if h.IsHistorical {
		return "(invoice_number) WHERE is_historical"
	}
	return "(po_number) WHERE NOT is_historical"
}

func insertDetailBatch(ctx context.Context, tx pgx.Tx, orderID string, details []OrderDetail) error {
	batch := &pgx.Batch{}
	const q = `
		INSERT INTO sales_order_items
			(order_id, customer_code, mark_code, product_code, product_name,
			 flower_type, variety, color, grade, box_type,
			 boxes, bunches_per_box, stems_per_bunch, total_units,
			 unit_price, sales_price, purchase_price, total_line_value,
			 awb, hawb, notes)
		VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	for _, d := range details {
		rec := d.Fields
		batch.Queue(q, orderID,
			textOrNil(rec, FieldCustomerCode), textOrNil(rec, FieldMarkCode),
			textOrNil(rec, FieldProductCode), textOrNil(rec, FieldProductName),
			textOrNil(rec, FieldFlowerType), textOrNil(rec, FieldVariety),
			textOrNil(rec, FieldColor), textOrNil(rec, FieldGrade),
			textOrNil(rec, FieldBoxType),
			intOrNil(rec, FieldBoxes), intOrNil(rec, FieldBunchesPerBox),
			intOrNil(rec, FieldStemsPerBunch), intOrNil(rec, FieldTotalUnits),
			decOrNil(rec, FieldUnitPrice), decOrNil(rec, FieldSalesPrice),
			decOrNil(rec, FieldPurchasePrice), decOrNil(rec, FieldTotalLineValue),
			textOrNil(rec, FieldAWB), textOrNil(rec, FieldHAWB),
			textOrNil(rec, FieldNotes),
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := range details {
		if _, err := br.Exec(); err != nil {
			return storeErr(fmt.Sprintf("insert detail %d", i+1), err)
		}
	}
	return nil
}

// BatchRecord tracks one ingestion run for idempotent re-upload detection.
type BatchRecord struct {
	BatchID        uuid.UUID
	Dialect        string
	SourceFile     string
	FileHash       string
	GroupsFound    int
	HeadersWritten int
	DetailsWritten int
	RowsRejected   int
}

// FindBatchByHash returns the batch id of a previously completed upload of
// the same file content, if any.
func (s *PgOrderStore) FindBatchByHash(ctx context.Context, fileHash string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT batch_id FROM ingestion_batches
		WHERE file_hash = $1
		ORDER BY created_at DESC LIMIT 1`, fileHash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, storeErr("select batch", err)
	}
	return id, true, nil
}

// RecordBatch persists the outcome of one ingestion run.
func (s *PgOrderStore) RecordBatch(ctx context.Context, b BatchRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingestion_batches
			(batch_id, dialect, source_file, file_hash, groups_found,
			 headers_written, details_written, rows_rejected, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())`,
		b.BatchID, b.Dialect, b.SourceFile, nilIfEmpty(b.FileHash),
		b.GroupsFound, b.HeadersWritten, b.DetailsWritten, b.RowsRejected)
	if err != nil {
		return storeErr("record batch", err)
	}
	return nil
}

// LineFacts reads the financial view of every stored detail row for the
// store-wide margin report. Read-only; the engine recomputes everything.
func (s *PgOrderStore) LineFacts(ctx context.Context) ([]LineFact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT total_line_value, purchase_price, total_units
		FROM sales_order_items
		WHERE total_line_value IS NOT NULL AND total_line_value > 0`)
	if err != nil {
		return nil, storeErr("select line facts", err)
	}
	defer rows.Close()

	var facts []LineFact
	for rows.Next() {
		var sale float64
		var purchase *float64
		var units *int64
		if err := rows.Scan(&sale, &purchase, &units); err != nil {
			return nil, storeErr("scan line fact", err)
		}
		f := LineFact{Sale: decimal.NewFromFloat(sale)}
		if purchase != nil && units != nil {
			c := decimal.NewFromFloat(*purchase).Mul(decimal.NewFromInt(*units)).Round(2)
			if c.IsPositive() {
				f.Cost = c
				f.HasCost = true
			}
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate line facts", err)
	}
	return facts, nil
}

// storeErr separates per-group database errors (constraint violations and
// friends, reported by the server as PgError) from connectivity loss, which
// wraps ErrStoreUnavailable and aborts the whole run.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (SQLSTATE %s)", op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfZeroTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func textOrNil(rec CanonicalRecord, field string) any {
	if v, ok := rec[field].(string); ok {
		return v
	}
	return nil
}

func intOrNil(rec CanonicalRecord, field string) any {
	if v, ok := rec.Int(field); ok {
		return v
	}
	return nil
}

func decOrNil(rec CanonicalRecord, field string) any {
	if v, ok := rec.Decimal(field); ok {
		return v.InexactFloat64()
	}
	return nil
}
