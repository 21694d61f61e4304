package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"FloraCorpSaas/api/ingestion"
	"FloraCorpSaas/internal/config"
)

// MarginAuditConfig controls the nightly margin reconciliation run.
type MarginAuditConfig struct {
	Schedule string
	TimeZone string
}

// NewDefaultMarginAuditConfig creates a MarginAuditConfig with default values
func NewDefaultMarginAuditConfig() *MarginAuditConfig {
	return &MarginAuditConfig{
		Schedule: config.MarginAuditSchedule,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunMarginAuditScheduler starts the cron job for the nightly margin audit
func RunMarginAuditScheduler(cfg *MarginAuditConfig, db *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.MarginAuditSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := AuditMargins(db); err != nil {
			audit(fmt.Sprintf("Margin audit failed: %v", err))
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule margin audit: %v", err)
	}

	c.Start()
	return nil
}

// AuditMargins recomputes the store-wide margin summary and logs the audit
// trail: totals, the ratio used for projection, how much of the cost side is
// projected, and any low-margin lines that need a human look.
func AuditMargins(db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store := ingestion.NewPgOrderStore(db)
	facts, err := store.LineFacts(ctx)
	if err != nil {
		return fmt.Errorf("margin audit: %w", err)
	}
	if len(facts) == 0 {
		audit("Margin audit: no priced lines in store")
		return nil
	}

	m := ingestion.ImputeMargin(facts)

	ratioNote := ""
	if m.RatioDefaulted {
		ratioNote = " (default, no complete rows)"
	}
	audit(fmt.Sprintf(
		"Margin audit: sale %s cost %s margin %s (%s%%), ratio %s%s, %d rows complete, %d imputed for %s projected cost",
		m.TotalSale.StringFixed(2), m.TotalCost.StringFixed(2), m.Margin.StringFixed(2),
		m.MarginPct.Mul(decimal.NewFromInt(100)).StringFixed(1),
		m.ObservedRatio.StringFixed(4), ratioNote,
		m.CompleteRows, m.ImputedRows, m.ProjectedCost.StringFixed(2)))

	if m.LowMarginLines > 0 {
		audit(fmt.Sprintf("Margin audit: %d lines below %.0f%% margin need review",
			m.LowMarginLines, config.LowMarginAlertRatio*100))
	}
	return nil
}
