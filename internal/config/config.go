package config

const (
	DefaultTimeZone = "America/Bogota"

	// DetailBatchSize caps how many detail rows go into one pgx batch.
	DetailBatchSize = 1000

	// DefaultMarginRatio is the conservative margin assumed when a report
	// has no complete (sale and cost) rows to measure one from.
	DefaultMarginRatio = 0.20

	// LowMarginAlertRatio is the per-line margin fraction below which a
	// line is flagged in the reconciliation summary.
	LowMarginAlertRatio = 0.10

	// ClassifyLimitPerRun caps calls to the text-classification service
	// during a single ingestion so a big archive can't burn the quota.
	ClassifyLimitPerRun = 15

	// MarginAuditSchedule is the default cron spec for the nightly margin
	// reconciliation job.
	MarginAuditSchedule = "0 6 * * *"
)
