package jobs

import (
	"fmt"
	"log"

	"FloraCorpSaas/internal/logger"
	"FloraCorpSaas/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	auditConfig := NewDefaultMarginAuditConfig()

	// Override schedule from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["margin_audit_schedule"].(string); ok && schedule != "" {
			auditConfig.Schedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			auditConfig.TimeZone = tz
		}
	}

	if err := RunMarginAuditScheduler(auditConfig, s.db); err != nil {
		return fmt.Errorf("failed to start margin audit scheduler: %v", err)
	}

	audit("Margin audit scheduler started")
	log.Println("Cron service started — Margin Audit scheduled")

	return nil
}

func (s *CronService) Stop() error {
	log.Println("Cron service stopped.")
	return nil
}

// audit logs through the global logger when it is up, stdout otherwise.
func audit(msg string) {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
		return
	}
	log.Println(msg)
}
