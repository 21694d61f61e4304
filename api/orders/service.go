package orders

import (
	"database/sql"

	"FloraCorpSaas/internal/serviceiface"
)

type OrdersService struct {
	config map[string]interface{}
	db     *sql.DB
}

func NewOrdersService(cfg map[string]interface{}, db *sql.DB) serviceiface.Service {
	return &OrdersService{config: cfg, db: db}
}

func (s *OrdersService) Name() string {
	return "orders"
}

func (s *OrdersService) Start() error {
	go StartOrdersService(s.db)
	return nil
}

func (s *OrdersService) Stop() error {
	return nil
}
