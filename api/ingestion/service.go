package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"FloraCorpSaas/internal/serviceiface"
)

type IngestionService struct {
	config map[string]interface{}
	db     *sql.DB
}

func NewIngestionService(cfg map[string]interface{}, db *sql.DB) serviceiface.Service {
	return &IngestionService{config: cfg, db: db}
}

func (s *IngestionService) Name() string {
	return "ingestion"
}

func (s *IngestionService) Start() error {
	go StartIngestionService(s.db)
	return nil
}

func (s *IngestionService) Stop() error {
	return nil
}

// StartIngestionService runs the upload and reporting endpoints on :3143.
func StartIngestionService(db *sql.DB) {
	router := mux.NewRouter()
	router.HandleFunc("/ingestion/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ingestion Service is active"))
	}).Methods("GET")

	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if user != "" && pass != "" && host != "" && port != "" && name != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)

		pgxPool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			log.Fatalf("failed to connect to pgxpool DB: %v", err)
		}

		store := NewPgOrderStore(pgxPool)
		pipeline := &Pipeline{
			Reader:     FileGridReader{},
			Store:      store,
			Batches:    store,
			Classifier: classifierOrNil(NewOpenAIClassifier(os.Getenv("OPENAI_API_KEY"))),
		}

		router.HandleFunc("/ingestion/upload", UploadHandler(pipeline)).Methods("POST")
		router.HandleFunc("/ingestion/margin-report", MarginReportHandler(store)).Methods("GET")
		router.HandleFunc("/ingestion/dialects", DialectsHandler()).Methods("GET")
	} else {
		log.Println("[INGEST] DB env incomplete; ingestion endpoints disabled")
	}

	log.Println("Ingestion Service started on :3143")
	if err := http.ListenAndServe(":3143", router); err != nil {
		log.Fatalf("Ingestion Service failed: %v", err)
	}
}

// classifierOrNil keeps a typed nil *OpenAIClassifier from sneaking into the
// Classifier interface field as a non-nil value.
func classifierOrNil(c *OpenAIClassifier) Classifier {
	if c == nil {
		return nil
	}
	return c
}
