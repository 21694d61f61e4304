package orders

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"FloraCorpSaas/api"
	"FloraCorpSaas/api/constants"
	"FloraCorpSaas/api/utils"
)

// StartOrdersService runs the order board endpoints on :4143.
func StartOrdersService(db *sql.DB) {
	router := mux.NewRouter()
	router.HandleFunc("/orders/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Orders Service is active"))
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

		router.HandleFunc("/orders/pending", GetPendingBoard(pgxPool)).Methods("GET")
		router.HandleFunc("/orders/batches", GetRecentBatches(pgxPool)).Methods("GET")
		router.HandleFunc("/orders/by-po/{po}", GetOrderByPO(pgxPool)).Methods("GET")
	} else {
		log.Println("[ORDERS] DB env incomplete; order endpoints disabled")
	}

	log.Println("Orders Service started on :4143")
	if err := http.ListenAndServe(":4143", router); err != nil {
		log.Fatalf("Orders Service failed: %v", err)
	}
}

// GetPendingBoard lists confirmed, not-yet-invoiced orders grouped per
// customer: the daily follow-up board.
func GetPendingBoard(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pgxPool.Query(r.Context(), `
			SELECT customer_name,
			       COUNT(*)                     AS orders,
			       COALESCE(SUM(total_boxes),0) AS boxes,
			       COALESCE(SUM(total_value),0) AS value,
			       MIN(ship_date)               AS oldest_ship
			FROM sales_orders
			WHERE status = $1 AND invoice_number IS NULL
			GROUP BY customer_name
			ORDER BY oldest_ship NULLS LAST, customer_name`, constants.StatusConfirmed)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		board := make([]map[string]interface{}, 0)
		for rows.Next() {
			var customer string
			var orders, boxes int64
			var value float64
			var oldest *time.Time
			if err := rows.Scan(&customer, &orders, &boxes, &value, &oldest); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			entry := map[string]interface{}{
				"customer_name": customer,
				"orders":        orders,
				"total_boxes":   boxes,
				"total_value":   value,
			}
			if oldest != nil {
				entry["oldest_ship_date"] = oldest.Format(constants.DateFormat)
			}
			board = append(board, entry)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", board)
	}
}

// GetRecentBatches lists ingestion runs, most recent first, paginated via
// page/limit query params.
func GetRecentBatches(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pagination, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		total, err := utils.CountTotal(r.Context(), pgxPool, `SELECT COUNT(*) FROM ingestion_batches`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		pagination.SetPaginationStats(total)

		rows, err := pgxPool.Query(r.Context(), `
			SELECT batch_id::text, dialect, source_file, groups_found,
			       headers_written, details_written, rows_rejected, created_at
			FROM ingestion_batches
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`, pagination.Limit, pagination.Offset)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		batches := make([]map[string]interface{}, 0)
		for rows.Next() {
			var id, dialect, sourceFile string
			var groups, headers, details, rejected int64
			var createdAt time.Time
			if err := rows.Scan(&id, &dialect, &sourceFile, &groups, &headers, &details, &rejected, &createdAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			batches = append(batches, map[string]interface{}{
				"batch_id":        id,
				"dialect":         dialect,
				"source_file":     sourceFile,
				"groups_found":    groups,
				"headers_written": headers,
				"details_written": details,
				"rows_rejected":   rejected,
				"created_at":      createdAt.Format(constants.DateTimeFormat),
			})
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"batches":    batches,
			"pagination": pagination,
		})
	}
}

// GetOrderByPO returns one order header with its detail lines.
func GetOrderByPO(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		po := mux.Vars(r)["po"]

		var header map[string]interface{}
		var orderID string
		{
			var invoice, vendor, customer, status *string
			var shipDate *time.Time
			var boxes int64
			var value float64
			var historical bool
			// po_number is only unique among live orders; archive rows can
			// share one PO across invoices
			err := pgxPool.QueryRow(r.Context(), `
				SELECT order_id::text, invoice_number, vendor, customer_name,
				       ship_date, status, is_historical, total_boxes, total_value
				FROM sales_orders
				WHERE po_number = $1 AND NOT is_historical`, po).
				Scan(&orderID, &invoice, &vendor, &customer, &shipDate, &status, &historical, &boxes, &value)
			if err != nil {
				api.RespondWithError(w, http.StatusNotFound, "order not found")
				return
			}
			header = map[string]interface{}{
				"order_id":      orderID,
				"po_number":     po,
				"is_historical": historical,
				"total_boxes":   boxes,
				"total_value":   value,
			}
			if invoice != nil {
				header["invoice_number"] = *invoice
			}
			if vendor != nil {
				header["vendor"] = *vendor
			}
			if customer != nil {
				header["customer_name"] = *customer
			}
			if status != nil {
				header["status"] = *status
			}
			if shipDate != nil {
				header["ship_date"] = shipDate.Format(constants.DateFormat)
			}
		}

		rows, err := pgxPool.Query(r.Context(), `
			SELECT product_name, flower_type, boxes, total_units,
			       sales_price, purchase_price, total_line_value
			FROM sales_order_items
			WHERE order_id = $1::uuid`, orderID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		details := make([]map[string]interface{}, 0)
		for rows.Next() {
			var product, flower *string
			var boxes, units *int64
			var salesPrice, purchasePrice, lineValue *float64
			if err := rows.Scan(&product, &flower, &boxes, &units, &salesPrice, &purchasePrice, &lineValue); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			line := map[string]interface{}{}
			if product != nil {
				line["product_name"] = *product
			}
			if flower != nil {
				line["flower_type"] = *flower
			}
			if boxes != nil {
				line["boxes"] = *boxes
			}
			if units != nil {
				line["total_units"] = *units
			}
			if salesPrice != nil {
				line["sales_price"] = *salesPrice
			}
			if purchasePrice != nil {
				line["purchase_price"] = *purchasePrice
			}
			if lineValue != nil {
				line["total_line_value"] = *lineValue
			}
			details = append(details, line)
		}
		if err := rows.Err(); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}

		header["details"] = details
		api.RespondWithPayload(w, true, "", header)
	}
}
