package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"

	"FloraCorpSaas/internal/logger"
	"FloraCorpSaas/pkg/loadbalancer"
)

// createReverseProxy returns a reverse proxy handler that rotates across the
// backend targets per request
func createReverseProxy(lb *loadbalancer.LoadBalancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logr := logger.GlobalLogger
		target := lb.GetNextServer()

		clientIP := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP = xff
		}

		msg := fmt.Sprintf("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, clientIP)
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}

		url, err := url.Parse(target)
		if err != nil {
			msg := fmt.Sprintf("[Gateway][ERROR] Proxy error: bad target URL %s for %s", target, r.URL.Path)
			if logr != nil {
				logr.LogAudit(msg)
			} else {
				log.Println(msg)
			}
			http.Error(w, "Bad target URL", http.StatusInternalServerError)
			return
		}
		proxy := httputil.NewSingleHostReverseProxy(url)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			msg = fmt.Sprintf("[Gateway][ERROR] Proxied to %s for %s, status %d, error: %s", target, r.URL.Path, rw.statusCode, rw.body.String())
		} else {
			msg = fmt.Sprintf("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
		}
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// backendsFor builds the rotation set for a route from a comma-separated env
// var, defaulting to the single local service port.
func backendsFor(envVar, fallback string) *loadbalancer.LoadBalancer {
	targets := []string{fallback}
	if v := os.Getenv(envVar); v != "" {
		targets = targets[:0]
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			targets = []string{fallback}
		}
	}
	return loadbalancer.NewLoadBalancer(targets)
}

// StartGateway starts the API gateway server
func StartGateway() {
	mux := http.NewServeMux()

	mux.HandleFunc("/ingestion/", createReverseProxy(backendsFor("INGESTION_BACKENDS", "http://localhost:3143")))
	mux.HandleFunc("/orders/", createReverseProxy(backendsFor("ORDERS_BACKENDS", "http://localhost:4143")))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logr := logger.GlobalLogger
		msg := "[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)"
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})

	log.Println("API Gateway started on :8081")
	err := http.ListenAndServe(":8081", mux)
	if err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
