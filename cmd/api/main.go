// cmd/api/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	http_api "lead-enrichment-worker/internal/api/http"
	"lead-enrichment-worker/internal/config"
	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/infra/etcd"
	"lead-enrichment-worker/internal/infra/memory"
	"lead-enrichment-worker/internal/infra/zeebe"
	"lead-enrichment-worker/internal/tracing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// corsMiddleware wraps an http.Handler with CORS headers for the lead
// submission form served from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	// 1. Initialize logger and tracer
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	tracerShutdown, err := tracing.InitTracer("lead-enrichment-api")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			log.Printf("failed to shutdown tracer: %v", err)
		}
	}()

	log.Println("Starting lead enrichment API...")

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Create root context for lifecycle management
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Setup graceful shutdown
	setupGracefulShutdown(cancel)

	// 5. Build the Zeebe connection for starting process instances
	zeebeClient, err := zeebe.NewClient(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create zeebe client: %v", err)
	}
	defer zeebeClient.Close()

	// 6. Pick the lead store shared with the worker
	var leads domain.LeadRepository
	if len(cfg.EtcdEndpoints) > 0 {
		etcdClient, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
		if err != nil {
			log.Fatalf("Failed to create etcd client: %v", err)
		}
		defer etcdClient.Close()
		leads = etcd.NewEtcdLeadRepository(etcdClient, logger)
		log.Println("Connected to etcd lead store.")
	} else {
		leads = memory.NewLeadRepository()
		logger.Warn("no etcd endpoints configured, lead status is process-local")
	}

	leadHandler := http_api.NewLeadHandler(zeebeClient, leads, cfg.BpmnProcessID, cfg.WebhookToken, logger)

	// 7. Register routes and metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	leadHandler.RegisterRoutes(mux)

	// 8. Start HTTP API server with CORS middleware
	log.Printf("Starting HTTP API server on %s", cfg.HttpListenAddr)
	server := &http.Server{
		Addr:    cfg.HttpListenAddr,
		Handler: corsMiddleware(mux),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// 9. Block until shutdown
	<-rootCtx.Done()
	log.Println("Shutting down application gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}

	log.Println("Application shut down.")
}

func setupGracefulShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v. Initiating graceful shutdown...", sig)
		cancel()
	}()
}
