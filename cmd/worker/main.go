// cmd/worker/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lead-enrichment-worker/internal/config"
	"lead-enrichment-worker/internal/dispatcher"
	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/handlers"
	"lead-enrichment-worker/internal/health"
	"lead-enrichment-worker/internal/infra/etcd"
	"lead-enrichment-worker/internal/infra/memory"
	"lead-enrichment-worker/internal/infra/zeebe"
	"lead-enrichment-worker/internal/tracing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Init logger and tracer
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	tracerShutdown, err := tracing.InitTracer("lead-enrichment-worker")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			log.Printf("failed to shutdown tracer: %v", err)
		}
	}()

	// 2. Load configuration; missing credentials fail here, before any
	// connection attempt.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	workerID := cfg.WorkerName + "-" + uuid.New().String()[:8]
	log.Printf("Starting external-task worker %s against %s", workerID, cfg.GatewayAddress())

	// 3. Create root context for lifecycle management
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Setup graceful shutdown
	setupGracefulShutdown(cancel)

	// 5. Build the Zeebe connection from the loaded credentials
	zeebeClient, err := zeebe.NewClient(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create zeebe client: %v", err)
	}
	defer zeebeClient.Close()

	// 6. Pick the lead store for the store-lead handler
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
		logger.Warn("no etcd endpoints configured, storing leads in memory")
	}

	// 7. Register the lead handlers on the dispatcher
	d := dispatcher.New(zeebeClient, logger)
	if err := handlers.Register(d, leads, logger); err != nil {
		log.Fatalf("Failed to register task handlers: %v", err)
	}

	// 8. Connection health probe on a cron schedule
	probe := health.NewProbe(zeebeClient, cfg.GatewayHost(), cfg.HealthProbeSchedule, cfg.RequestTimeout, logger)
	go func() {
		if err := probe.Start(rootCtx); err != nil {
			logger.Error("health probe stopped", "error", err)
		}
	}()

	// 9. Expose worker metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("Metrics listening on %s", cfg.MetricsListenAddr)
		if err := http.ListenAndServe(cfg.MetricsListenAddr, mux); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server failed: %v", err)
		}
	}()

	// 10. Open the task streams and block until shutdown
	if err := d.Run(rootCtx); err != nil {
		log.Fatalf("Dispatcher stopped with error: %v", err)
	}

	log.Println("Worker shut down.")
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
