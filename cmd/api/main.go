package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sevencollector/fintracker/internal/advisor"
	"github.com/sevencollector/fintracker/internal/analytics"
	"github.com/sevencollector/fintracker/internal/api/handlers"
	"github.com/sevencollector/fintracker/internal/api/middleware"
	"github.com/sevencollector/fintracker/internal/config"
	"github.com/sevencollector/fintracker/internal/jobs"
	"github.com/sevencollector/fintracker/internal/jobs/inmemory"
	"github.com/sevencollector/fintracker/internal/ledger"
	"github.com/sevencollector/fintracker/internal/logger"
	"github.com/sevencollector/fintracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	// Pick the snapshot store: GCS when a bucket is configured, a local
	// file otherwise.
	var snapStore store.SnapshotStore
	if cfg.GCSBucket != "" {
		snapStore = store.NewGCSStore(cfg.GCSBucket, cfg.SnapshotObject)
		log.Info().Str("bucket", cfg.GCSBucket).Str("object", cfg.SnapshotObject).Msg("Using GCS snapshot store")
	} else {
		snapStore = store.NewFileStore(cfg.DataFile)
		log.Info().Str("path", cfg.DataFile).Msg("Using file snapshot store")
	}

	// The advisor is optional; without an API key the insight endpoints
	// answer 503.
	var advisorSvc advisor.Service
	if cfg.GeminiAPIKey != "" {
		client, err := advisor.NewClient(ctx, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create advisor client")
		}
		advisorSvc = client
	} else {
		log.Warn().Msg("No Gemini API key configured - insight endpoints disabled")
	}

	// Job infrastructure for asynchronous snapshot persistence.
	jobStore := inmemory.NewJobStore()
	jobQueue := inmemory.NewQueue(jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		persistJob, ok := job.(*jobs.PersistSnapshotJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		snap, err := ledger.Decode([]byte(persistJob.Payload))
		if err != nil {
			return fmt.Errorf("persist job %s: %w", persistJob.JobID, err)
		}
		if err := snapStore.Save(ctx, snap); err != nil {
			return fmt.Errorf("persist job %s: %w", persistJob.JobID, err)
		}

		log.Info().
			Str("job_id", persistJob.JobID).
			Str("slot", persistJob.Slot).
			Msg("Snapshot persisted")
		return nil
	}

	if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start persist workers")
	}

	engine := &ledger.Engine{FullRevert: cfg.FullRevert}
	ledgerHandler := handlers.NewLedgerHandler(snapStore, engine, jobQueue, advisorSvc, cfg.SnapshotObject, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	var exporter *analytics.Exporter
	if cfg.BQProject != "" {
		exporter = analytics.NewExporter(cfg.BQProject, cfg.BQDataset)
	}
	analyticsHandler := handlers.NewAnalyticsHandler(snapStore, exporter, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ledgerHandler.GetSnapshot(w, r)
		case http.MethodPost:
			ledgerHandler.CreateSnapshot(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ledgerHandler.ListTransactions(w, r)
		case http.MethodPost:
			ledgerHandler.SubmitTransaction(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/insight", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.GenerateInsight(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/insight/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/limits", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ledgerHandler.SuggestLimits(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyticsHandler.Export(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
