package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eval360/internal/domain/audit"
	"eval360/internal/domain/criteria"
	"eval360/internal/domain/employee"
	"eval360/internal/domain/evaluation"
	"eval360/internal/domain/report"
	"eval360/internal/platform/config"
	"eval360/internal/platform/db"
	"eval360/internal/platform/metrics"
	"eval360/internal/transport/http/api"
	audithandler "eval360/internal/transport/http/handlers/audit"
	criteriahandler "eval360/internal/transport/http/handlers/criteria"
	dashboardhandler "eval360/internal/transport/http/handlers/dashboard"
	employeeshandler "eval360/internal/transport/http/handlers/employees"
	evaluationshandler "eval360/internal/transport/http/handlers/evaluations"
	"eval360/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	collector := metrics.New()

	employeeStore := employee.NewStore(pool)
	employeeSvc := employee.NewService(employeeStore)
	criteriaSvc := criteria.NewService(criteria.NewStore(pool))
	evaluationStore := evaluation.NewStore(pool)
	evaluationSvc := evaluation.NewService(evaluationStore)
	reportSvc := report.NewService(employeeStore, criteriaSvc, evaluationStore, cfg.ReportsDir)
	auditSvc := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		employeeshandler.NewHandler(employeeSvc, auditSvc).RegisterRoutes(r)
		criteriahandler.NewHandler(criteriaSvc, auditSvc).RegisterRoutes(r)
		evaluationshandler.NewHandler(evaluationSvc, employeeSvc, criteriaSvc, collector, auditSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(reportSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	log.Printf("evaluation server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
