package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/domain/announcements"
	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/calendar"
	"intranet/internal/domain/documents"
	"intranet/internal/domain/leave"
	"intranet/internal/domain/reports"
	"intranet/internal/domain/staff"
	"intranet/internal/platform/config"
	"intranet/internal/platform/db"
	"intranet/internal/platform/jobs"
	"intranet/internal/platform/metrics"
	"intranet/internal/transport/http/api"
	announcementshandler "intranet/internal/transport/http/handlers/announcements"
	audithandler "intranet/internal/transport/http/handlers/audit"
	authhandler "intranet/internal/transport/http/handlers/auth"
	calendarhandler "intranet/internal/transport/http/handlers/calendar"
	documentshandler "intranet/internal/transport/http/handlers/documents"
	leavehandler "intranet/internal/transport/http/handlers/leave"
	reportshandler "intranet/internal/transport/http/handlers/reports"
	staffhandler "intranet/internal/transport/http/handlers/staff"
	"intranet/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// New wires the whole application: pool, migrations, seed, services, routes.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()
	auditSvc := audit.New(pool)

	leaveSvc := leave.NewService(leave.NewStore(pool), collector)
	staffSvc := staff.NewService(staff.NewStore(pool), leaveSvc, auditSvc)
	authSvc := auth.NewService(pool, cfg.JWTSecret, cfg.TokenTTL)
	announceSvc := announcements.NewService(pool, auditSvc)
	calendarSvc := calendar.NewService(pool)
	documentsSvc := documents.NewService(pool)
	reportsSvc := reports.NewService(pool)

	jobsSvc := jobs.New(pool, cfg, leaveSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.RateLimit(300, time.Minute))
	router.Use(middleware.SensitiveRateLimit(60, time.Minute))

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
		router.With(middleware.RequireActor).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc).RegisterRoutes(r)
		staffhandler.NewHandler(staffSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		announcementshandler.NewHandler(announceSvc).RegisterRoutes(r)
		calendarhandler.NewHandler(calendarSvc).RegisterRoutes(r)
		documentshandler.NewHandler(documentsSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)

		// Manual trigger for the yearly balance roll, recorded in job_runs
		// like a scheduled run.
		r.With(middleware.RequireCapability(staff.CapManageRoles)).
			Post("/admin/jobs/balance-roll", func(w http.ResponseWriter, r *http.Request) {
				year := time.Now().Year()
				details, err := jobsSvc.RunNow(r.Context(), jobs.JobBalanceRoll, func(ctx context.Context) (any, error) {
					touched, err := leaveSvc.RollBalances(ctx, year)
					return map[string]any{"year": year, "touched": touched}, err
				})
				if err != nil {
					api.Fail(w, http.StatusInternalServerError, "job_failed", "balance roll failed", middleware.GetRequestID(r.Context()))
					return
				}
				api.Success(w, details, middleware.GetRequestID(r.Context()))
			})
	})

	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobsSvc}, nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.DB.Close()

	app.Jobs.Start(ctx)

	log.Printf("intranet server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
