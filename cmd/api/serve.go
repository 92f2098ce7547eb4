package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ricemill-erp/config"
	httpHandler "ricemill-erp/internal/adapter/http/handler"
	"ricemill-erp/internal/adapter/http/middleware"
	"ricemill-erp/internal/adapter/storage/memory"
	pgStorage "ricemill-erp/internal/adapter/storage/postgres"
	redisStorage "ricemill-erp/internal/adapter/storage/redis"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/service"
	"ricemill-erp/internal/telemetry"
	"ricemill-erp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting rice mill ERP")

	ctx := context.Background()

	// PostgreSQL
	if cfg.Database.AutoMigrate {
		if err := pgStorage.RunMigrations(cfg.Database, "up"); err != nil {
			return err
		}
		log.Info().Msg("Database schema up to date")
	}

	db := pgStorage.NewGateway(cfg.Database, logger.Component(log, "postgres"))
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()
	log.Info().Msg("PostgreSQL connected")

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(db)}

	// Redis backs idempotency and shared rate-limit counters. Without it the
	// limiter falls back to process memory and Idempotency-Key is ignored.
	var (
		limiter          ports.RateLimiter = memory.NewRateLimiter()
		idempotencyCache ports.IdempotencyCache
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		limiter = redisStorage.NewRateLimitStore(rdb)
		idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}
	if !cfg.RateLimit.Enabled {
		limiter = nil
	}

	// Repositories
	auditRepo := pgStorage.NewAuditRepo(db)
	roleRepo := pgStorage.NewRoleRepo(db)
	varietyRepo := pgStorage.NewVarietyRepo(db)
	inventoryRepo := pgStorage.NewInventoryRepo(db)
	procurementRepo := pgStorage.NewProcurementRepo(db)
	saleRepo := pgStorage.NewSaleRepo(db)
	paymentRepo := pgStorage.NewPaymentRepo(db)
	expenseRepo := pgStorage.NewExpenseRepo(db)
	alertRepo := pgStorage.NewAlertRepo(db)
	userRepo := pgStorage.NewUserRepo(db)
	transactor := pgStorage.NewTransactor(db)

	// Services
	svcLog := logger.Component(log, "service")
	auditSvc := service.NewAuditService(auditRepo, svcLog)
	inventorySvc := service.NewInventoryService(inventoryRepo, alertRepo, auditSvc, svcLog)

	var tokenSvc ports.TokenService
	if cfg.JWT.Secret != "" {
		tokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	} else {
		log.Warn().Msg("JWT secret not set, actors are taken from X-User-Name/X-User-Role headers")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuditSvc:         auditSvc,
		RoleSvc:          service.NewRoleService(roleRepo, auditSvc, svcLog),
		VarietySvc:       service.NewVarietyService(varietyRepo, auditSvc, svcLog),
		InventorySvc:     inventorySvc,
		ProcurementSvc:   service.NewProcurementService(procurementRepo, auditSvc, svcLog),
		SalesSvc:         service.NewSalesService(saleRepo, auditSvc, svcLog),
		PaymentSvc:       service.NewPaymentService(paymentRepo, procurementRepo, saleRepo, transactor, auditSvc, svcLog),
		ExpenseSvc:       service.NewExpenseService(expenseRepo, auditSvc, svcLog),
		AlertSvc:         service.NewAlertService(alertRepo, auditSvc, svcLog),
		UserSvc:          service.NewUserService(userRepo, service.NewPasswordHasher(), auditSvc, svcLog),
		ReportingSvc:     service.NewReportingService(procurementRepo, saleRepo, expenseRepo, inventoryRepo),
		TokenSvc:         tokenSvc,
		RateLimiter:      limiter,
		RateLimitRules:   middleware.RateLimitRules(cfg.RateLimit),
		IdempotencyCache: idempotencyCache,
		IdempotencyTTL:   cfg.RateLimit.IdempotencyTTL,
		EnforcePerms:     cfg.Auth.EnforcePermissions,
		HealthCheckers:   healthCheckers,
		Logger:           logger.Component(log, "http"),
	})

	scheduler, err := startStockScan(cfg.Stock.ScanSchedule, inventorySvc, logger.Component(log, "stock-scan"))
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
	}
	log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// startStockScan schedules the periodic low-stock sweep. An empty schedule
// disables it and returns a nil scheduler.
func startStockScan(schedule string, inventory ports.InventoryService, log zerolog.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		raised, err := inventory.ScanLowStock(ctx)
		if err != nil {
			telemetry.StockScansTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Msg("Low-stock scan failed")
			return
		}
		telemetry.StockScansTotal.WithLabelValues("ok").Inc()
		log.Info().Int("alerts_raised", raised).Msg("Low-stock scan finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid stock scan schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("Low-stock scan scheduled")
	return c, nil
}
