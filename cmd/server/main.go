package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	auditapp "github.com/opsledger/backend/internal/application/audit"
	cashierapp "github.com/opsledger/backend/internal/application/cashier"
	identityapp "github.com/opsledger/backend/internal/application/identity"
	inventoryapp "github.com/opsledger/backend/internal/application/inventory"
	payrollapp "github.com/opsledger/backend/internal/application/payroll"
	purchasingapp "github.com/opsledger/backend/internal/application/purchasing"
	reportapp "github.com/opsledger/backend/internal/application/report"
	salesapp "github.com/opsledger/backend/internal/application/sales"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/auth"
	"github.com/opsledger/backend/internal/infrastructure/cache"
	"github.com/opsledger/backend/internal/infrastructure/config"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/opsledger/backend/internal/infrastructure/persistence"
	"github.com/opsledger/backend/internal/interfaces/http/handler"
	"github.com/opsledger/backend/internal/interfaces/http/middleware"
	"github.com/opsledger/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting opsledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	sessionRepo := persistence.NewGormCashSessionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	providerRepo := persistence.NewGormProviderRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	payableRepo := persistence.NewGormAccountPayableRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	cashMovementRepo := persistence.NewGormCashMovementRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	txnScope := persistence.NewGormTransactionScope(db.DB)

	// Token revocation: Redis when configured, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		blacklist = auth.NewRedisTokenBlacklist(client)
		log.Info("Using Redis token blacklist", zap.String("host", cfg.Redis.Host))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	identityService := identityapp.NewService(userRepo, organizationRepo, jwtService, blacklist)
	inventoryService := inventoryapp.NewService(txnScope, productRepo, stockMovementRepo)
	sessionService := cashierapp.NewService(txnScope, sessionRepo)
	checkoutService := salesapp.NewCheckoutService(txnScope, invoiceRepo)
	payrollService := payrollapp.NewService(txnScope, employeeRepo, payrollRepo)
	purchasingService := purchasingapp.NewService(txnScope, providerRepo, orderRepo, payableRepo)
	auditService := auditapp.NewService(auditRepo)
	dashboardService := reportapp.NewService(productRepo, invoiceRepo, sessionRepo, payableRepo, employeeRepo, cashMovementRepo)

	// Checkout replay protection
	if cfg.Checkout.IdempotencyEnabled {
		storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
		store, err := storeFactory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
		checkoutService.SetIdempotencyStore(store, shared.IdempotencyConfig{
			TTL:     cfg.Checkout.IdempotencyTTL,
			Enabled: true,
		})
	}
	checkoutService.SetTotalTolerance(decimal.NewFromFloat(cfg.Checkout.TotalTolerance))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Dependencies{
		Logger:        log,
		TokenResolver: identityService,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Auth:       handler.NewAuthHandler(identityService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Cashier:    handler.NewCashierHandler(sessionService),
		Sales:      handler.NewSalesHandler(checkoutService),
		Payroll:    handler.NewPayrollHandler(payrollService),
		Purchasing: handler.NewPurchasingHandler(purchasingService),
		Audit:      handler.NewAuditHandler(auditService),
		Report:     handler.NewReportHandler(dashboardService),
		System:     handler.NewSystemHandler(db, version),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
