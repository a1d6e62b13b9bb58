package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bankcore/report-service-go/internal/config"
	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/handler"
	"github.com/bankcore/report-service-go/internal/infra/client"
	"github.com/bankcore/report-service-go/internal/infra/observability"
	"github.com/bankcore/report-service-go/internal/infra/resilience"
	"github.com/bankcore/report-service-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("lookup_timeout", cfg.LookupTimeout),
		zap.Duration("list_timeout", cfg.ListTimeout),
		zap.Duration("transactions_timeout", cfg.TransactionsTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.String("avg_account_id_policy", cfg.AvgAccountIDPolicy),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "customer-report-service")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	breakerHook := metrics.BreakerStateHook()
	accountCB := resilience.NewCircuitBreaker("account", breakerHook)
	creditCB := resilience.NewCircuitBreaker("credit", breakerHook)
	debitCB := resilience.NewCircuitBreaker("debit", breakerHook)
	transactionCB := resilience.NewCircuitBreaker("transaction", breakerHook)
	transactionBulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Clients ---
	// No client-level timeout: each call sets its own deadline.
	httpClient := &http.Client{}

	accountsClient := client.NewAccountsClient(httpClient, cfg.AccountServiceURL, accountCB, resilienceCfg, cfg.ListTimeout, cfg.LookupTimeout)
	creditsClient := client.NewCreditsClient(httpClient, cfg.CreditServiceURL, creditCB, resilienceCfg, cfg.ListTimeout, cfg.LookupTimeout)
	debitClient := client.NewDebitClient(httpClient, cfg.DebitServiceURL, debitCB, resilienceCfg, cfg.LookupTimeout)
	transactionsClient := client.NewTransactionsClient(httpClient, cfg.TransactionServiceURL, transactionCB, resilienceCfg, transactionBulkhead, cfg.TransactionsTimeout)

	// --- Services ---
	productsSvc := service.NewProductsService(
		accountsClient,
		creditsClient,
		debitClient,
		transactionsClient,
		logger,
		metrics,
		domain.AccountType(cfg.DefaultAccountType),
		domain.CreditType(cfg.DefaultCreditType),
	)
	reportSvc := service.NewReportService(transactionsClient, logger, metrics, cfg.AvgAccountIDPolicy)
	debitBalanceSvc := service.NewDebitBalanceService(debitClient, accountsClient, logger, metrics)

	// --- Router ---
	router := handler.NewRouter(productsSvc, reportSvc, debitBalanceSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
