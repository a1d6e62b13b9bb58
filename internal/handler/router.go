// Package handler exposes the report service over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/bankcore/report-service-go/internal/infra/observability"
	"github.com/bankcore/report-service-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(products *service.ProductsService, reports *service.ReportService, debitBalance *service.DebitBalanceService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(metrics))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Reports API ---
	r.Route("/api/reports", func(r chi.Router) {

		// Consolidated product views
		r.Get("/customers/{customerId}/products", customerProductsHandler(products, logger))
		r.Get("/customers/{customerId}/products/transactions", customerProductsTransactionsHandler(products, logger))

		// Period averages
		r.Get("/commissions-avg", commissionsAvgHandler(reports, logger))
		r.Get("/daily-avg", dailyAvgHandler(reports, logger))

		// Debit card primary account balance
		r.Get("/debit-cards/{debitId}/primary-account/balance", debitPrimaryBalanceHandler(debitBalance, logger))
	})

	return r
}

// ============================================================
// Consolidated product views
// ============================================================

func customerProductsHandler(svc *service.ProductsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/reports/customers/{customerId}/products")
		defer span.End()

		customerID := chi.URLParam(r, "customerId")
		if customerID == "" {
			writeError(w, http.StatusBadRequest, "customerId is required")
			return
		}
		span.SetAttributes(attribute.String("customer.id", customerID))

		products, err := svc.GetCustomerProducts(ctx, customerID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func customerProductsTransactionsHandler(svc *service.ProductsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/reports/customers/{customerId}/products/transactions")
		defer span.End()

		customerID := chi.URLParam(r, "customerId")
		if customerID == "" {
			writeError(w, http.StatusBadRequest, "customerId is required")
			return
		}
		span.SetAttributes(attribute.String("customer.id", customerID))

		result, err := svc.GetCustomerProductsTransactions(ctx, customerID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// Period averages
// ============================================================

func commissionsAvgHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/reports/commissions-avg")
		defer span.End()

		customerID := r.URL.Query().Get("customerId")
		period := r.URL.Query().Get("period")
		if customerID == "" {
			writeError(w, http.StatusBadRequest, "customerId is required")
			return
		}
		if err := validatePeriod(period); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(
			attribute.String("customer.id", customerID),
			attribute.String("report.period", period),
		)

		report, err := svc.AverageCommissions(ctx, customerID, period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if report == nil {
			writeError(w, http.StatusNotFound, "no commissions found for the given period")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func dailyAvgHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/reports/daily-avg")
		defer span.End()

		customerID := r.URL.Query().Get("customerId")
		period := r.URL.Query().Get("period")
		if customerID == "" {
			writeError(w, http.StatusBadRequest, "customerId is required")
			return
		}
		if err := validatePeriod(period); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(
			attribute.String("customer.id", customerID),
			attribute.String("report.period", period),
		)

		report, err := svc.AverageDailyBalance(ctx, customerID, period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if report == nil {
			writeError(w, http.StatusNotFound, "no transactions found for the given period")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ============================================================
// Debit card primary account balance
// ============================================================

func debitPrimaryBalanceHandler(svc *service.DebitBalanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/reports/debit-cards/{debitId}/primary-account/balance")
		defer span.End()

		debitID := chi.URLParam(r, "debitId")
		if debitID == "" {
			writeError(w, http.StatusBadRequest, "debitId is required")
			return
		}
		span.SetAttributes(attribute.String("debit.id", debitID))

		balance, err := svc.GetPrimaryAccountBalance(ctx, debitID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

// ============================================================
// Health
// ============================================================

func healthzHandler(metrics *observability.Metrics) http.HandlerFunc {
	backingServices := []string{"account", "credit", "debit", "transaction"}

	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		dependencies := make([]map[string]any, 0, len(backingServices))
		for _, name := range backingServices {
			dependencies = append(dependencies, map[string]any{
				"name":          name,
				"degradedCalls": metrics.DegradedTotal(name),
				"lastChecked":   now,
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "healthy",
			"dependencies": dependencies,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ready": true})
	}
}
