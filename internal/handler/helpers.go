package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bankcore/report-service-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// validatePeriod checks the YYYYMM report period format.
func validatePeriod(period string) error {
	if len(period) != 6 {
		return &domain.ErrValidation{Field: "period", Message: "must be in YYYYMM format"}
	}
	for _, r := range period {
		if r < '0' || r > '9' {
			return &domain.ErrValidation{Field: "period", Message: "must be in YYYYMM format"}
		}
	}
	month := (period[4]-'0')*10 + (period[5] - '0')
	if month < 1 || month > 12 {
		return &domain.ErrValidation{Field: "period", Message: "month must be between 01 and 12"}
	}
	return nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var unavailable *domain.ErrServiceUnavailable

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	// The unavailable check runs before the narrower kinds: a service
	// that folded a timeout or open breaker into unavailable keeps that
	// classification even though the cause stays on the unwrap chain.
	case errors.As(err, &unavailable):
		logger.Error("backing service unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
