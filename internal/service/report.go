package service

import (
	"context"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/observability"
	"github.com/bankcore/report-service-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Account-id policies for the average reports. With first_match the
// report carries the account id of the first matching transaction; with
// omit_when_mixed it carries an id only when all matching transactions
// belong to the same account.
const (
	AccountIDFirstMatch    = "first_match"
	AccountIDOmitWhenMixed = "omit_when_mixed"
)

// ReportService computes period reports over a customer's transaction
// history. The history fetch follows the same degradation policy as the
// fan-out branches: a failed fetch becomes an empty history, which then
// surfaces as a no-data outcome rather than an error.
type ReportService struct {
	transactions port.TransactionsFetcher
	logger       *zap.Logger
	metrics      *observability.Metrics

	accountIDPolicy string
}

// NewReportService creates the period-report service.
func NewReportService(transactions port.TransactionsFetcher, logger *zap.Logger, metrics *observability.Metrics, accountIDPolicy string) *ReportService {
	if accountIDPolicy != AccountIDOmitWhenMixed {
		accountIDPolicy = AccountIDFirstMatch
	}
	return &ReportService{
		transactions:    transactions,
		logger:          logger,
		metrics:         metrics,
		accountIDPolicy: accountIDPolicy,
	}
}

// AverageCommissions computes the average commission charged to the
// customer in the given YYYYMM period, over transactions that carry a
// positive commission. Returns (nil, nil) when no transaction matches.
func (s *ReportService) AverageCommissions(ctx context.Context, customerID, period string) (*domain.CommissionAverage, error) {
	ctx, span := tracer.Start(ctx, "ReportService.AverageCommissions")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("report.period", period),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("avg_commissions", time.Since(start))
	}()

	history := s.fetchHistory(ctx, customerID)

	var (
		sum     decimal.Decimal
		count   int64
		matched []domain.Transaction
	)
	for _, t := range history {
		if !t.MatchesPeriod(period) {
			continue
		}
		if t.Commission == nil || !t.Commission.IsPositive() {
			continue
		}
		sum = sum.Add(*t.Commission)
		count++
		matched = append(matched, t)
	}

	if count == 0 {
		s.logger.Info("no commissions in period",
			zap.String("customer_id", customerID),
			zap.String("period", period),
		)
		return nil, nil
	}

	return &domain.CommissionAverage{
		ReportID:       uuid.New().String(),
		AccountID:      s.reportAccountID(matched),
		Period:         period,
		AvgCommissions: sum.DivRound(decimal.NewFromInt(count), 2),
	}, nil
}

// AverageDailyBalance computes the average post-transaction balance in
// the given YYYYMM period. A transaction without a recorded balance
// contributes zero. Returns (nil, nil) when no transaction matches.
func (s *ReportService) AverageDailyBalance(ctx context.Context, customerID, period string) (*domain.DailyAverage, error) {
	ctx, span := tracer.Start(ctx, "ReportService.AverageDailyBalance")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("report.period", period),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("avg_daily_balance", time.Since(start))
	}()

	history := s.fetchHistory(ctx, customerID)

	var (
		sum     decimal.Decimal
		count   int64
		matched []domain.Transaction
	)
	for _, t := range history {
		if !t.MatchesPeriod(period) {
			continue
		}
		if t.BalanceAfter != nil {
			sum = sum.Add(*t.BalanceAfter)
		}
		count++
		matched = append(matched, t)
	}

	if count == 0 {
		s.logger.Info("no transactions in period",
			zap.String("customer_id", customerID),
			zap.String("period", period),
		)
		return nil, nil
	}

	return &domain.DailyAverage{
		ReportID:  uuid.New().String(),
		AccountID: s.reportAccountID(matched),
		Period:    period,
		AvgDaily:  sum.DivRound(decimal.NewFromInt(count), 2),
	}, nil
}

// fetchHistory loads the customer's transaction history, degrading a
// failed fetch to an empty list. The degradation is counted so a report
// built on missing data stays observable.
func (s *ReportService) fetchHistory(ctx context.Context, customerID string) []domain.Transaction {
	history, err := s.transactions.GetTransactionsByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Warn("transaction history degraded to empty result",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("transaction")
		s.metrics.IncrDegradedBranch("transaction")
		return nil
	}
	return history
}

// reportAccountID resolves the account id carried by a report according
// to the configured policy. Transactions without an account owner never
// contribute an id.
func (s *ReportService) reportAccountID(matched []domain.Transaction) string {
	switch s.accountIDPolicy {
	case AccountIDOmitWhenMixed:
		var id string
		for _, t := range matched {
			if t.AccountID == "" {
				continue
			}
			if id == "" {
				id = t.AccountID
				continue
			}
			if id != t.AccountID {
				return ""
			}
		}
		return id
	default: // first_match
		for _, t := range matched {
			if t.AccountID != "" {
				return t.AccountID
			}
		}
		return ""
	}
}
