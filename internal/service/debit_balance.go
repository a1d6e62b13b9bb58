package service

import (
	"context"
	"errors"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/observability"
	"github.com/bankcore/report-service-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DebitBalanceService resolves the balance of the account a debit card
// draws from. This is a two-hop chain: debit card, then its primary
// account. Not-found propagates; every other failure surfaces as the
// generic unavailable outcome, never as a narrower kind.
type DebitBalanceService struct {
	debit    port.DebitCardsFetcher
	accounts port.AccountsFetcher
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewDebitBalanceService creates the debit primary-account balance service.
func NewDebitBalanceService(debit port.DebitCardsFetcher, accounts port.AccountsFetcher, logger *zap.Logger, metrics *observability.Metrics) *DebitBalanceService {
	return &DebitBalanceService{
		debit:    debit,
		accounts: accounts,
		logger:   logger,
		metrics:  metrics,
	}
}

// GetPrimaryAccountBalance returns the current balance of a debit card's
// primary account.
func (s *DebitBalanceService) GetPrimaryAccountBalance(ctx context.Context, debitID string) (*domain.DebitPrimaryAccountBalance, error) {
	ctx, span := tracer.Start(ctx, "DebitBalanceService.GetPrimaryAccountBalance")
	defer span.End()
	span.SetAttributes(attribute.String("debit.id", debitID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("debit_primary_balance", time.Since(start))
	}()

	card, err := s.debit.GetDebitCard(ctx, debitID)
	if err != nil {
		return nil, asUnavailable("debit", err)
	}

	account, err := s.accounts.GetAccount(ctx, card.PrimaryAccountID)
	if err != nil {
		s.logger.Warn("primary account lookup failed",
			zap.String("debit_id", debitID),
			zap.String("account_id", card.PrimaryAccountID),
			zap.Error(err),
		)
		return nil, asUnavailable("account", err)
	}

	return &domain.DebitPrimaryAccountBalance{
		DebitID:       card.ID,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		AccountType:   account.AccountType,
		Balance:       account.Balance,
		CardNumber:    domain.MaskCardNumber(card.CardNumber),
		Active:        card.Active,
	}, nil
}

// asUnavailable folds any failure other than not-found into the generic
// unavailable outcome. Single-entity lookup chains expose exactly two
// error kinds upward: the referenced id does not exist, or the
// dependency could not serve.
func asUnavailable(serviceName string, err error) error {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		return err
	}
	var unavailable *domain.ErrServiceUnavailable
	if errors.As(err, &unavailable) {
		return err
	}
	return &domain.ErrServiceUnavailable{Service: serviceName, Err: err}
}
