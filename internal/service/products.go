// Package service implements the aggregation and reporting use cases on
// top of the backing-service ports. Consolidated views degrade per
// branch: a failing dependency empties its own section of the response
// and never fails the request.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/observability"
	"github.com/bankcore/report-service-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/report")

// ProductsService builds consolidated product views for a customer by
// fanning out to the Account, Credit and Debit services. Views are
// projections assembled per request; nothing is retained between calls.
type ProductsService struct {
	accounts     port.AccountsFetcher
	credits      port.CreditsFetcher
	debit        port.DebitCardsFetcher
	transactions port.TransactionsFetcher

	logger  *zap.Logger
	metrics *observability.Metrics

	defaultAccountType domain.AccountType
	defaultCreditType  domain.CreditType
}

// NewProductsService creates the consolidated-products service.
func NewProductsService(
	accounts port.AccountsFetcher,
	credits port.CreditsFetcher,
	debit port.DebitCardsFetcher,
	transactions port.TransactionsFetcher,
	logger *zap.Logger,
	metrics *observability.Metrics,
	defaultAccountType domain.AccountType,
	defaultCreditType domain.CreditType,
) *ProductsService {
	return &ProductsService{
		accounts:           accounts,
		credits:            credits,
		debit:              debit,
		transactions:       transactions,
		logger:             logger,
		metrics:            metrics,
		defaultAccountType: defaultAccountType,
		defaultCreditType:  defaultCreditType,
	}
}

// productBranches holds the raw results of the three-way fan-out.
type productBranches struct {
	accounts []domain.Account
	credits  []domain.Credit
	card     *domain.DebitCard
}

// fetchBranches fans out to the three product services and joins all
// branches. A failed branch is logged, counted and emptied; it never
// cancels its siblings.
func (s *ProductsService) fetchBranches(ctx context.Context, customerID string) productBranches {
	var branches productBranches

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		accounts, err := s.accounts.GetAccountsByCustomer(ctx, customerID)
		if err != nil {
			s.degrade("account", customerID, err)
			return nil
		}
		branches.accounts = accounts
		return nil
	})

	g.Go(func() error {
		credits, err := s.credits.GetCreditsByCustomer(ctx, customerID)
		if err != nil {
			s.degrade("credit", customerID, err)
			return nil
		}
		branches.credits = credits
		return nil
	})

	g.Go(func() error {
		card, err := s.debit.GetDebitCardByCustomer(ctx, customerID)
		if err != nil {
			// A customer without a debit card is a normal outcome,
			// not a degraded branch.
			var notFound *domain.ErrNotFound
			if !errors.As(err, &notFound) {
				s.degrade("debit", customerID, err)
			}
			return nil
		}
		branches.card = card
		return nil
	})

	g.Wait()
	return branches
}

// degrade records one failed fan-out branch.
func (s *ProductsService) degrade(serviceName, customerID string, err error) {
	s.logger.Warn("branch degraded to empty result",
		zap.String("service", serviceName),
		zap.String("customer_id", customerID),
		zap.Error(err),
	)
	s.metrics.IncrExternalError(serviceName)
	s.metrics.IncrDegradedBranch(serviceName)
}

// GetCustomerProducts returns the consolidated product view for one
// customer, built fresh from the backing services on every call.
func (s *ProductsService) GetCustomerProducts(ctx context.Context, customerID string) (*domain.CustomerProducts, error) {
	ctx, span := tracer.Start(ctx, "ProductsService.GetCustomerProducts")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("customer_products", time.Since(start))
	}()

	branches := s.fetchBranches(ctx, customerID)

	products := &domain.CustomerProducts{
		CustomerID: customerID,
		Accounts:   s.accountSummaries(branches.accounts),
		Credits:    s.creditSummaries(branches.credits),
		DebitCards: debitCardSummaries(branches.card),
	}
	products.Summary = domain.ProductsSummary{
		TotalAccounts:   len(products.Accounts),
		TotalCredits:    len(products.Credits),
		TotalDebitCards: len(products.DebitCards),
	}
	products.Summary.TotalProducts = products.Summary.TotalAccounts +
		products.Summary.TotalCredits + products.Summary.TotalDebitCards
	products.HasProducts = products.Summary.TotalProducts > 0

	return products, nil
}

func (s *ProductsService) accountSummaries(accounts []domain.Account) []domain.AccountSummary {
	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, domain.AccountSummary{
			ID:             a.ID,
			AccountNumber:  a.AccountNumber,
			AccountType:    domain.NormalizeAccountType(a.AccountType, s.defaultAccountType),
			Balance:        a.Balance,
			MaintenanceFee: a.MaintenanceFee,
			Active:         a.Active,
			CreatedAt:      a.CreatedAt,
		})
	}
	return summaries
}

func (s *ProductsService) creditSummaries(credits []domain.Credit) []domain.CreditSummary {
	summaries := make([]domain.CreditSummary, 0, len(credits))
	for _, c := range credits {
		summaries = append(summaries, domain.CreditSummary{
			ID:              c.ID,
			CreditNumber:    c.CreditNumber,
			CreditType:      domain.NormalizeCreditType(c.CreditType, s.defaultCreditType),
			CreditLimit:     c.CreditLimit,
			Balance:         c.Balance,
			AvailableCredit: c.AvailableCredit,
			InterestRate:    c.InterestRate,
			Active:          c.Active,
			CreatedAt:       c.CreatedAt,
		})
	}
	return summaries
}

// debitCardSummaries materializes the debit-card section. The card is
// included only when it carries a real ID; the card number is masked
// before it ever leaves the service layer.
func debitCardSummaries(card *domain.DebitCard) []domain.DebitCardSummary {
	if card == nil || card.ID == "" {
		return []domain.DebitCardSummary{}
	}
	return []domain.DebitCardSummary{{
		ID:                      card.ID,
		CardNumber:              domain.MaskCardNumber(card.CardNumber),
		PrimaryAccountID:        card.PrimaryAccountID,
		AssociatedAccountsCount: len(card.AssociatedAccounts),
		Active:                  card.Active,
		CreatedAt:               card.CreatedAt,
	}}
}
