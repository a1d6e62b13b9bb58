// Package port defines the interfaces (ports) for the backing services.
// Following hexagonal architecture, these ports decouple the service
// layer from the concrete HTTP clients.
package port

import (
	"context"

	"github.com/bankcore/report-service-go/internal/domain"
)

// AccountsFetcher retrieves deposit accounts from the Account service.
type AccountsFetcher interface {
	GetAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

// CreditsFetcher retrieves credit products from the Credit service.
type CreditsFetcher interface {
	GetCreditsByCustomer(ctx context.Context, customerID string) ([]domain.Credit, error)
	GetCredit(ctx context.Context, creditID string) (*domain.Credit, error)
}

// DebitCardsFetcher retrieves debit cards from the Debit service.
type DebitCardsFetcher interface {
	GetDebitCardByCustomer(ctx context.Context, customerID string) (*domain.DebitCard, error)
	GetDebitCard(ctx context.Context, debitID string) (*domain.DebitCard, error)
}

// TransactionsFetcher retrieves transactions from the Transaction service.
type TransactionsFetcher interface {
	GetTransactionsByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error)
}

