package service

import (
	"context"

	"github.com/bankcore/report-service-go/internal/domain"
)

type mockAccounts struct {
	byCustomer func(ctx context.Context, customerID string) ([]domain.Account, error)
	byID       func(ctx context.Context, accountID string) (*domain.Account, error)
}

func (m *mockAccounts) GetAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	return m.byCustomer(ctx, customerID)
}

func (m *mockAccounts) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return m.byID(ctx, accountID)
}

type mockCredits struct {
	byCustomer func(ctx context.Context, customerID string) ([]domain.Credit, error)
	byID       func(ctx context.Context, creditID string) (*domain.Credit, error)
}

func (m *mockCredits) GetCreditsByCustomer(ctx context.Context, customerID string) ([]domain.Credit, error) {
	return m.byCustomer(ctx, customerID)
}

func (m *mockCredits) GetCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	return m.byID(ctx, creditID)
}

type mockDebit struct {
	byCustomer func(ctx context.Context, customerID string) (*domain.DebitCard, error)
	byID       func(ctx context.Context, debitID string) (*domain.DebitCard, error)
}

func (m *mockDebit) GetDebitCardByCustomer(ctx context.Context, customerID string) (*domain.DebitCard, error) {
	return m.byCustomer(ctx, customerID)
}

func (m *mockDebit) GetDebitCard(ctx context.Context, debitID string) (*domain.DebitCard, error) {
	return m.byID(ctx, debitID)
}

type mockTransactions struct {
	byCustomer func(ctx context.Context, customerID string) ([]domain.Transaction, error)
}

func (m *mockTransactions) GetTransactionsByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	return m.byCustomer(ctx, customerID)
}

