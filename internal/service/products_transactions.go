package service

import (
	"context"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// GetCustomerProductsTransactions returns the consolidated product view
// enriched with each product's completed transactions. The transaction
// branch degrades like the product branches: if the Transaction service
// fails, products are returned with empty histories.
func (s *ProductsService) GetCustomerProductsTransactions(ctx context.Context, customerID string) (*domain.CustomerProductsTransactions, error) {
	ctx, span := tracer.Start(ctx, "ProductsService.GetCustomerProductsTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("customer_products_transactions", time.Since(start))
	}()

	var (
		branches productBranches
		history  []domain.Transaction
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		branches = s.fetchBranches(ctx, customerID)
		return nil
	})

	g.Go(func() error {
		txns, err := s.transactions.GetTransactionsByCustomer(ctx, customerID)
		if err != nil {
			s.degrade("transaction", customerID, err)
			return nil
		}
		history = txns
		return nil
	})

	g.Wait()

	byAccount, byCredit, completed := groupCompleted(history)

	result := &domain.CustomerProductsTransactions{
		CustomerID: customerID,
		DebitCards: debitCardSummaries(branches.card),
	}

	result.Accounts = make([]domain.AccountWithTransactions, 0, len(branches.accounts))
	for _, summary := range s.accountSummaries(branches.accounts) {
		result.Accounts = append(result.Accounts, domain.AccountWithTransactions{
			AccountSummary: summary,
			Transactions:   orEmpty(byAccount[summary.ID]),
		})
	}

	result.Credits = make([]domain.CreditWithTransactions, 0, len(branches.credits))
	for _, summary := range s.creditSummaries(branches.credits) {
		result.Credits = append(result.Credits, domain.CreditWithTransactions{
			CreditSummary: summary,
			Transactions:  orEmpty(byCredit[summary.ID]),
		})
	}

	var accountTxns, creditTxns int
	for _, a := range result.Accounts {
		accountTxns += len(a.Transactions)
	}
	for _, c := range result.Credits {
		creditTxns += len(c.Transactions)
	}

	result.Summary = domain.ProductsTransactionsSummary{
		ProductsSummary: domain.ProductsSummary{
			TotalAccounts:   len(result.Accounts),
			TotalCredits:    len(result.Credits),
			TotalDebitCards: len(result.DebitCards),
		},
		TotalAccountTransactions: accountTxns,
		TotalCreditTransactions:  creditTxns,
		// Every completed transaction counts, including ones whose
		// owning product the customer no longer holds.
		TotalTransactions: completed,
	}
	result.Summary.TotalProducts = result.Summary.TotalAccounts +
		result.Summary.TotalCredits + result.Summary.TotalDebitCards
	result.HasProducts = result.Summary.TotalProducts > 0

	return result, nil
}

// groupCompleted keeps only completed transactions and groups them by
// owning product, also reporting how many survived the status filter.
// A transaction carrying both owner fields is treated as an account
// movement.
func groupCompleted(history []domain.Transaction) (byAccount, byCredit map[string][]domain.TransactionSummary, completed int) {
	byAccount = make(map[string][]domain.TransactionSummary)
	byCredit = make(map[string][]domain.TransactionSummary)

	for _, t := range history {
		if t.Status != domain.TransactionCompleted {
			continue
		}
		completed++
		summary := domain.TransactionSummary{
			ID:              t.ID,
			TransactionType: t.TransactionType,
			Amount:          t.Amount,
			Status:          t.Status,
			Description:     t.Description,
			BalanceAfter:    t.BalanceAfter,
			Commission:      t.Commission,
			CreatedAt:       t.CreatedAt,
			Period:          t.Period,
		}
		switch {
		case t.AccountID != "":
			byAccount[t.AccountID] = append(byAccount[t.AccountID], summary)
		case t.CreditID != "":
			byCredit[t.CreditID] = append(byCredit[t.CreditID], summary)
		}
	}
	return byAccount, byCredit, completed
}

func orEmpty(txns []domain.TransactionSummary) []domain.TransactionSummary {
	if txns == nil {
		return []domain.TransactionSummary{}
	}
	return txns
}
