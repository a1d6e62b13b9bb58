package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// TransactionsClient calls the Transaction service. Transaction history
// is the heaviest backing call, so it sits behind a bulkhead in addition
// to the breaker.
type TransactionsClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	timeout    time.Duration
}

// NewTransactionsClient creates a client for the Transaction service.
func NewTransactionsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, bulkhead *resilience.Bulkhead, timeout time.Duration) *TransactionsClient {
	return &TransactionsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
		bulkhead:   bulkhead,
		timeout:    timeout,
	}
}

// GetTransactionsByCustomer returns the customer's full transaction
// history across all products. Callers filter by status and period.
func (c *TransactionsClient) GetTransactionsByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionsClient.GetTransactionsByCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		span.RecordError(err)
		return nil, classifyError("transaction", "GetTransactionsByCustomer", err)
	}
	defer c.bulkhead.Release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var transactions []domain.Transaction
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/transactions/customer/%s", c.baseURL, customerID)
			return getJSON(ctx, c.httpClient, url, &transactions, "transactions", customerID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return transactions, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("transaction", "GetTransactionsByCustomer", err)
	}
	return result.([]domain.Transaction), nil
}
