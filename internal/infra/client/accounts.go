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

// AccountsClient calls the Account service.
type AccountsClient struct {
	httpClient    *http.Client
	baseURL       string
	cb            *gobreaker.CircuitBreaker
	cfg           resilience.Config
	listTimeout   time.Duration
	lookupTimeout time.Duration
}

// NewAccountsClient creates a client for the Account service.
func NewAccountsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, listTimeout, lookupTimeout time.Duration) *AccountsClient {
	return &AccountsClient{
		httpClient:    httpClient,
		baseURL:       baseURL,
		cb:            cb,
		cfg:           cfg,
		listTimeout:   listTimeout,
		lookupTimeout: lookupTimeout,
	}
}

// GetAccountsByCustomer returns all deposit accounts owned by a customer.
// A customer with no accounts yields an empty slice, not an error.
func (c *AccountsClient) GetAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountsClient.GetAccountsByCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var accounts []domain.Account
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/accounts/customer/%s", c.baseURL, customerID)
			return getJSON(ctx, c.httpClient, url, &accounts, "accounts", customerID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return accounts, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("account", "GetAccountsByCustomer", err)
	}
	return result.([]domain.Account), nil
}

// GetAccount returns a single account by ID.
func (c *AccountsClient) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountsClient.GetAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID))

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var account domain.Account
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/accounts/%s", c.baseURL, accountID)
			return getJSON(ctx, c.httpClient, url, &account, "account", accountID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return &account, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("account", "GetAccount", err)
	}
	return result.(*domain.Account), nil
}
