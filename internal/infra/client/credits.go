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

// CreditsClient calls the Credit service.
type CreditsClient struct {
	httpClient    *http.Client
	baseURL       string
	cb            *gobreaker.CircuitBreaker
	cfg           resilience.Config
	listTimeout   time.Duration
	lookupTimeout time.Duration
}

// NewCreditsClient creates a client for the Credit service.
func NewCreditsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, listTimeout, lookupTimeout time.Duration) *CreditsClient {
	return &CreditsClient{
		httpClient:    httpClient,
		baseURL:       baseURL,
		cb:            cb,
		cfg:           cfg,
		listTimeout:   listTimeout,
		lookupTimeout: lookupTimeout,
	}
}

// GetCreditsByCustomer returns all credit products owned by a customer.
func (c *CreditsClient) GetCreditsByCustomer(ctx context.Context, customerID string) ([]domain.Credit, error) {
	ctx, span := tracer.Start(ctx, "CreditsClient.GetCreditsByCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var credits []domain.Credit
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/credits/customer/%s", c.baseURL, customerID)
			return getJSON(ctx, c.httpClient, url, &credits, "credits", customerID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return credits, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("credit", "GetCreditsByCustomer", err)
	}
	return result.([]domain.Credit), nil
}

// GetCredit returns a single credit product by ID.
func (c *CreditsClient) GetCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	ctx, span := tracer.Start(ctx, "CreditsClient.GetCredit")
	defer span.End()
	span.SetAttributes(attribute.String("credit.id", creditID))

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var credit domain.Credit
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/credits/%s", c.baseURL, creditID)
			return getJSON(ctx, c.httpClient, url, &credit, "credit", creditID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return &credit, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("credit", "GetCredit", err)
	}
	return result.(*domain.Credit), nil
}
