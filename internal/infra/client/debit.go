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

// DebitClient calls the Debit service. A customer has at most one debit
// card, so the by-customer lookup returns a single card or a not-found.
type DebitClient struct {
	httpClient    *http.Client
	baseURL       string
	cb            *gobreaker.CircuitBreaker
	cfg           resilience.Config
	lookupTimeout time.Duration
}

// NewDebitClient creates a client for the Debit service.
func NewDebitClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, lookupTimeout time.Duration) *DebitClient {
	return &DebitClient{
		httpClient:    httpClient,
		baseURL:       baseURL,
		cb:            cb,
		cfg:           cfg,
		lookupTimeout: lookupTimeout,
	}
}

// GetDebitCardByCustomer returns the customer's debit card, or a
// not-found error when the customer has none.
func (c *DebitClient) GetDebitCardByCustomer(ctx context.Context, customerID string) (*domain.DebitCard, error) {
	ctx, span := tracer.Start(ctx, "DebitClient.GetDebitCardByCustomer")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID))

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var card domain.DebitCard
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/debit-cards/customer/%s", c.baseURL, customerID)
			return getJSON(ctx, c.httpClient, url, &card, "debit card", customerID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return &card, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("debit", "GetDebitCardByCustomer", err)
	}
	return result.(*domain.DebitCard), nil
}

// GetDebitCard returns a single debit card by ID.
func (c *DebitClient) GetDebitCard(ctx context.Context, debitID string) (*domain.DebitCard, error) {
	ctx, span := tracer.Start(ctx, "DebitClient.GetDebitCard")
	defer span.End()
	span.SetAttributes(attribute.String("debit.id", debitID))

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	result, err := c.cb.Execute(func() (any, error) {
		var card domain.DebitCard
		retryErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/api/debit-cards/%s", c.baseURL, debitID)
			return getJSON(ctx, c.httpClient, url, &card, "debit card", debitID)
		})
		if retryErr != nil {
			return nil, retryErr
		}
		return &card, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, classifyError("debit", "GetDebitCard", err)
	}
	return result.(*domain.DebitCard), nil
}
