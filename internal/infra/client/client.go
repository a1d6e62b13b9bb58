// Package client implements the HTTP clients for the four backing
// services. Each client owns one circuit breaker and applies retry with
// backoff plus a per-call timeout; 404 responses become typed not-found
// errors, everything else becomes a service-unavailable outcome.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("client")

// getJSON issues a GET and decodes the JSON body into out.
// A 404 is returned as a permanent (non-retryable) not-found error.
func getJSON(ctx context.Context, httpClient *http.Client, url string, out any, resource, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resilience.Permanent(&domain.ErrNotFound{Resource: resource, ID: id})
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API returned status %d", resource, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// classifyError maps a failed call onto the domain error taxonomy.
// Not-found passes through untouched; breaker and deadline failures get
// their own kinds; anything else is a generic unavailable outcome.
func classifyError(service, operation string, err error) error {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		return notFound
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: service}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: operation}
	}
	return &domain.ErrServiceUnavailable{Service: service, Err: err}
}
