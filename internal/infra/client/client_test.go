package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/resilience"
)

func testConfig() resilience.Config {
	return resilience.Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxConcurrency: 10,
	}
}

func TestAccountsClient_GetAccountsByCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/accounts/customer/cust-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"acc-1","accountNumber":"0001","accountType":"SAVINGS","customerId":"cust-1","balance":"150.50","active":true}]`))
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("account", nil)
	c := NewAccountsClient(server.Client(), server.URL, cb, testConfig(), 3*time.Second, 2*time.Second)

	accounts, err := c.GetAccountsByCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].ID != "acc-1" {
		t.Errorf("expected 'acc-1', got '%s'", accounts[0].ID)
	}
	if accounts[0].Balance.String() != "150.5" {
		t.Errorf("expected balance 150.5, got %s", accounts[0].Balance)
	}
}

func TestAccountsClient_GetAccount_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("account", nil)
	c := NewAccountsClient(server.Client(), server.URL, cb, testConfig(), 3*time.Second, 2*time.Second)

	_, err := c.GetAccount(context.Background(), "missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.ID != "missing" {
		t.Errorf("expected ID 'missing', got '%s'", notFound.ID)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("404 must not be retried, got %d calls", got)
	}
}

func TestCreditsClient_ServerErrorIsRetriedThenUnavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("credit", nil)
	c := NewCreditsClient(server.Client(), server.URL, cb, testConfig(), 3*time.Second, 2*time.Second)

	_, err := c.GetCreditsByCustomer(context.Background(), "cust-1")
	var unavailable *domain.ErrServiceUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if unavailable.Service != "credit" {
		t.Errorf("expected service 'credit', got '%s'", unavailable.Service)
	}
	// MaxRetries=2 means 3 attempts total.
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestCreditsClient_RecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cred-1","creditNumber":"C-9","creditType":"PERSONAL_LOAN","customerId":"cust-1","creditLimit":"5000","availableCredit":"4200","active":true}`))
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("credit", nil)
	c := NewCreditsClient(server.Client(), server.URL, cb, testConfig(), 3*time.Second, 2*time.Second)

	credit, err := c.GetCredit(context.Background(), "cred-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if credit.ID != "cred-1" {
		t.Errorf("expected 'cred-1', got '%s'", credit.ID)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestDebitClient_OpenBreakerShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("debit", nil)
	c := NewDebitClient(server.Client(), server.URL, cb, testConfig(), 2*time.Second)

	// Trip the breaker: needs >=5 requests with >=60% failures.
	for i := 0; i < 6; i++ {
		c.GetDebitCard(context.Background(), "deb-1")
	}

	_, err := c.GetDebitCard(context.Background(), "deb-1")
	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if open.Service != "debit" {
		t.Errorf("expected service 'debit', got '%s'", open.Service)
	}
}

func TestTransactionsClient_TimeoutMapsToErrTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRetries = 0
	cb := resilience.NewCircuitBreaker("transaction", nil)
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)
	c := NewTransactionsClient(server.Client(), server.URL, cb, cfg, bulkhead, 50*time.Millisecond)

	_, err := c.GetTransactionsByCustomer(context.Background(), "cust-1")
	var timeout *domain.ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestTransactionsClient_GetTransactionsByCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/customer/cust-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"txn-1","transactionType":"DEPOSIT","amount":"100","accountId":"acc-1","customerId":"cust-1","status":"COMPLETED"},{"id":"txn-2","transactionType":"PAYMENT","amount":"50","creditId":"cred-1","customerId":"cust-1","status":"PENDING"}]`))
	}))
	defer server.Close()

	cfg := testConfig()
	cb := resilience.NewCircuitBreaker("transaction", nil)
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)
	c := NewTransactionsClient(server.Client(), server.URL, cb, cfg, bulkhead, 5*time.Second)

	transactions, err := c.GetTransactionsByCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].Status != domain.TransactionCompleted {
		t.Errorf("expected COMPLETED, got %s", transactions[0].Status)
	}
	if transactions[1].CreditID != "cred-1" {
		t.Errorf("expected creditId 'cred-1', got '%s'", transactions[1].CreditID)
	}
}
