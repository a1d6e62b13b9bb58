package service

import (
	"context"
	"testing"
	"time"

	"github.com/bankcore/report-service-go/internal/domain"
	"github.com/bankcore/report-service-go/internal/infra/observability"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func newReportService(transactions *mockTransactions, policy string) *ReportService {
	return NewReportService(transactions, zap.NewNop(), observability.NewMetrics(), policy)
}

func TestAverageCommissions_RoundsHalfUp(t *testing.T) {
	transactions := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", Commission: dec("1.00"), CreatedAt: at(2026, 3, 2), Status: domain.TransactionCompleted},
			{ID: "txn-2", AccountID: "acc-1", Commission: dec("2.01"), CreatedAt: at(2026, 3, 15), Status: domain.TransactionCompleted},
			// Zero commission is excluded from the average.
			{ID: "txn-3", AccountID: "acc-1", Commission: dec("0"), CreatedAt: at(2026, 3, 20), Status: domain.TransactionCompleted},
			// No commission at all.
			{ID: "txn-4", AccountID: "acc-1", CreatedAt: at(2026, 3, 21), Status: domain.TransactionCompleted},
			// Outside the period.
			{ID: "txn-5", AccountID: "acc-1", Commission: dec("9.99"), CreatedAt: at(2026, 4, 1), Status: domain.TransactionCompleted},
		}, nil
	}}

	svc := newReportService(transactions, AccountIDFirstMatch)

	report, err := svc.AverageCommissions(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	// (1.00 + 2.01) / 2 = 1.505 -> 1.51 half-up.
	if report.AvgCommissions.String() != "1.51" {
		t.Errorf("expected 1.51, got %s", report.AvgCommissions)
	}
	if report.AccountID != "acc-1" {
		t.Errorf("expected account 'acc-1', got '%s'", report.AccountID)
	}
	if report.Period != "202603" {
		t.Errorf("expected period '202603', got '%s'", report.Period)
	}
	if report.ReportID == "" {
		t.Error("expected a generated report id")
	}
}

func TestAverageCommissions_NoDataYieldsNilNil(t *testing.T) {
	transactions := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			// Matching period but no positive commission.
			{ID: "txn-1", AccountID: "acc-1", Commission: dec("0"), CreatedAt: at(2026, 3, 2)},
			// Timestamp missing: never matches any period.
			{ID: "txn-2", AccountID: "acc-1", Commission: dec("5.00")},
		}, nil
	}}

	svc := newReportService(transactions, AccountIDFirstMatch)

	report, err := svc.AverageCommissions(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}

func TestAverageCommissions_FetchFailureDegradesToNoData(t *testing.T) {
	transactions := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return nil, &domain.ErrServiceUnavailable{Service: "transaction", Err: context.DeadlineExceeded}
	}}

	svc := newReportService(transactions, AccountIDFirstMatch)

	report, err := svc.AverageCommissions(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("a degraded history fetch must not fail the report: %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}

func TestAverageDailyBalance_NilBalanceCountsAsZero(t *testing.T) {
	transactions := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", BalanceAfter: dec("100"), CreatedAt: at(2026, 3, 1)},
			{ID: "txn-2", AccountID: "acc-1", CreatedAt: at(2026, 3, 2)},
			{ID: "txn-3", AccountID: "acc-1", BalanceAfter: dec("200"), CreatedAt: at(2026, 3, 3)},
		}, nil
	}}

	svc := newReportService(transactions, AccountIDFirstMatch)

	report, err := svc.AverageDailyBalance(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatal("expected a report")
	}
	// (100 + 0 + 200) / 3 = 100.00
	if report.AvgDaily.String() != "100" {
		t.Errorf("expected 100, got %s", report.AvgDaily)
	}
}

func TestAverageDailyBalance_NoTransactionsInPeriod(t *testing.T) {
	transactions := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", BalanceAfter: dec("100"), CreatedAt: at(2026, 1, 1)},
		}, nil
	}}

	svc := newReportService(transactions, AccountIDFirstMatch)

	report, err := svc.AverageDailyBalance(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}

func TestReportAccountID_Policies(t *testing.T) {
	mixed := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", BalanceAfter: dec("10"), CreatedAt: at(2026, 3, 1)},
			{ID: "txn-2", AccountID: "acc-2", BalanceAfter: dec("20"), CreatedAt: at(2026, 3, 2)},
		}, nil
	}}

	first := newReportService(mixed, AccountIDFirstMatch)
	report, err := first.AverageDailyBalance(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AccountID != "acc-1" {
		t.Errorf("first_match: expected 'acc-1', got '%s'", report.AccountID)
	}

	omit := newReportService(mixed, AccountIDOmitWhenMixed)
	report, err = omit.AverageDailyBalance(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AccountID != "" {
		t.Errorf("omit_when_mixed: expected empty account id, got '%s'", report.AccountID)
	}

	single := &mockTransactions{byCustomer: func(ctx context.Context, id string) ([]domain.Transaction, error) {
		return []domain.Transaction{
			{ID: "txn-1", AccountID: "acc-1", BalanceAfter: dec("10"), CreatedAt: at(2026, 3, 1)},
			{ID: "txn-2", AccountID: "acc-1", BalanceAfter: dec("20"), CreatedAt: at(2026, 3, 2)},
		}, nil
	}}
	omitSingle := newReportService(single, AccountIDOmitWhenMixed)
	report, err = omitSingle.AverageDailyBalance(context.Background(), "cust-1", "202603")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.AccountID != "acc-1" {
		t.Errorf("omit_when_mixed with one account: expected 'acc-1', got '%s'", report.AccountID)
	}
}
