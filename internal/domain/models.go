// Package domain defines the core business entities for the customer
// report service. These models are independent of the backing services
// and represent the canonical data structures used throughout the
// aggregation pipeline.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Enumerations
// ============================================================

// AccountType classifies a deposit account.
type AccountType string

const (
	AccountTypeSaving    AccountType = "SAVING"
	AccountTypeChecking  AccountType = "CHECKING"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

// CreditType classifies a credit product.
type CreditType string

const (
	CreditTypePersonal   CreditType = "PERSONAL"
	CreditTypeBusiness   CreditType = "BUSINESS"
	CreditTypeCreditCard CreditType = "CREDIT_CARD"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionPending   TransactionStatus = "PENDING"
)

// NormalizeAccountType maps a raw account-type string from a backing
// service onto the closed AccountType set. Known aliases are folded in;
// anything unrecognized falls back to def.
func NormalizeAccountType(raw string, def AccountType) AccountType {
	switch AccountType(raw) {
	case AccountTypeSaving, AccountTypeChecking, AccountTypeFixedTerm:
		return AccountType(raw)
	}
	switch raw {
	case "SAVINGS":
		return AccountTypeSaving
	case "CURRENT":
		return AccountTypeChecking
	case "FIXED":
		return AccountTypeFixedTerm
	}
	return def
}

// NormalizeCreditType maps a raw credit-type string onto the closed
// CreditType set, falling back to def for unrecognized input.
func NormalizeCreditType(raw string, def CreditType) CreditType {
	switch CreditType(raw) {
	case CreditTypePersonal, CreditTypeBusiness, CreditTypeCreditCard:
		return CreditType(raw)
	}
	switch raw {
	case "PERSONAL_LOAN":
		return CreditTypePersonal
	case "BUSINESS_LOAN":
		return CreditTypeBusiness
	}
	return def
}

// MaskCardNumber hides all but the last four digits of a card number.
// Masking is idempotent: an already-masked value is returned unchanged.
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) < 4 {
		return "****"
	}
	if cardNumber[0] == '*' {
		return cardNumber
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}

// ============================================================
// Backing-service entities (read-only projections)
// ============================================================

// Account is a deposit account as returned by the Account service.
type Account struct {
	ID             string           `json:"id"`
	AccountNumber  string           `json:"accountNumber"`
	AccountType    string           `json:"accountType"`
	CustomerID     string           `json:"customerId"`
	Balance        decimal.Decimal  `json:"balance"`
	MaintenanceFee *decimal.Decimal `json:"maintenanceFee,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
}

// Credit is a credit product as returned by the Credit service.
type Credit struct {
	ID              string           `json:"id"`
	CreditNumber    string           `json:"creditNumber"`
	CreditType      string           `json:"creditType"`
	CustomerID      string           `json:"customerId"`
	CreditLimit     decimal.Decimal  `json:"creditLimit"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	AvailableCredit decimal.Decimal  `json:"availableCredit"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	Active          bool             `json:"active"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
}

// DebitCard is a debit card as returned by the Debit service.
// A customer has at most one; absence is not an error.
type DebitCard struct {
	ID                 string     `json:"id"`
	CustomerID         string     `json:"customerId"`
	PrimaryAccountID   string     `json:"primaryAccountId"`
	AssociatedAccounts []string   `json:"associatedAccounts,omitempty"`
	CardNumber         string     `json:"cardNumber"`
	Active             bool       `json:"active"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
}

// Transaction is a single movement as returned by the Transaction
// service. Exactly one of AccountID/CreditID identifies the owner.
type Transaction struct {
	ID              string             `json:"id"`
	TransactionType string             `json:"transactionType"`
	Amount          decimal.Decimal    `json:"amount"`
	AccountID       string             `json:"accountId,omitempty"`
	CreditID        string             `json:"creditId,omitempty"`
	CustomerID      string             `json:"customerId"`
	Status          TransactionStatus  `json:"status"`
	Description     string             `json:"description,omitempty"`
	BalanceAfter    *decimal.Decimal   `json:"balanceAfter,omitempty"`
	Commission      *decimal.Decimal   `json:"commission,omitempty"`
	CreatedAt       *time.Time         `json:"createdAt,omitempty"`
	Period          string             `json:"period,omitempty"`
}

// MatchesPeriod reports whether the transaction's creation timestamp
// falls in the given YYYYMM period. A transaction without a timestamp
// never matches any period.
func (t Transaction) MatchesPeriod(period string) bool {
	if t.CreatedAt == nil {
		return false
	}
	return t.CreatedAt.UTC().Format("200601") == period
}

// ============================================================
// Consolidated product views
// ============================================================

// AccountSummary is the account projection in a consolidated view.
type AccountSummary struct {
	ID             string           `json:"id"`
	AccountNumber  string           `json:"accountNumber"`
	AccountType    AccountType      `json:"accountType"`
	Balance        decimal.Decimal  `json:"balance"`
	MaintenanceFee *decimal.Decimal `json:"maintenanceFee,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
}

// CreditSummary is the credit projection in a consolidated view.
type CreditSummary struct {
	ID              string           `json:"id"`
	CreditNumber    string           `json:"creditNumber"`
	CreditType      CreditType       `json:"creditType"`
	CreditLimit     decimal.Decimal  `json:"creditLimit"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	AvailableCredit decimal.Decimal  `json:"availableCredit"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	Active          bool             `json:"active"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
}

// DebitCardSummary is the debit-card projection in a consolidated view.
// CardNumber is always masked; the original value is never retained.
type DebitCardSummary struct {
	ID                      string     `json:"id"`
	CardNumber              string     `json:"cardNumber"`
	PrimaryAccountID        string     `json:"primaryAccountId"`
	AssociatedAccountsCount int        `json:"associatedAccountsCount"`
	Active                  bool       `json:"active"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
}

// ProductsSummary carries per-category product counts.
type ProductsSummary struct {
	TotalAccounts   int `json:"totalAccounts"`
	TotalCredits    int `json:"totalCredits"`
	TotalDebitCards int `json:"totalDebitCards"`
	TotalProducts   int `json:"totalProducts"`
}

// CustomerProducts is the consolidated product view for one customer.
type CustomerProducts struct {
	CustomerID  string             `json:"customerId"`
	HasProducts bool               `json:"hasProducts"`
	Accounts    []AccountSummary   `json:"accounts"`
	Credits     []CreditSummary    `json:"credits"`
	DebitCards  []DebitCardSummary `json:"debitCards"`
	Summary     ProductsSummary    `json:"summary"`
}

// ============================================================
// Consolidated views with transactions
// ============================================================

// TransactionSummary is the transaction projection attached to a product.
type TransactionSummary struct {
	ID              string            `json:"id"`
	TransactionType string            `json:"transactionType"`
	Amount          decimal.Decimal   `json:"amount"`
	Status          TransactionStatus `json:"status"`
	Description     string            `json:"description,omitempty"`
	BalanceAfter    *decimal.Decimal  `json:"balanceAfter,omitempty"`
	Commission      *decimal.Decimal  `json:"commission,omitempty"`
	CreatedAt       *time.Time        `json:"createdAt,omitempty"`
	Period          string            `json:"period,omitempty"`
}

// AccountWithTransactions is an account summary plus its owned,
// completed transactions.
type AccountWithTransactions struct {
	AccountSummary
	Transactions []TransactionSummary `json:"transactions"`
}

// CreditWithTransactions is a credit summary plus its owned,
// completed transactions.
type CreditWithTransactions struct {
	CreditSummary
	Transactions []TransactionSummary `json:"transactions"`
}

// ProductsTransactionsSummary extends the product counts with
// transaction counts.
type ProductsTransactionsSummary struct {
	ProductsSummary
	TotalTransactions        int `json:"totalTransactions"`
	TotalAccountTransactions int `json:"totalAccountTransactions"`
	TotalCreditTransactions  int `json:"totalCreditTransactions"`
}

// CustomerProductsTransactions is the consolidated product view with
// per-product transaction history.
type CustomerProductsTransactions struct {
	CustomerID  string                      `json:"customerId"`
	HasProducts bool                        `json:"hasProducts"`
	Accounts    []AccountWithTransactions   `json:"accounts"`
	Credits     []CreditWithTransactions    `json:"credits"`
	DebitCards  []DebitCardSummary          `json:"debitCards"`
	Summary     ProductsTransactionsSummary `json:"summary"`
}

// ============================================================
// Report results
// ============================================================

// CommissionAverage is the result of the average-commission report.
type CommissionAverage struct {
	ReportID       string          `json:"reportId,omitempty"`
	AccountID      string          `json:"accountId,omitempty"`
	Period         string          `json:"period"`
	AvgCommissions decimal.Decimal `json:"avgCommissions"`
}

// DailyAverage is the result of the daily balance-average report.
type DailyAverage struct {
	ReportID  string          `json:"reportId,omitempty"`
	AccountID string          `json:"accountId,omitempty"`
	Period    string          `json:"period"`
	AvgDaily  decimal.Decimal `json:"avgDaily"`
}

// DebitPrimaryAccountBalance reports the balance of the account a debit
// card draws from.
type DebitPrimaryAccountBalance struct {
	DebitID       string          `json:"debitId"`
	AccountID     string          `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	CardNumber    string          `json:"cardNumber"`
	Active        bool            `json:"active"`
}
