package domain

import (
	"testing"
	"time"
)

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full pan", "4532015112830366", "****0366"},
		{"already masked", "****0366", "****0366"},
		{"exactly four digits", "0366", "****0366"},
		{"too short", "12", "****"},
		{"empty", "", "****"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskCardNumber(tt.in); got != tt.want {
				t.Errorf("MaskCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskCardNumber_Idempotent(t *testing.T) {
	once := MaskCardNumber("4532015112830366")
	twice := MaskCardNumber(once)
	if once != twice {
		t.Errorf("masking is not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeAccountType(t *testing.T) {
	tests := []struct {
		in   string
		want AccountType
	}{
		{"SAVING", AccountTypeSaving},
		{"CHECKING", AccountTypeChecking},
		{"FIXED_TERM", AccountTypeFixedTerm},
		{"SAVINGS", AccountTypeSaving},
		{"CURRENT", AccountTypeChecking},
		{"FIXED", AccountTypeFixedTerm},
		{"PREMIUM", AccountTypeSaving}, // falls back to default
		{"", AccountTypeSaving},
	}
	for _, tt := range tests {
		if got := NormalizeAccountType(tt.in, AccountTypeSaving); got != tt.want {
			t.Errorf("NormalizeAccountType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCreditType(t *testing.T) {
	tests := []struct {
		in   string
		want CreditType
	}{
		{"PERSONAL", CreditTypePersonal},
		{"BUSINESS", CreditTypeBusiness},
		{"CREDIT_CARD", CreditTypeCreditCard},
		{"PERSONAL_LOAN", CreditTypePersonal},
		{"BUSINESS_LOAN", CreditTypeBusiness},
		{"MORTGAGE", CreditTypePersonal}, // falls back to default
	}
	for _, tt := range tests {
		if got := NormalizeCreditType(tt.in, CreditTypePersonal); got != tt.want {
			t.Errorf("NormalizeCreditType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransactionMatchesPeriod(t *testing.T) {
	march := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	if !(Transaction{CreatedAt: &march}).MatchesPeriod("202603") {
		t.Error("expected March timestamp to match 202603")
	}
	if (Transaction{CreatedAt: &march}).MatchesPeriod("202604") {
		t.Error("March timestamp must not match 202604")
	}
	if (Transaction{}).MatchesPeriod("202603") {
		t.Error("a transaction without a timestamp must not match any period")
	}
}
