package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks that a currency code is ISO 4217 and is the one
// the slot API settles in.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	if currency != Currency {
		return fmt.Errorf("unsupported currency: %s, want %s", currency, Currency)
	}
	return nil
}

// ValidateUserID checks that a user id is positive.
func ValidateUserID(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", userID)
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is strictly positive.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	return nil
}

// ValidateNonNegativeAmount checks that an amount is zero or positive.
func ValidateNonNegativeAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative, got %s", amount)
	}
	return nil
}
