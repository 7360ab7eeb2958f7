package handlers

import (
	"budget/internal/money"
	"budget/internal/validator"
)

// parseAmountMinor converts a decimal amount string to positive minor units.
func parseAmountMinor(raw string) (int64, bool) {
	value, err := money.ParseMinor(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func validMonthID(monthID string) bool {
	return validator.ValidateMonthID(monthID) == nil
}
