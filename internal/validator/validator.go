package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidMonthID  = errors.New("invalid month id")
	ErrInvalidDay      = errors.New("invalid day of month")
	ErrInvalidName     = errors.New("invalid name")
)

var (
	// usernames double as data file names, so keep them filesystem-safe
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	monthIDRegex  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateMonthID(monthID string) error {
	if !monthIDRegex.MatchString(monthID) {
		return ErrInvalidMonthID
	}
	return nil
}

// ValidateDay checks a template due day or card cycle day. Day 29-31 is
// allowed; materialization clamps it to the month's length.
func ValidateDay(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	return nil
}

func ValidateName(name string) error {
	if name == "" || len(name) > 100 {
		return ErrInvalidName
	}
	return nil
}
