// Package calendar holds the pure date arithmetic behind the budgeting
// cycle: month ids, day clamping and the credit-card statement/due cycle.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidMonthID = errors.New("invalid month id")

const DateLayout = "2006-01-02"

// MonthID formats a date as the canonical "YYYY-MM" budgeting period key.
func MonthID(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func CurrentMonthID() string {
	return MonthID(time.Now())
}

// ParseMonthID splits a "YYYY-MM" id into year and month.
func ParseMonthID(id string) (int, int, error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || len(id) != 7 {
		return 0, 0, ErrInvalidMonthID
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidMonthID
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonthID
	}
	return year, month, nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay caps day to the length of the month, so a template due on the
// 30th still lands on a valid date in February.
func ClampDay(year, month, day int) int {
	last := DaysInMonth(year, month)
	if day > last {
		return last
	}
	return day
}

// PreviousMonthID subtracts one calendar month from a "YYYY-MM" id.
func PreviousMonthID(id string) (string, error) {
	year, month, err := ParseMonthID(id)
	if err != nil {
		return "", err
	}
	if month == 1 {
		return fmt.Sprintf("%04d-12", year-1), nil
	}
	return fmt.Sprintf("%04d-%02d", year, month-1), nil
}

// NextMonthID adds one calendar month to a "YYYY-MM" id.
func NextMonthID(id string) (string, error) {
	year, month, err := ParseMonthID(id)
	if err != nil {
		return "", err
	}
	if month == 12 {
		return fmt.Sprintf("%04d-01", year+1), nil
	}
	return fmt.Sprintf("%04d-%02d", year, month+1), nil
}

// MonthOptions lists the month ids from start through monthsAhead months
// later, inclusive.
func MonthOptions(start time.Time, monthsAhead int) []string {
	options := make([]string, 0, monthsAhead+1)
	year, month := start.Year(), int(start.Month())
	for i := 0; i <= monthsAhead; i++ {
		options = append(options, fmt.Sprintf("%04d-%02d", year, month))
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return options
}

// TemplateDate places a recurring template inside a month, clamping the due
// day to the month's length.
func TemplateDate(monthID string, dueDay int) (time.Time, error) {
	year, month, err := ParseMonthID(monthID)
	if err != nil {
		return time.Time{}, err
	}
	day := ClampDay(year, month, dueDay)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// CreditCardCycle computes the statement month, due month and due date for a
// card purchase. A purchase after the (clamped) statement close day rolls to
// the next statement month; the due month is always the month after the
// statement month, with the due day clamped to its length.
func CreditCardCycle(txDate time.Time, statementCloseDay, dueDay int) (string, string, time.Time) {
	year, month := txDate.Year(), int(txDate.Month())
	closeDay := ClampDay(year, month, statementCloseDay)

	stmtYear, stmtMonth := year, month
	if txDate.Day() > closeDay {
		stmtMonth++
		if stmtMonth > 12 {
			stmtMonth = 1
			stmtYear++
		}
	}
	statementMonthID := fmt.Sprintf("%04d-%02d", stmtYear, stmtMonth)

	dueYear, dueMonth := stmtYear, stmtMonth+1
	if dueMonth > 12 {
		dueMonth = 1
		dueYear++
	}
	dueDate := time.Date(dueYear, time.Month(dueMonth), ClampDay(dueYear, dueMonth, dueDay), 0, 0, 0, 0, time.UTC)
	return statementMonthID, MonthID(dueDate), dueDate
}
