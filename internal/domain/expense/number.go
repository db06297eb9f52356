package expense

import (
	"fmt"
	"regexp"
	"strconv"
)

// Expense numbers follow EXP-<year>-<seq>: seq is a base-10 integer starting
// at 1, zero-padded to at least 3 digits, strictly increasing within a
// (tenant, year) pair.
const expenseNumberPrefix = "EXP"

var expenseNumberPattern = regexp.MustCompile(`^EXP-(\d{4})-(\d{3,})$`)

// FormatExpenseNumber renders an expense number for a year and sequence value
func FormatExpenseNumber(year int, sequence int64) string {
	return fmt.Sprintf("%s-%d-%03d", expenseNumberPrefix, year, sequence)
}

// ParseExpenseNumber extracts the year and sequence from a well-formed
// expense number
func ParseExpenseNumber(number string) (year int, sequence int64, err error) {
	matches := expenseNumberPattern.FindStringSubmatch(number)
	if matches == nil {
		return 0, 0, fmt.Errorf("malformed expense number %q", number)
	}

	year, err = strconv.Atoi(matches[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed expense number %q: %w", number, err)
	}
	sequence, err = strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed expense number %q: %w", number, err)
	}
	if sequence < 1 {
		return 0, 0, fmt.Errorf("expense number sequence must start at 1, got %q", number)
	}
	return year, sequence, nil
}

// IsValidExpenseNumber reports whether the string is a well-formed expense number
func IsValidExpenseNumber(number string) bool {
	_, _, err := ParseExpenseNumber(number)
	return err == nil
}
