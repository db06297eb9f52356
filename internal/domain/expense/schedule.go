package expense

import (
	"time"
)

// Frequency represents the cadence unit of a recurring template
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// IsValid checks if the frequency is a valid Frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// NextDueDate returns the due date that follows current for the given cadence.
// Month and year steps use Go's normalized calendar arithmetic, so
// Jan 31 + 1 month lands on Mar 2 (or Mar 3 in leap years). The convention is
// applied consistently on every advance.
func NextDueDate(current time.Time, frequency Frequency, interval int) (time.Time, error) {
	if interval < 1 {
		return time.Time{}, ErrInvalidConfig
	}

	switch frequency {
	case FrequencyDaily:
		return current.AddDate(0, 0, interval), nil
	case FrequencyWeekly:
		return current.AddDate(0, 0, interval*7), nil
	case FrequencyMonthly:
		return current.AddDate(0, interval, 0), nil
	case FrequencyYearly:
		return current.AddDate(interval, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidFrequency
	}
}

// RecurringConfig holds the schedule of a recurring template
type RecurringConfig struct {
	Frequency   Frequency  `json:"frequency"`
	Interval    int        `json:"interval"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	NextDueDate time.Time  `json:"next_due_date"`
}

// Validate checks the configuration against the schedule invariants
func (c RecurringConfig) Validate() error {
	if !c.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if c.Interval < 1 {
		return ErrInvalidConfig
	}
	if c.StartDate.IsZero() {
		return ErrInvalidConfig
	}
	if c.EndDate != nil && !c.EndDate.After(c.StartDate) {
		return ErrInvalidConfig
	}
	return nil
}

// IsActive reports whether the template should still fire as of the given
// time: true iff the end date is unset or has not yet passed. A template that
// is due but no longer active lapses without generating or advancing.
func (c RecurringConfig) IsActive(asOf time.Time) bool {
	if c.EndDate == nil {
		return true
	}
	return !asOf.After(*c.EndDate)
}

// IsDue reports whether the next due date is on or before the given time
func (c RecurringConfig) IsDue(asOf time.Time) bool {
	return !c.NextDueDate.After(asOf)
}
