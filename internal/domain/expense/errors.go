package expense

import "github.com/retailpos/backend/internal/domain/shared"

// Domain errors for the recurring expense engine
var (
	// ErrInvalidFrequency indicates a frequency value outside the fixed enum.
	// It only arises from corrupted or malformed stored configuration and is
	// treated as a programming error, not a business error.
	ErrInvalidFrequency = shared.NewDomainError("INVALID_FREQUENCY", "Recurrence frequency is not one of daily, weekly, monthly, yearly")

	// ErrInvalidConfig indicates a recurring configuration that fails
	// validation (interval < 1, end date not after start date, ...)
	ErrInvalidConfig = shared.NewDomainError("INVALID_CONFIG", "Recurring configuration is invalid")

	// ErrNumberGeneration indicates the expense number sequence could not be
	// advanced. No expense may be persisted without a generated number.
	ErrNumberGeneration = shared.NewDomainError("NUMBER_GENERATION_FAILED", "Failed to generate expense number")
)
