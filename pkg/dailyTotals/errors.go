package dailyTotals

import (
	"errors"
	"fmt"
	"time"

	"bankStatementReport/constants"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAuthentication  = errors.New("authentication failed")
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrUpstream        = errors.New("upstream failure")
	ErrSerialization   = errors.New("serialization failure")
)

// ValidateRange fails with ErrInvalidRange when start is after end.
func ValidateRange(start, end time.Time) error {
	if DayOf(start).After(DayOf(end)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format(constants.CLI_DATE_LAYOUT), end.Format(constants.CLI_DATE_LAYOUT))
	}
	return nil
}
