package models

import (
	"time"

	basketdomain "github.com/ghuser/basketctx/services/basket/domain"
)

// DateRange is an immutable period with an exclusive ordering constraint
// (Start must be strictly before End) and inclusive containment checks.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange constructs a validated DateRange.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if !start.Before(end) {
		return DateRange{}, basketdomain.Validationf("date range start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return DateRange{start: start, end: end}, nil
}

// Start returns the beginning of the period.
func (r DateRange) Start() time.Time { return r.start }

// End returns the end of the period.
func (r DateRange) End() time.Time { return r.end }

// Contains reports whether t falls within the period, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Equal reports structural equality.
func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}
