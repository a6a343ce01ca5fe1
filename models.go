package dompower

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// UnitKWh is the unit every interval record carries; the provider meters
// consumption in kilowatt-hours only.
const UnitKWh = "kWh"

// IntervalDuration is the provider's metering resolution.
const IntervalDuration = 30 * time.Minute

// TokenPair is an access/refresh token pair. The provider rotates both
// values together on every refresh; a pair is never updated one half at
// a time.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (p TokenPair) valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// IntervalUsageRecord is the consumption metered for one 30-minute
// interval. Timestamp is the interval start.
type IntervalUsageRecord struct {
	Timestamp   time.Time
	Consumption float64
	Unit        string
}

// DateRange selects the calendar days to export, both ends inclusive.
type DateRange struct {
	Start strfmt.Date
	End   strfmt.Date
}

// Validate rejects ranges whose start falls after their end.
func (r DateRange) Validate() error {
	if time.Time(r.End).Before(time.Time(r.Start)) {
		return fmt.Errorf("invalid date range: start %s is after end %s", r.Start, r.End)
	}
	return nil
}
