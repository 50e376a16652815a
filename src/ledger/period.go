package ledger

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"fintrack-server/src/models"
)

// Period is a closed calendar-date interval [Start, End].
type Period struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

func NewPeriod(start, end civil.Date) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ParsePeriod reads a pair of YYYY-MM-DD bounds. Both empty means no period and
// yields nil; supplying only one bound is rejected.
func ParsePeriod(start, end string) (*Period, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start and end dates are required", ErrInvalidPeriod)
	}
	s, err := civil.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalidPeriod, start)
	}
	e, err := civil.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrInvalidPeriod, end)
	}
	p, err := NewPeriod(s, e)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MonthPeriod covers the first through the last day of the given month.
func MonthPeriod(year int, month time.Month) (Period, error) {
	if year < 1 || month < time.January || month > time.December {
		return Period{}, fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, year, int(month))
	}
	start := civil.Date{Year: year, Month: month, Day: 1}
	// Day 0 of the following month normalizes to the last day of this one.
	end := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	return Period{Start: start, End: end}, nil
}

// CurrentMonth is the month containing now, in now's location.
func CurrentMonth(now time.Time) Period {
	p, _ := MonthPeriod(now.Year(), now.Month())
	return p
}

func (p Period) Validate() error {
	if !p.Start.IsValid() || !p.End.IsValid() {
		return fmt.Errorf("%w: %s..%s", ErrInvalidPeriod, p.Start, p.End)
	}
	if p.Start.After(p.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidPeriod, p.Start, p.End)
	}
	return nil
}

func (p Period) Contains(d civil.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return p.Start.String() + ".." + p.End.String()
}

// Filter returns a store filter bounded by the period.
func (p *Period) Filter() models.TransactionFilter {
	if p == nil {
		return models.TransactionFilter{}
	}
	start, end := p.Start, p.End
	return models.TransactionFilter{StartDate: &start, EndDate: &end}
}
