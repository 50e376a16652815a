package ledger

import (
	"context"
	"fmt"
	"io"
	"time"

	"fintrack-server/src/models"
)

// Store is the read side of the ledger tables. Every result is already scoped
// to owner.
type Store interface {
	FetchTransactions(ctx context.Context, owner int64, filter models.TransactionFilter) ([]models.Transaction, error)
	FetchCategories(ctx context.Context, owner int64, typ *models.TransactionType) ([]models.Category, error)
}

// Service runs the report operations: one store fetch per call followed by
// in-memory aggregation.
type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

// NewService builds a Service. A nil loc uses the server's local time zone for
// the default month.
func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, now: time.Now}
}

// Now is the current time in the service's time zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// CurrentMonth is the default report period.
func (s *Service) CurrentMonth() Period {
	return CurrentMonth(s.Now())
}

func (s *Service) Summary(ctx context.Context, owner int64, period *Period) (Summary, error) {
	if period != nil {
		if err := period.Validate(); err != nil {
			return Summary{}, err
		}
	}
	txns, err := s.fetchTransactions(ctx, owner, period)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(owner, period, txns)
}

// CurrentMonthlyReport builds the report for the current month in the
// service's time zone.
func (s *Service) CurrentMonthlyReport(ctx context.Context, owner int64) (MonthlyReport, error) {
	now := s.Now()
	return s.MonthlyReport(ctx, owner, now.Year(), int(now.Month()))
}

// MonthlyReport builds the report for year/month, month being 1-based.
func (s *Service) MonthlyReport(ctx context.Context, owner int64, year, month int) (MonthlyReport, error) {
	period, err := MonthPeriod(year, time.Month(month))
	if err != nil {
		return MonthlyReport{}, err
	}
	txns, err := s.fetchTransactions(ctx, owner, &period)
	if err != nil {
		return MonthlyReport{}, err
	}
	categories, err := s.fetchCategories(ctx, owner)
	if err != nil {
		return MonthlyReport{}, err
	}
	return BuildMonthlyReport(owner, year, time.Month(month), txns, categories)
}

// ExportCSV writes the owner's transactions, optionally bounded by period, to w.
func (s *Service) ExportCSV(ctx context.Context, owner int64, period *Period, w io.Writer) error {
	if period != nil {
		if err := period.Validate(); err != nil {
			return err
		}
	}
	txns, err := s.fetchTransactions(ctx, owner, period)
	if err != nil {
		return err
	}
	categories, err := s.fetchCategories(ctx, owner)
	if err != nil {
		return err
	}
	return WriteCSV(w, owner, period, txns, categories)
}

func (s *Service) fetchTransactions(ctx context.Context, owner int64, period *Period) ([]models.Transaction, error) {
	txns, err := s.store.FetchTransactions(ctx, owner, period.Filter())
	if err != nil {
		return nil, fmt.Errorf("%w: fetch transactions: %w", ErrStoreUnavailable, err)
	}
	return txns, nil
}

func (s *Service) fetchCategories(ctx context.Context, owner int64) ([]models.Category, error) {
	categories, err := s.store.FetchCategories(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch categories: %w", ErrStoreUnavailable, err)
	}
	return categories, nil
}
