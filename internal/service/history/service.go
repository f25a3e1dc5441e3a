package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffeeshop-pos/internal/domain"
	orderrepo "coffeeshop-pos/internal/repository/order"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	dayLayout = "2006-01-02"
)

// ErrBadQuery reports an unparseable listing or report filter.
var ErrBadQuery = errors.New("bad query")

// Service answers questions about finalized orders: listings for the
// back office, single receipts, and end-of-day totals.
type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListInput narrows an order listing. From and To accept a plain date
// (2006-01-02) or RFC 3339; a plain To date is inclusive of that whole
// day. Limit zero means the default page size.
type ListInput struct {
	From    string `form:"from"`
	To      string `form:"to"`
	Payment string `form:"payment"`
	Limit   int    `form:"limit"`
}

// List materializes a page of order headers, newest first.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.OrderSummary, error) {
	filter, err := s.buildFilter(in)
	if err != nil {
		return nil, err
	}

	out := make([]domain.OrderSummary, 0, filter.Limit)
	for summary, err := range s.repo.List(ctx, filter) {
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) buildFilter(in ListInput) (domain.ListFilter, error) {
	var filter domain.ListFilter

	from, _, err := parseBound(in.From)
	if err != nil {
		return filter, fmt.Errorf("from: %w", err)
	}
	filter.From = from

	to, dateOnly, err := parseBound(in.To)
	if err != nil {
		return filter, fmt.Errorf("to: %w", err)
	}
	if dateOnly {
		// A bare date as an upper bound means "through that day".
		to = to.AddDate(0, 0, 1)
	}
	filter.To = to

	if p := strings.TrimSpace(in.Payment); p != "" {
		pay, err := domain.ParsePaymentMethod(p)
		if err != nil {
			return filter, err
		}
		filter.PaymentMethod = pay
	}

	switch {
	case in.Limit < 0:
		return filter, fmt.Errorf("%w: limit %d", ErrBadQuery, in.Limit)
	case in.Limit == 0:
		filter.Limit = defaultLimit
	case in.Limit > maxLimit:
		filter.Limit = maxLimit
	default:
		filter.Limit = in.Limit
	}
	return filter, nil
}

// parseBound reads a time bound, reporting whether it was a bare date.
func parseBound(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(dayLayout, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: bad time %q, want 2006-01-02 or RFC 3339", ErrBadQuery, raw)
	}
	return t.UTC(), false, nil
}

// Get returns the full snapshot for one order.
func (s *Service) Get(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	return s.repo.GetByID(ctx, id)
}

// DailySales totals the orders of one UTC day. An empty day means today.
func (s *Service) DailySales(ctx context.Context, day string) (*domain.SalesSummary, error) {
	day = strings.TrimSpace(day)
	at := time.Now().UTC()
	if day != "" {
		parsed, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%w: bad day %q, want 2006-01-02", ErrBadQuery, day)
		}
		at = parsed
	}
	return s.repo.SalesSummary(ctx, at)
}
