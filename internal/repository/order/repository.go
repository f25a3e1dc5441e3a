package order

import (
	"context"
	"iter"
	"time"

	"coffeeshop-pos/internal/domain"
)

// Repository persists finalized orders.
type Repository interface {
	// Commit writes the snapshot's header and every line in a single
	// transaction. On error nothing is visible; the caller may retry
	// with the same snapshot.
	Commit(ctx context.Context, snapshot domain.OrderSnapshot) error

	// List streams order headers newest first. The sequence is lazy,
	// finite and restartable: every range over it runs a fresh query.
	List(ctx context.Context, filter domain.ListFilter) iter.Seq2[domain.OrderSummary, error]

	// GetByID returns the full snapshot including its lines, or
	// domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.OrderSnapshot, error)

	// SalesSummary aggregates the orders placed on the UTC day
	// containing the given instant.
	SalesSummary(ctx context.Context, day time.Time) (*domain.SalesSummary, error)
}

// dayBounds returns the half-open UTC interval covering day's date.
func dayBounds(day time.Time) (time.Time, time.Time) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
