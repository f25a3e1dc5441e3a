package order

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Entry
}

// NewPostgres persists orders in a shared store serving every register in
// the shop.
func NewPostgres(pool *pgxpool.Pool, logger *log.Entry) Repository {
	if logger == nil {
		logger = log.WithField("component", "order-repo")
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Commit(ctx context.Context, snap domain.OrderSnapshot) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insOrder = `
INSERT INTO orders (id, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	if _, err := tx.Exec(ctx, insOrder,
		snap.ID,
		snap.Number,
		snap.SubtotalCents,
		snap.TaxCents,
		snap.TotalCents,
		snap.Currency,
		string(snap.PaymentMethod),
		snap.CashierName,
		string(snap.Status),
		snap.PlacedAt,
	); err != nil {
		r.logger.WithError(err).WithField("number", snap.Number).Error("order insert failed")
		return err
	}

	const insItem = `
INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity, unit_price_cents, selections)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	for i, line := range snap.Lines {
		if _, err := tx.Exec(ctx, insItem,
			snap.ID,
			i+1,
			line.ProductID,
			line.ProductName,
			line.Quantity,
			line.UnitPriceCents,
			line.Selections,
		); err != nil {
			r.logger.WithError(err).WithFields(log.Fields{"number": snap.Number, "line": i + 1}).Error("order item insert failed")
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.WithFields(log.Fields{
		"number":      snap.Number,
		"lines":       len(snap.Lines),
		"total_cents": snap.TotalCents,
	}).Info("order committed")
	return nil
}

func (r *postgresRepo) List(ctx context.Context, f domain.ListFilter) iter.Seq2[domain.OrderSummary, error] {
	const q = `
SELECT id::text, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at
FROM orders
WHERE ($1::timestamptz IS NULL OR placed_at >= $1)
  AND ($2::timestamptz IS NULL OR placed_at < $2)
  AND ($3::text = '' OR payment_method = $3)
ORDER BY placed_at DESC, id DESC
LIMIT NULLIF($4::bigint, 0)
`
	return func(yield func(domain.OrderSummary, error) bool) {
		var from, to *time.Time
		if !f.From.IsZero() {
			from = &f.From
		}
		if !f.To.IsZero() {
			to = &f.To
		}

		rows, err := r.pool.Query(ctx, q, from, to, string(f.PaymentMethod), int64(f.Limit))
		if err != nil {
			r.logger.WithError(err).Error("order list failed")
			yield(domain.OrderSummary{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var s domain.OrderSummary
			if err := rows.Scan(&s.ID, &s.Number, &s.SubtotalCents, &s.TaxCents, &s.TotalCents, &s.Currency, &s.PaymentMethod, &s.CashierName, &s.Status, &s.PlacedAt); err != nil {
				yield(domain.OrderSummary{}, err)
				return
			}
			if !yield(s, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			r.logger.WithError(err).Error("order list rows failed")
			yield(domain.OrderSummary{}, err)
		}
	}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	const q = `
SELECT id::text, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at
FROM orders
WHERE id = $1
`
	var snap domain.OrderSnapshot
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&snap.ID,
		&snap.Number,
		&snap.SubtotalCents,
		&snap.TaxCents,
		&snap.TotalCents,
		&snap.Currency,
		&snap.PaymentMethod,
		&snap.CashierName,
		&snap.Status,
		&snap.PlacedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("order get failed")
		return nil, err
	}

	const qItems = `
SELECT product_id::text, product_name, quantity, unit_price_cents, selections
FROM order_items
WHERE order_id = $1
ORDER BY line_no
`
	rows, err := r.pool.Query(ctx, qItems, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.LineItem
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceCents, &line.Selections); err != nil {
			return nil, err
		}
		snap.Lines = append(snap.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *postgresRepo) SalesSummary(ctx context.Context, day time.Time) (*domain.SalesSummary, error) {
	start, end := dayBounds(day)

	const q = `
SELECT COUNT(*), COALESCE(SUM(total_cents), 0), COALESCE(SUM(tax_cents), 0)
FROM orders
WHERE placed_at >= $1 AND placed_at < $2
`
	sum := domain.SalesSummary{Day: start.Format("2006-01-02")}
	if err := r.pool.QueryRow(ctx, q, start, end).Scan(&sum.OrderCount, &sum.GrossCents, &sum.TaxCents); err != nil {
		r.logger.WithError(err).WithField("day", sum.Day).Error("sales summary failed")
		return nil, err
	}
	if sum.OrderCount > 0 {
		sum.AverageCents = sum.GrossCents / sum.OrderCount
	}
	return &sum, nil
}
