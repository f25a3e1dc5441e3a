package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/domain"
)

// timeLayout is fixed width so lexicographic order of stored timestamps
// matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type sqliteRepo struct {
	db     *sql.DB
	logger *log.Entry
}

// NewSQLite persists orders in the register's embedded database.
func NewSQLite(db *sql.DB, logger *log.Entry) Repository {
	if logger == nil {
		logger = log.WithField("component", "order-repo")
	}
	return &sqliteRepo{db: db, logger: logger}
}

func (r *sqliteRepo) Commit(ctx context.Context, snap domain.OrderSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insOrder = `
INSERT INTO orders (id, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := tx.ExecContext(ctx, insOrder,
		snap.ID,
		snap.Number,
		snap.SubtotalCents,
		snap.TaxCents,
		snap.TotalCents,
		snap.Currency,
		string(snap.PaymentMethod),
		snap.CashierName,
		string(snap.Status),
		snap.PlacedAt.UTC().Format(timeLayout),
	); err != nil {
		r.logger.WithError(err).WithField("number", snap.Number).Error("order insert failed")
		return err
	}

	const insItem = `
INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity, unit_price_cents, selections)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	for i, line := range snap.Lines {
		sel, err := marshalSelections(line.Selections)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insItem,
			snap.ID,
			i+1,
			line.ProductID,
			line.ProductName,
			line.Quantity,
			line.UnitPriceCents,
			sel,
		); err != nil {
			r.logger.WithError(err).WithFields(log.Fields{"number": snap.Number, "line": i + 1}).Error("order item insert failed")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.WithFields(log.Fields{
		"number":      snap.Number,
		"lines":       len(snap.Lines),
		"total_cents": snap.TotalCents,
	}).Info("order committed")
	return nil
}

func (r *sqliteRepo) List(ctx context.Context, f domain.ListFilter) iter.Seq2[domain.OrderSummary, error] {
	const q = `
SELECT id, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at
FROM orders
WHERE (? = '' OR placed_at >= ?)
  AND (? = '' OR placed_at < ?)
  AND (? = '' OR payment_method = ?)
ORDER BY placed_at DESC, id DESC
LIMIT ?
`
	return func(yield func(domain.OrderSummary, error) bool) {
		var fromStr, toStr string
		if !f.From.IsZero() {
			fromStr = f.From.UTC().Format(timeLayout)
		}
		if !f.To.IsZero() {
			toStr = f.To.UTC().Format(timeLayout)
		}
		limit := int64(-1) // no limit
		if f.Limit > 0 {
			limit = int64(f.Limit)
		}

		rows, err := r.db.QueryContext(ctx, q,
			fromStr, fromStr,
			toStr, toStr,
			string(f.PaymentMethod), string(f.PaymentMethod),
			limit,
		)
		if err != nil {
			r.logger.WithError(err).Error("order list failed")
			yield(domain.OrderSummary{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var s domain.OrderSummary
			var placedAt string
			if err := rows.Scan(&s.ID, &s.Number, &s.SubtotalCents, &s.TaxCents, &s.TotalCents, &s.Currency, &s.PaymentMethod, &s.CashierName, &s.Status, &placedAt); err != nil {
				yield(domain.OrderSummary{}, err)
				return
			}
			if s.PlacedAt, err = time.Parse(time.RFC3339Nano, placedAt); err != nil {
				yield(domain.OrderSummary{}, fmt.Errorf("parse placed_at: %w", err))
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

func (r *sqliteRepo) GetByID(ctx context.Context, id string) (*domain.OrderSnapshot, error) {
	const q = `
SELECT id, number, subtotal_cents, tax_cents, total_cents, currency, payment_method, cashier_name, status, placed_at
FROM orders
WHERE id = ?
`
	var snap domain.OrderSnapshot
	var placedAt string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&snap.ID,
		&snap.Number,
		&snap.SubtotalCents,
		&snap.TaxCents,
		&snap.TotalCents,
		&snap.Currency,
		&snap.PaymentMethod,
		&snap.CashierName,
		&snap.Status,
		&placedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("order get failed")
		return nil, err
	}
	if snap.PlacedAt, err = time.Parse(time.RFC3339Nano, placedAt); err != nil {
		return nil, fmt.Errorf("parse placed_at: %w", err)
	}

	const qItems = `
SELECT product_id, product_name, quantity, unit_price_cents, selections
FROM order_items
WHERE order_id = ?
ORDER BY line_no
`
	rows, err := r.db.QueryContext(ctx, qItems, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.LineItem
		var sel string
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPriceCents, &sel); err != nil {
			return nil, err
		}
		if line.Selections, err = unmarshalSelections(sel); err != nil {
			return nil, err
		}
		snap.Lines = append(snap.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *sqliteRepo) SalesSummary(ctx context.Context, day time.Time) (*domain.SalesSummary, error) {
	start, end := dayBounds(day)

	const q = `
SELECT COUNT(*), COALESCE(SUM(total_cents), 0), COALESCE(SUM(tax_cents), 0)
FROM orders
WHERE placed_at >= ? AND placed_at < ?
`
	sum := domain.SalesSummary{Day: start.Format("2006-01-02")}
	if err := r.db.QueryRowContext(ctx, q, start.Format(timeLayout), end.Format(timeLayout)).Scan(&sum.OrderCount, &sum.GrossCents, &sum.TaxCents); err != nil {
		r.logger.WithError(err).WithField("day", sum.Day).Error("sales summary failed")
		return nil, err
	}
	if sum.OrderCount > 0 {
		sum.AverageCents = sum.GrossCents / sum.OrderCount
	}
	return &sum, nil
}

func marshalSelections(sel map[string]string) (string, error) {
	if len(sel) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(sel)
	if err != nil {
		return "", fmt.Errorf("marshal selections: %w", err)
	}
	return string(b), nil
}

func unmarshalSelections(raw string) (map[string]string, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var sel map[string]string
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return nil, fmt.Errorf("unmarshal selections: %w", err)
	}
	if len(sel) == 0 {
		sel = nil
	}
	return sel, nil
}
