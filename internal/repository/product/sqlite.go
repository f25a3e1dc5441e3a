package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

// NewSQLite serves the catalog from the register's embedded database.
func NewSQLite(db *sql.DB, logger *log.Entry) Repository {
	if logger == nil {
		logger = log.WithField("component", "product-repo")
	}
	return &sqliteRepo{db: db, logger: logger}
}

func (r *sqliteRepo) List(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	const qAll = `
SELECT id, name, category, price_cents, description, available, created_at
FROM products
WHERE available = 1
ORDER BY name
`
	const qByCategory = `
SELECT id, name, category, price_cents, description, available, created_at
FROM products
WHERE available = 1 AND category = ?
ORDER BY name
`
	var (
		rows *sql.Rows
		err  error
	)
	if category == "" {
		rows, err = r.db.QueryContext(ctx, qAll)
	} else {
		rows, err = r.db.QueryContext(ctx, qByCategory, string(category))
	}
	if err != nil {
		r.logger.WithError(err).WithField("category", category).Error("product list failed")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		opts, err := r.loadOptions(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Options = opts
	}
	return result, nil
}

func (r *sqliteRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, name, category, price_cents, description, available, created_at
FROM products
WHERE id = ?
`
	row := r.db.QueryRowContext(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("product get failed")
		return nil, err
	}

	p.Options, err = r.loadOptions(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	const q = `
INSERT INTO products (id, name, category, price_cents, description, available, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    category = excluded.category,
    price_cents = excluded.price_cents,
    description = excluded.description,
    available = excluded.available
`
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, q,
		id,
		p.Name,
		string(p.Category),
		p.PriceCents,
		p.Description,
		p.Available,
		now.Format(timeLayout),
	); err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("product upsert failed")
		return nil, err
	}

	res := p
	var createdAt string
	if err := tx.QueryRowContext(ctx, `SELECT id, created_at FROM products WHERE name = ?`, p.Name).Scan(&res.ID, &createdAt); err != nil {
		return nil, err
	}
	if res.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for %q: %w", p.Name, err)
	}
	if p.ID != "" && res.ID != p.ID {
		return nil, fmt.Errorf("product %q: existing id %s does not match import id %s", p.Name, res.ID, p.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_options WHERE product_id = ?`, res.ID); err != nil {
		return nil, err
	}
	const insOpt = `
INSERT INTO product_options (product_id, name, choice, price_delta_cents)
VALUES (?, ?, ?, ?)
`
	for _, opt := range p.Options {
		for _, c := range opt.Choices {
			if _, err := tx.ExecContext(ctx, insOpt, res.ID, opt.Name, c.Label, c.PriceDeltaCents); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	r.logger.WithFields(log.Fields{"name": res.Name, "id": res.ID}).Debug("product upserted")
	return &res, nil
}

func (r *sqliteRepo) loadOptions(ctx context.Context, productID string) ([]domain.Option, error) {
	const q = `
SELECT name, choice, price_delta_cents
FROM product_options
WHERE product_id = ?
ORDER BY id
`
	rows, err := r.db.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []domain.Option
	for rows.Next() {
		var name, choice string
		var delta int64
		if err := rows.Scan(&name, &choice, &delta); err != nil {
			return nil, err
		}
		opts = appendChoice(opts, name, choice, delta)
	}
	return opts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Description, &p.Available, &createdAt); err != nil {
		return domain.Product{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse created_at: %w", err)
	}
	p.CreatedAt = t
	return p, nil
}
