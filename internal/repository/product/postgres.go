package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Entry
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Entry) Repository {
	if logger == nil {
		logger = log.WithField("component", "product-repo")
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	const qAll = `
SELECT id::text, name, category, price_cents, COALESCE(description, ''), available, created_at
FROM products
WHERE available
ORDER BY name
`
	const qByCategory = `
SELECT id::text, name, category, price_cents, COALESCE(description, ''), available, created_at
FROM products
WHERE available AND category = $1
ORDER BY name
`
	var (
		rows pgx.Rows
		err  error
	)
	if category == "" {
		rows, err = r.pool.Query(ctx, qAll)
	} else {
		rows, err = r.pool.Query(ctx, qByCategory, string(category))
	}
	if err != nil {
		r.logger.WithError(err).WithField("category", category).Error("product list failed")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	var ids []string
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Description, &p.Available, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).WithField("category", category).Error("product list rows failed")
		return nil, err
	}

	if len(ids) > 0 {
		opts, err := r.loadOptions(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range result {
			result[i].Options = opts[result[i].ID]
		}
	}
	r.logger.WithFields(log.Fields{"category": category, "count": len(result)}).Debug("products listed")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, name, category, price_cents, COALESCE(description, ''), available, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents, &p.Description, &p.Available, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("product get failed")
		return nil, err
	}

	opts, err := r.loadOptions(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Options = opts[p.ID]
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (id, name, category, price_cents, description, available)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
ON CONFLICT (name) DO UPDATE SET
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    description = EXCLUDED.description,
    available = EXCLUDED.available
RETURNING id::text, created_at
`
	res := p
	if err := tx.QueryRow(ctx, q,
		p.ID,
		p.Name,
		string(p.Category),
		p.PriceCents,
		p.Description,
		p.Available,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("product upsert failed")
		return nil, err
	}
	if p.ID != "" && res.ID != p.ID {
		return nil, fmt.Errorf("product %q: existing id %s does not match import id %s", p.Name, res.ID, p.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_options WHERE product_id = $1`, res.ID); err != nil {
		return nil, err
	}
	const insOpt = `
INSERT INTO product_options (product_id, name, choice, price_delta_cents)
VALUES ($1, $2, $3, $4)
`
	for _, opt := range p.Options {
		for _, c := range opt.Choices {
			if _, err := tx.Exec(ctx, insOpt, res.ID, opt.Name, c.Label, c.PriceDeltaCents); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.WithFields(log.Fields{"name": res.Name, "id": res.ID}).Debug("product upserted")
	return &res, nil
}

func (r *postgresRepo) loadOptions(ctx context.Context, ids []string) (map[string][]domain.Option, error) {
	const q = `
SELECT product_id::text, name, choice, price_delta_cents
FROM product_options
WHERE product_id = ANY($1::uuid[])
ORDER BY product_id, id
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.WithError(err).Error("product options load failed")
		return nil, err
	}
	defer rows.Close()

	opts := make(map[string][]domain.Option)
	for rows.Next() {
		var productID, name, choice string
		var delta int64
		if err := rows.Scan(&productID, &name, &choice, &delta); err != nil {
			return nil, err
		}
		opts[productID] = appendChoice(opts[productID], name, choice, delta)
	}
	return opts, rows.Err()
}
