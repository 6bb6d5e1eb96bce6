package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threadkart/storefront/internal/domain/catalog"
)

const (
	productColumns = `id, slug, name, description, category, best_seller, sizes,
		price_inr, price_usd, mrp_inr, mrp_usd, images`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products
		WHERE LOWER(category) = LOWER($1) ORDER BY id`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductBySlugSQL = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

	createProductSQL = `INSERT INTO products
		(slug, name, description, category, best_seller, sizes,
		 price_inr, price_usd, mrp_inr, mrp_usd, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	updateProductSQL = `UPDATE products SET
		slug = $2, name = $3, description = $4, category = $5, best_seller = $6,
		sizes = $7, price_inr = $8, price_usd = $9, mrp_inr = $10, mrp_usd = $11,
		images = $12, updated_at = NOW()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products
		(slug, name, description, category, best_seller, sizes,
		 price_inr, price_usd, mrp_inr, mrp_usd, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			category = EXCLUDED.category, best_seller = EXCLUDED.best_seller,
			sizes = EXCLUDED.sizes, price_inr = EXCLUDED.price_inr,
			price_usd = EXCLUDED.price_usd, mrp_inr = EXCLUDED.mrp_inr,
			mrp_usd = EXCLUDED.mrp_usd, images = EXCLUDED.images,
			updated_at = NOW()
		RETURNING id`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// ListByCategory returns products in the given category (case-insensitive),
// ordered by ID.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing products in category %q: %w", category, err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products in category %q: %w", category, err)
	}
	return products, nil
}

// GetByID returns a single product, or catalog.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return r.collectOne(rows, fmt.Sprintf("product %d", id))
}

// GetBySlug returns a single product by its URL slug, or catalog.ErrNotFound.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductBySlugSQL, slug)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", slug, err)
	}
	return r.collectOne(rows, fmt.Sprintf("product %q", slug))
}

// Create inserts a new product and sets its assigned ID on p.
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	err := r.pool.QueryRow(ctx, createProductSQL,
		p.Slug, p.Name, p.Description, p.Category, p.BestSeller, p.Sizes,
		p.PriceINR, p.PriceUSD, p.MRPINR, p.MRPUSD, p.Images,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.Slug, err)
	}
	return nil
}

// Update rewrites an existing product. Returns catalog.ErrNotFound when no
// row matches the ID.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Slug, p.Name, p.Description, p.Category, p.BestSeller, p.Sizes,
		p.PriceINR, p.PriceUSD, p.MRPINR, p.MRPUSD, p.Images,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a product. Returns catalog.ErrNotFound when no row matches.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// UpsertBySlug inserts the product or rewrites the existing row with the same
// slug, setting the row's ID on p. Used by the feed ingest tool, where the
// slug is the stable identity across supplier feeds.
func (r *ProductRepository) UpsertBySlug(ctx context.Context, p *catalog.Product) error {
	err := r.pool.QueryRow(ctx, upsertProductSQL,
		p.Slug, p.Name, p.Description, p.Category, p.BestSeller, p.Sizes,
		p.PriceINR, p.PriceUSD, p.MRPINR, p.MRPUSD, p.Images,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.Slug, err)
	}
	return nil
}

func (r *ProductRepository) collectOne(rows pgx.Rows, what string) (*catalog.Product, error) {
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.BestSeller,
		&p.Sizes, &p.PriceINR, &p.PriceUSD, &p.MRPINR, &p.MRPUSD, &p.Images,
	)
	return p, err
}
