package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `id, name, brand, category, price, description, image, materials, packaging, shipping_type, eco_tags, eco_score, eco_breakdown, ai_label, ai_confidence, ai_keywords, created_at, updated_at`

const (
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, brand, category, price, description, image, materials, packaging, shipping_type, eco_tags, eco_score, eco_breakdown, ai_label, ai_confidence, ai_keywords, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			brand = $2,
			category = $3,
			price = $4,
			description = $5,
			image = $6,
			materials = $7,
			packaging = $8,
			shipping_type = $9,
			eco_tags = $10,
			eco_score = $11,
			eco_breakdown = $12,
			ai_label = $13,
			ai_confidence = $14,
			ai_keywords = $15,
			updated_at = $16
		WHERE id = $17
		RETURNING created_at
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
	// served by products_alternatives_idx (category, eco_score DESC, price)
	queryAlternativesQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		  AND price BETWEEN $2 AND $3
		  AND id <> $4
		  AND eco_score > $5
		ORDER BY eco_score DESC, id ASC
		LIMIT $6
	`
)

var listOrderBy = map[string]string{
	SortNewest:    "created_at DESC, id DESC",
	SortEcoDesc:   "eco_score DESC, id ASC",
	SortEcoAsc:    "eco_score ASC, id ASC",
	SortPriceAsc:  "price ASC, id ASC",
	SortPriceDesc: "price DESC, id ASC",
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p         Product
		brand     sql.NullString
		image     sql.NullString
		breakdown []byte
		keywords  []byte
		label     string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &brand, &p.Category, &p.Price, &p.Description, &image,
		pq.Array(&p.Materials), &p.Packaging, &p.ShippingType, pq.Array(&p.EcoTags),
		&p.EcoScore, &breakdown, &label, &p.AIConfidence, &keywords,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	if brand.Valid {
		p.Brand = brand.String
	}
	if image.Valid {
		p.Image = &image.String
	}
	p.AILabel = eco.Label(label)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &p.EcoBreakdown); err != nil {
			return Product{}, fmt.Errorf("decode eco_breakdown: %w", err)
		}
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &p.AIKeywords); err != nil {
			return Product{}, fmt.Errorf("decode ai_keywords: %w", err)
		}
	}
	p.Materials = nonNil(p.Materials)
	p.EcoTags = nonNil(p.EcoTags)
	p.AIKeywords.Positive = nonNil(p.AIKeywords.Positive)
	p.AIKeywords.Negative = nonNil(p.AIKeywords.Negative)
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// buildListFilter returns the WHERE clause (possibly empty) and its args.
func buildListFilter(q ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.Category != "" {
		add("LOWER(category) = LOWER($%d)", q.Category)
	}
	if q.Label != "" {
		add("ai_label = $%d", string(q.Label))
	}
	if q.MinScore != nil {
		add("eco_score >= $%d", *q.MinScore)
	}
	if q.MaxPrice != nil {
		add("price <= $%d", *q.MaxPrice)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, q ListQuery) ([]Product, int, error) {
	q = q.normalized()
	where, args := buildListFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, listOrderBy[q.Sort], n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func productArgs(p Product) ([]any, error) {
	breakdown, err := json.Marshal(p.EcoBreakdown)
	if err != nil {
		return nil, err
	}
	keywords, err := json.Marshal(p.AIKeywords)
	if err != nil {
		return nil, err
	}
	var brand sql.NullString
	if p.Brand != "" {
		brand = sql.NullString{String: p.Brand, Valid: true}
	}
	return []any{
		p.Name, brand, p.Category, p.Price, p.Description, p.Image,
		pq.Array(nonNil(p.Materials)), p.Packaging, p.ShippingType, pq.Array(nonNil(p.EcoTags)),
		p.EcoScore, string(breakdown), string(p.AILabel), p.AIConfidence, string(keywords),
	}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	args, err := productArgs(p)
	if err != nil {
		return Product{}, err
	}
	args = append(args, p.CreatedAt, p.UpdatedAt)
	if err := r.db.QueryRowContext(ctx, insertProductQuery, args...).Scan(&p.ID); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	args, err := productArgs(p)
	if err != nil {
		return Product{}, err
	}
	args = append(args, p.UpdatedAt, id)
	if err := r.db.QueryRowContext(ctx, updateProductQuery, args...).Scan(&p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes every product and inserts the provided list inside one
// transaction.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) ([]Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return nil, fmt.Errorf("clear products: %w", err)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		args, err := productArgs(p)
		if err != nil {
			return nil, err
		}
		args = append(args, p.CreatedAt, p.UpdatedAt)
		if err := tx.QueryRowContext(ctx, insertProductQuery, args...).Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		out = append(out, p)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) QueryAlternatives(ctx context.Context, q AlternativeQuery) ([]Product, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = eco.MaxAlternatives
	}
	rows, err := r.db.QueryContext(ctx, queryAlternativesQuery,
		q.Category, q.MinPrice, q.MaxPrice, q.ExcludeID, q.MinScore, limit)
	if err != nil {
		return nil, fmt.Errorf("query alternatives: %w", err)
	}
	return scanProducts(rows)
}
