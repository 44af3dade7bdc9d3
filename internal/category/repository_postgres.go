package category

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

const listCategoriesQuery = `
	SELECT category, COUNT(*), COALESCE(SUM(eco_score), 0)
	FROM products
	GROUP BY category
	ORDER BY category
	LIMIT $1
`

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var (
			s   Summary
			sum decimal.Decimal
		)
		if err := rows.Scan(&s.Category, &s.ProductCount, &sum); err != nil {
			return nil, err
		}
		s.AverageEcoScore = averageScore(sum, s.ProductCount)
		out = append(out, s)
	}
	return out, rows.Err()
}
