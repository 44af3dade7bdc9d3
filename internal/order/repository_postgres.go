package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (user_id, items, quantity, total_amount, avg_eco_score, verdict, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	listOrdersByUserQuery = `
		SELECT id, user_id, items, quantity, total_amount, avg_eco_score, verdict, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	items, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	total := decimal.NewFromFloat(ord.TotalAmount).Round(2)
	err = r.db.QueryRowContext(ctx, insertOrderQuery,
		ord.UserID, string(items), ord.Quantity, total, ord.AvgEcoScore, ord.Verdict, ord.Status, ord.CreatedAt,
	).Scan(&ord.ID)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var (
			ord   Order
			items []byte
			total decimal.Decimal
		)
		if err := rows.Scan(&ord.ID, &ord.UserID, &items, &ord.Quantity, &total, &ord.AvgEcoScore, &ord.Verdict, &ord.Status, &ord.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &ord.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
		ord.TotalAmount = total.InexactFloat64()
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}
