package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `
		SELECT items, cart_eco_score, version, updated_at
		FROM carts
		WHERE user_id = $1
	`
	insertCartQuery = `
		INSERT INTO carts (user_id, items, cart_eco_score, version, updated_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id) DO NOTHING
	`
	updateCartQuery = `
		UPDATE carts
		SET items = $2,
			cart_eco_score = $3,
			version = version + 1,
			updated_at = $4
		WHERE user_id = $1 AND version = $5
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int) (Cart, error) {
	c := Cart{UserID: userID}
	var items []byte
	err := r.db.QueryRowContext(ctx, getCartQuery, userID).Scan(&items, &c.CartEcoScore, &c.Version, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Empty(userID), nil
		}
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return Cart{}, fmt.Errorf("decode cart items: %w", err)
	}
	if c.Items == nil {
		c.Items = []Line{}
	}
	return c, nil
}

func (r *PostgresRepository) Save(ctx context.Context, c Cart, expectedVersion int) (Cart, error) {
	items, err := json.Marshal(c.clone().Items)
	if err != nil {
		return Cart{}, err
	}

	var res sql.Result
	if expectedVersion == 0 {
		res, err = r.db.ExecContext(ctx, insertCartQuery, c.UserID, string(items), c.CartEcoScore, c.UpdatedAt)
	} else {
		res, err = r.db.ExecContext(ctx, updateCartQuery, c.UserID, string(items), c.CartEcoScore, c.UpdatedAt, expectedVersion)
	}
	if err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Cart{}, err
	}
	if n == 0 {
		return Cart{}, ErrVersionConflict
	}
	c.Version = expectedVersion + 1
	return c, nil
}
