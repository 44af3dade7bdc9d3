package cart

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresGet_MissingCartIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM carts").WithArgs(3).WillReturnError(sql.ErrNoRows)

	c, err := repo.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if c.UserID != 3 || c.Version != 0 || len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGet_DecodesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"items", "cart_eco_score", "version", "updated_at"}).
		AddRow([]byte(`[{"product_id":4,"quantity":2,"locked_price":19.5,"eco_score_snapshot":70}]`), 70, 5, now)
	mock.ExpectQuery("FROM carts").WithArgs(8).WillReturnRows(rows)

	c, err := repo.Get(context.Background(), 8)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if c.Version != 5 || c.CartEcoScore != 70 || !c.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected cart %+v", c)
	}
	want := Line{ProductID: 4, Quantity: 2, LockedPrice: 19.5, EcoScoreSnapshot: 70}
	if len(c.Items) != 1 || c.Items[0] != want {
		t.Fatalf("unexpected items %+v", c.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_InsertAndUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	c := Cart{UserID: 2, Items: []Line{{ProductID: 1, Quantity: 1, LockedPrice: 10, EcoScoreSnapshot: 60}}, CartEcoScore: 60, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(2, sqlmock.AnyArg(), 60, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	saved, err := repo.Save(context.Background(), c, 0)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("expected version 1, got %d", saved.Version)
	}

	mock.ExpectExec("UPDATE carts").
		WithArgs(2, sqlmock.AnyArg(), 60, now, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	saved, err = repo.Save(context.Background(), saved, 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("expected version 2, got %d", saved.Version)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_StaleVersionConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// another writer already bumped the version
	mock.ExpectExec("UPDATE carts").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Save(context.Background(), Cart{UserID: 2, Items: []Line{}}, 3)
	if err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// a concurrent first insert hits ON CONFLICT DO NOTHING
	mock.ExpectExec("INSERT INTO carts").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Save(context.Background(), Cart{UserID: 2, Items: []Line{}}, 0)
	if err != ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
