package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	ord := Order{UserID: 3, Items: []Item{{ProductID: 1, Quantity: 2, PricePaid: 5, EcoScore: 70}}, Quantity: 2, TotalAmount: 10, AvgEcoScore: 70, Verdict: "v", Status: StatusPlaced, CreatedAt: now}
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(3, `[{"product_id":1,"quantity":2,"price_paid":5,"eco_score":70}]`, 2, sqlmock.AnyArg(), 70, "v", StatusPlaced, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	created, err := repo.Create(context.Background(), ord)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 12 {
		t.Fatalf("expected id 12, got %d", created.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "items", "quantity", "total_amount", "avg_eco_score", "verdict", "status", "created_at"}).
		AddRow(2, 3, []byte(`[{"product_id":4,"quantity":1,"price_paid":12.5,"eco_score":90}]`), 1, "12.50", 90, "v", "placed", now).
		AddRow(1, 3, []byte(`[]`), 0, "0", 0, "v", "placed", now.Add(-time.Hour))
	mock.ExpectQuery("FROM orders WHERE user_id = \\$1 ORDER BY created_at DESC").WithArgs(3).WillReturnRows(rows)

	orders, err := repo.ListByUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 2 || orders[0].TotalAmount != 12.5 {
		t.Fatalf("unexpected orders %+v", orders)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].PricePaid != 12.5 {
		t.Fatalf("unexpected items %+v", orders[0].Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
