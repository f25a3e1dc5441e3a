package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"coffeeshop-pos/internal/db"
	"coffeeshop-pos/internal/domain"
	"coffeeshop-pos/internal/migrate"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "pos_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrate.ApplySQLite(context.Background(), sqlDB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqlDB
}

func seedProduct(t *testing.T, sqlDB *sql.DB, id, name string, price int64) {
	t.Helper()
	const q = `
INSERT INTO products (id, name, category, price_cents, description, available, created_at)
VALUES (?, ?, 'coffee', ?, '', 1, ?)
`
	if _, err := sqlDB.Exec(q, id, name, price, time.Now().UTC().Format(timeLayout)); err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
}

func testSnapshot(id, number string, placed time.Time, pay domain.PaymentMethod, lines ...domain.LineItem) domain.OrderSnapshot {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.TotalCents()
	}
	tax := domain.TaxCents(subtotal, 800)
	return domain.OrderSnapshot{
		ID:            id,
		Number:        number,
		Lines:         lines,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
		Currency:      "USD",
		PaymentMethod: pay,
		CashierName:   "Sam",
		Status:        domain.StatusFinalized,
		PlacedAt:      placed,
	}
}

func collect(t *testing.T, seq func(func(domain.OrderSummary, error) bool)) []domain.OrderSummary {
	t.Helper()
	var out []domain.OrderSummary
	for s, err := range seq {
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func TestSQLite_CommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	repo := NewSQLite(sqlDB, nil)

	seedProduct(t, sqlDB, "p-latte", "Latte", 350)
	seedProduct(t, sqlDB, "p-muffin", "Blueberry Muffin", 200)

	placed := time.Date(2025, 8, 25, 9, 30, 15, 123456789, time.UTC)
	snap := testSnapshot("ord-1", "ORD-20250825-000001", placed, domain.PaymentCard,
		domain.LineItem{
			ProductID:      "p-latte",
			ProductName:    "Latte",
			Quantity:       2,
			UnitPriceCents: 350,
			Selections:     map[string]string{"Size": "Large", "Milk Type": "Oat"},
		},
		domain.LineItem{
			ProductID:      "p-muffin",
			ProductName:    "Blueberry Muffin",
			Quantity:       1,
			UnitPriceCents: 200,
		},
	)

	if err := repo.Commit(ctx, snap); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := repo.GetByID(ctx, "ord-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Number != snap.Number || got.PaymentMethod != domain.PaymentCard || got.CashierName != "Sam" {
		t.Fatalf("unexpected header %+v", got)
	}
	if got.SubtotalCents != 900 || got.TaxCents != 72 || got.TotalCents != 972 {
		t.Fatalf("unexpected totals %d/%d/%d", got.SubtotalCents, got.TaxCents, got.TotalCents)
	}
	if !got.PlacedAt.Equal(placed) {
		t.Fatalf("placed_at drifted: want %v got %v", placed, got.PlacedAt)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}
	if got.Lines[0].ProductName != "Latte" || got.Lines[1].ProductName != "Blueberry Muffin" {
		t.Fatalf("line order lost: %+v", got.Lines)
	}
	if got.Lines[0].Selections["Milk Type"] != "Oat" || got.Lines[0].Selections["Size"] != "Large" {
		t.Fatalf("selections lost: %+v", got.Lines[0].Selections)
	}
	if got.Lines[1].Selections != nil {
		t.Fatalf("expected no selections on plain line, got %+v", got.Lines[1].Selections)
	}
}

func TestSQLite_CommitAtomicity(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	repo := NewSQLite(sqlDB, nil)

	seedProduct(t, sqlDB, "p-latte", "Latte", 350)

	// Second line violates the product foreign key, so the whole commit
	// must roll back including the already-inserted header and first line.
	snap := testSnapshot("ord-1", "ORD-20250825-000001", time.Now().UTC(), domain.PaymentCash,
		domain.LineItem{ProductID: "p-latte", ProductName: "Latte", Quantity: 1, UnitPriceCents: 350},
		domain.LineItem{ProductID: "p-ghost", ProductName: "Ghost", Quantity: 1, UnitPriceCents: 100},
	)

	if err := repo.Commit(ctx, snap); err == nil {
		t.Fatalf("expected commit failure")
	}

	var orders, items int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&items); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if orders != 0 || items != 0 {
		t.Fatalf("partial commit visible: %d orders, %d items", orders, items)
	}

	// A retry with a valid snapshot goes through.
	snap.Lines = snap.Lines[:1]
	snap.SubtotalCents = 350
	snap.TaxCents = domain.TaxCents(350, 800)
	snap.TotalCents = snap.SubtotalCents + snap.TaxCents
	if err := repo.Commit(ctx, snap); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
}

func TestSQLite_ListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	repo := NewSQLite(sqlDB, nil)

	seedProduct(t, sqlDB, "p-latte", "Latte", 350)
	line := domain.LineItem{ProductID: "p-latte", ProductName: "Latte", Quantity: 1, UnitPriceCents: 350}

	base := time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)
	for i, pay := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCard, domain.PaymentMobile} {
		snap := testSnapshot(
			fmt.Sprintf("ord-%d", i+1),
			fmt.Sprintf("ORD-20250825-00000%d", i+1),
			base.Add(time.Duration(i)*time.Hour),
			pay,
			line,
		)
		if err := repo.Commit(ctx, snap); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	all := collect(t, repo.List(ctx, domain.ListFilter{}))
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}
	if all[0].ID != "ord-3" || all[2].ID != "ord-1" {
		t.Fatalf("expected newest first, got %s..%s", all[0].ID, all[2].ID)
	}

	cash := collect(t, repo.List(ctx, domain.ListFilter{PaymentMethod: domain.PaymentCash}))
	if len(cash) != 1 || cash[0].ID != "ord-1" {
		t.Fatalf("unexpected cash orders %+v", cash)
	}

	window := collect(t, repo.List(ctx, domain.ListFilter{
		From: base.Add(30 * time.Minute),
		To:   base.Add(90 * time.Minute),
	}))
	if len(window) != 1 || window[0].ID != "ord-2" {
		t.Fatalf("unexpected window %+v", window)
	}

	limited := collect(t, repo.List(ctx, domain.ListFilter{Limit: 2}))
	if len(limited) != 2 || limited[0].ID != "ord-3" {
		t.Fatalf("unexpected limited %+v", limited)
	}
}

func TestSQLite_ListRestartable(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	repo := NewSQLite(sqlDB, nil)

	seedProduct(t, sqlDB, "p-latte", "Latte", 350)
	line := domain.LineItem{ProductID: "p-latte", ProductName: "Latte", Quantity: 1, UnitPriceCents: 350}

	base := time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := testSnapshot(
			fmt.Sprintf("ord-%d", i+1),
			fmt.Sprintf("ORD-20250825-00000%d", i+1),
			base.Add(time.Duration(i)*time.Minute),
			domain.PaymentCash,
			line,
		)
		if err := repo.Commit(ctx, snap); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	seq := repo.List(ctx, domain.ListFilter{})

	// Abandon the sequence after the first element.
	for s, err := range seq {
		if err != nil {
			t.Fatalf("first pull: %v", err)
		}
		if s.ID != "ord-3" {
			t.Fatalf("expected ord-3 first, got %s", s.ID)
		}
		break
	}

	// Ranging again starts over and sees everything.
	again := collect(t, seq)
	if len(again) != 3 || again[0].ID != "ord-3" || again[2].ID != "ord-1" {
		t.Fatalf("restart saw %+v", again)
	}
}

func TestSQLite_SalesSummary(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	repo := NewSQLite(sqlDB, nil)

	seedProduct(t, sqlDB, "p-latte", "Latte", 350)
	line2 := domain.LineItem{ProductID: "p-latte", ProductName: "Latte", Quantity: 2, UnitPriceCents: 350}
	line1 := domain.LineItem{ProductID: "p-latte", ProductName: "Latte", Quantity: 1, UnitPriceCents: 350}

	today := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	snaps := []domain.OrderSnapshot{
		testSnapshot("ord-1", "ORD-20250825-000001", today, domain.PaymentCash, line2),
		testSnapshot("ord-2", "ORD-20250825-000002", today.Add(2*time.Hour), domain.PaymentCard, line1),
		testSnapshot("ord-3", "ORD-20250824-000001", yesterday, domain.PaymentCash, line1),
	}
	for _, s := range snaps {
		if err := repo.Commit(ctx, s); err != nil {
			t.Fatalf("commit %s: %v", s.ID, err)
		}
	}

	sum, err := repo.SalesSummary(ctx, today)
	if err != nil {
		t.Fatalf("SalesSummary: %v", err)
	}
	if sum.Day != "2025-08-25" {
		t.Fatalf("unexpected day %q", sum.Day)
	}
	if sum.OrderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", sum.OrderCount)
	}
	// 700 + 56 tax and 350 + 28 tax.
	if sum.GrossCents != 756+378 || sum.TaxCents != 56+28 {
		t.Fatalf("unexpected sums %+v", sum)
	}
	if sum.AverageCents != (756+378)/2 {
		t.Fatalf("unexpected average %d", sum.AverageCents)
	}

	empty, err := repo.SalesSummary(ctx, today.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if empty.OrderCount != 0 || empty.GrossCents != 0 || empty.AverageCents != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}

func TestSQLite_GetMissing(t *testing.T) {
	repo := NewSQLite(openTestDB(t), nil)

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
