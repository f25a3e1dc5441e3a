package catalog

import (
	"context"
	"errors"
	"testing"

	"coffeeshop-pos/internal/domain"
)

type stubRepo struct {
	listed    []domain.Product
	listErr   error
	listCalls int
	lastCat   domain.Category
	product   *domain.Product
	getErr    error
	lastID    string
}

func (s *stubRepo) List(_ context.Context, category domain.Category) ([]domain.Product, error) {
	s.listCalls++
	s.lastCat = category
	return s.listed, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.getErr
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestListWithoutFilter(t *testing.T) {
	repo := &stubRepo{listed: []domain.Product{{ID: "p1", Name: "Latte"}}}
	svc := New(repo)

	got, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Latte" {
		t.Fatalf("unexpected products: %+v", got)
	}
	if repo.lastCat != "" {
		t.Fatalf("expected empty category, got %q", repo.lastCat)
	}
}

func TestListParsesCategory(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.List(context.Background(), " Pastries "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCat != domain.CategoryPastry {
		t.Fatalf("expected pastry, got %q", repo.lastCat)
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	_, err := svc.List(context.Background(), "soup")
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("repo should not be hit on a bad filter")
	}
}

func TestGetPassThrough(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: "p1", Name: "Latte"}}
	svc := New(repo)

	got, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Latte" || repo.lastID != "p1" {
		t.Fatalf("unexpected result: %+v (asked for %q)", got, repo.lastID)
	}
}

func TestCategories(t *testing.T) {
	svc := New(&stubRepo{})

	cats := svc.Categories(context.Background())
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
	if cats[0].Key != "coffee" || cats[0].Label != "Coffee" {
		t.Fatalf("unexpected first category: %+v", cats[0])
	}
	for _, c := range cats {
		if c.Key == "pastry" && c.Label != "Pastries" {
			t.Fatalf("pastry label = %q", c.Label)
		}
	}
}
