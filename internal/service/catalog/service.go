package catalog

import (
	"context"
	"strings"

	"coffeeshop-pos/internal/domain"
	productrepo "coffeeshop-pos/internal/repository/product"
)

// Service reads the menu. Category filters arrive as raw query text and
// are parsed here so handlers stay thin.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns available products, optionally narrowed to one category.
// An empty filter means the whole menu.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.repo.List(ctx, "")
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, c)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CategoryInfo is one menu section with its display label.
type CategoryInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Categories lists the fixed menu sections in display order.
func (s *Service) Categories(ctx context.Context) []CategoryInfo {
	cats := domain.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryInfo{Key: string(c), Label: c.Label()})
	}
	return out
}
