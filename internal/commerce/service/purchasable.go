package service

import (
	"context"
	"time"

	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type CatalogParams struct {
	fx.In

	DB   *gorm.DB
	Repo domain.Repository
}

// CatalogService reads purchasables and the sales that apply to them.
type CatalogService struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewCatalogService(p CatalogParams) *CatalogService {
	return &CatalogService{db: p.DB, repo: p.Repo}
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Purchasable, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	item, err := s.repo.FindPurchasable(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ActiveSalesFor returns enabled sales covering the purchasable at the given
// instant, in processing order.
func (s *CatalogService) ActiveSalesFor(ctx context.Context, purchasableID int64, at time.Time) ([]domain.Sale, error) {
	return s.repo.ListActiveSales(ctx, s.db, purchasableID, at.UTC())
}
