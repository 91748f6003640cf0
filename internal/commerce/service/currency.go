package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CurrencyParams struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type CurrencyService struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewCurrencyService(p CurrencyParams) *CurrencyService {
	return &CurrencyService{
		db:   p.DB,
		log:  p.Log.Named("commerce.currency"),
		repo: p.Repo,
	}
}

func (s *CurrencyService) All(ctx context.Context) ([]domain.PaymentCurrency, error) {
	return s.repo.ListPaymentCurrencies(ctx, s.db)
}

func (s *CurrencyService) ByISO(ctx context.Context, iso string) (*domain.PaymentCurrency, error) {
	code := strings.ToUpper(strings.TrimSpace(iso))
	if len(code) != 3 {
		return nil, domain.ErrCurrencyNotFound
	}

	item, err := s.repo.FindPaymentCurrency(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrCurrencyNotFound
	}
	return item, nil
}
