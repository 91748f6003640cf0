package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) PricesByDiscountID(ctx context.Context, discountID int64) ([]domain.DiscountPrice, error) {
	return s.repo.ListDiscountPrices(ctx, s.db, discountID)
}

func (s *Service) PriceByDiscountIDAndCurrency(ctx context.Context, discountID int64, iso string) (*domain.DiscountPrice, error) {
	return s.repo.FindDiscountPrice(ctx, s.db, discountID, strings.ToUpper(iso))
}

func (s *Service) SaveDiscountPrices(ctx context.Context, tx *gorm.DB, discountID int64, rows []domain.DiscountPrice) error {
	if discountID <= 0 {
		return domain.ErrInvalidOwner
	}
	for i := range rows {
		code, err := s.requireCurrency(ctx, tx, rows[i].PaymentCurrencyISO)
		if err != nil {
			return err
		}
		rows[i].ID, rows[i].UID = s.newRowIdentity()
		rows[i].DiscountID = discountID
		rows[i].PaymentCurrencyISO = code
	}
	if err := s.repo.UpsertDiscountPrices(ctx, tx, rows); err != nil {
		return err
	}
	s.log.Debug("discount prices saved", zap.Int64("discount_id", discountID), zap.Int("currencies", len(rows)))
	return nil
}

func (s *Service) PricesByAddonID(ctx context.Context, discountID int64) ([]domain.AddonDiscountPrice, error) {
	return s.repo.ListAddonDiscountPrices(ctx, s.db, discountID)
}

func (s *Service) PriceByAddonIDAndCurrency(ctx context.Context, discountID int64, iso string) (*domain.AddonDiscountPrice, error) {
	return s.repo.FindAddonDiscountPrice(ctx, s.db, discountID, strings.ToUpper(iso))
}

// SaveAddonPrices validates currencies in code since the add-on table
// carries no foreign keys.
func (s *Service) SaveAddonPrices(ctx context.Context, tx *gorm.DB, discountID int64, rows []domain.AddonDiscountPrice) error {
	if discountID <= 0 {
		return domain.ErrInvalidOwner
	}
	for i := range rows {
		code, err := s.requireCurrency(ctx, tx, rows[i].PaymentCurrencyISO)
		if err != nil {
			return err
		}
		rows[i].ID, rows[i].UID = s.newRowIdentity()
		rows[i].DiscountID = discountID
		rows[i].PaymentCurrencyISO = code
	}
	return s.repo.UpsertAddonDiscountPrices(ctx, tx, rows)
}
