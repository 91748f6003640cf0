package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) PricesByShippingRuleID(ctx context.Context, ruleID int64) ([]domain.ShippingRulePrice, error) {
	return s.repo.ListShippingRulePrices(ctx, s.db, ruleID)
}

func (s *Service) PriceByShippingRuleIDAndCurrency(ctx context.Context, ruleID int64, iso string) (*domain.ShippingRulePrice, error) {
	return s.repo.FindShippingRulePrice(ctx, s.db, ruleID, strings.ToUpper(iso))
}

func (s *Service) SaveShippingRulePrices(ctx context.Context, tx *gorm.DB, ruleID int64, rows []domain.ShippingRulePrice) error {
	if ruleID <= 0 {
		return domain.ErrInvalidOwner
	}
	for i := range rows {
		code, err := s.requireCurrency(ctx, tx, rows[i].PaymentCurrencyISO)
		if err != nil {
			return err
		}
		rows[i].ID, rows[i].UID = s.newRowIdentity()
		rows[i].ShippingRuleID = ruleID
		rows[i].PaymentCurrencyISO = code
	}
	if err := s.repo.UpsertShippingRulePrices(ctx, tx, rows); err != nil {
		return err
	}
	s.log.Debug("shipping rule prices saved", zap.Int64("shipping_rule_id", ruleID), zap.Int("currencies", len(rows)))
	return nil
}

func (s *Service) CategoryPricesByShippingRuleID(ctx context.Context, ruleID int64) ([]domain.ShippingCategoryPrice, error) {
	return s.repo.ListShippingCategoryPrices(ctx, s.db, ruleID)
}

func (s *Service) CategoryPriceByRuleCategoryAndCurrency(ctx context.Context, ruleID, categoryID int64, iso string) (*domain.ShippingCategoryPrice, error) {
	return s.repo.FindShippingCategoryPrice(ctx, s.db, ruleID, categoryID, strings.ToUpper(iso))
}

func (s *Service) SaveShippingCategoryPrices(ctx context.Context, tx *gorm.DB, ruleID int64, rows []domain.ShippingCategoryPrice) error {
	if ruleID <= 0 {
		return domain.ErrInvalidOwner
	}
	for i := range rows {
		if rows[i].ShippingCategoryID <= 0 {
			return domain.ErrInvalidOwner
		}
		code, err := s.requireCurrency(ctx, tx, rows[i].PaymentCurrencyISO)
		if err != nil {
			return err
		}
		rows[i].ID, rows[i].UID = s.newRowIdentity()
		rows[i].ShippingRuleID = ruleID
		rows[i].PaymentCurrencyISO = code
	}
	return s.repo.UpsertShippingCategoryPrices(ctx, tx, rows)
}
