package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPaymentCurrencies(ctx context.Context, db *gorm.DB) ([]domain.PaymentCurrency, error) {
	var items []domain.PaymentCurrency
	err := db.WithContext(ctx).Raw(
		`SELECT iso, is_primary, rate, sort_order, date_created, date_updated
		 FROM commerce_paymentcurrencies
		 ORDER BY is_primary DESC, sort_order ASC, iso ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindPaymentCurrency(ctx context.Context, db *gorm.DB, iso string) (*domain.PaymentCurrency, error) {
	var item domain.PaymentCurrency
	err := db.WithContext(ctx).
		Where("iso = ?", iso).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindPurchasable(ctx context.Context, db *gorm.DB, id int64) (*domain.Purchasable, error) {
	var item domain.Purchasable
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) UpsertPurchasable(ctx context.Context, db *gorm.DB, p *domain.Purchasable) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "sku", "title", "price", "attributes", "date_updated"}),
	}).Create(p).Error
}

func (r *repo) ListActiveSales(ctx context.Context, db *gorm.DB, purchasableID int64, at time.Time) ([]domain.Sale, error) {
	var items []domain.Sale
	err := db.WithContext(ctx).
		Where("enabled = ?", true).
		Where("date_from IS NULL OR date_from <= ?", at).
		Where("date_to IS NULL OR date_to >= ?", at).
		Where("all_purchasables = ? OR id IN (?)", true,
			db.Model(&domain.SalePurchasable{}).Select("sale_id").Where("purchasable_id = ?", purchasableID),
		).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpsertShippingRule(ctx context.Context, db *gorm.DB, rule *domain.ShippingRule) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "enabled", "base_rate", "per_item_rate", "date_updated"}),
	}).Create(rule).Error
}

func (r *repo) UpsertDiscount(ctx context.Context, db *gorm.DB, d *domain.Discount) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "code", "purchase_total", "base_discount", "per_item_discount", "date_updated"}),
	}).Create(d).Error
}

func (r *repo) UpsertAddonDiscount(ctx context.Context, db *gorm.DB, d *domain.AddonDiscount) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "per_item_discount", "date_updated"}),
	}).Create(d).Error
}
