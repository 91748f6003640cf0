package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	purchasableValueColumns = []string{"site_id", "price", "date_updated"}
	ruleValueColumns        = []string{
		"min_total", "max_total", "min_weight", "max_weight", "base_rate",
		"per_item_rate", "weight_rate", "percentage_rate", "min_rate", "max_rate",
		"date_updated",
	}
	categoryValueColumns = []string{"per_item_rate", "weight_rate", "percentage_rate", "date_updated"}
	discountValueColumns = []string{"purchase_total", "base_discount", "per_item_discount", "date_updated"}
	addonValueColumns    = []string{"per_item_discount", "date_updated"}
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPurchasablePrices(ctx context.Context, db *gorm.DB, purchasableID int64) ([]domain.PurchasablePrice, error) {
	return list[domain.PurchasablePrice](ctx, db, "purchasable_id = ?", purchasableID)
}

func (r *repo) UpsertPurchasablePrices(ctx context.Context, db *gorm.DB, rows []domain.PurchasablePrice) error {
	return upsert(ctx, db, rows, []string{"purchasable_id", "payment_currency_iso"}, purchasableValueColumns)
}

func (r *repo) ListShippingRulePrices(ctx context.Context, db *gorm.DB, ruleID int64) ([]domain.ShippingRulePrice, error) {
	return list[domain.ShippingRulePrice](ctx, db, "shipping_rule_id = ?", ruleID)
}

func (r *repo) FindShippingRulePrice(ctx context.Context, db *gorm.DB, ruleID int64, iso string) (*domain.ShippingRulePrice, error) {
	return find[domain.ShippingRulePrice](ctx, db, "shipping_rule_id = ? AND payment_currency_iso = ?", ruleID, iso)
}

func (r *repo) UpsertShippingRulePrices(ctx context.Context, db *gorm.DB, rows []domain.ShippingRulePrice) error {
	return upsert(ctx, db, rows, []string{"shipping_rule_id", "payment_currency_iso"}, ruleValueColumns)
}

func (r *repo) ListShippingCategoryPrices(ctx context.Context, db *gorm.DB, ruleID int64) ([]domain.ShippingCategoryPrice, error) {
	return list[domain.ShippingCategoryPrice](ctx, db, "shipping_rule_id = ?", ruleID)
}

func (r *repo) FindShippingCategoryPrice(ctx context.Context, db *gorm.DB, ruleID, categoryID int64, iso string) (*domain.ShippingCategoryPrice, error) {
	return find[domain.ShippingCategoryPrice](ctx, db,
		"shipping_rule_id = ? AND shipping_category_id = ? AND payment_currency_iso = ?", ruleID, categoryID, iso)
}

func (r *repo) UpsertShippingCategoryPrices(ctx context.Context, db *gorm.DB, rows []domain.ShippingCategoryPrice) error {
	return upsert(ctx, db, rows, []string{"shipping_rule_id", "shipping_category_id", "payment_currency_iso"}, categoryValueColumns)
}

func (r *repo) ListDiscountPrices(ctx context.Context, db *gorm.DB, discountID int64) ([]domain.DiscountPrice, error) {
	return list[domain.DiscountPrice](ctx, db, "discount_id = ?", discountID)
}

func (r *repo) FindDiscountPrice(ctx context.Context, db *gorm.DB, discountID int64, iso string) (*domain.DiscountPrice, error) {
	return find[domain.DiscountPrice](ctx, db, "discount_id = ? AND payment_currency_iso = ?", discountID, iso)
}

func (r *repo) UpsertDiscountPrices(ctx context.Context, db *gorm.DB, rows []domain.DiscountPrice) error {
	return upsert(ctx, db, rows, []string{"discount_id", "payment_currency_iso"}, discountValueColumns)
}

func (r *repo) ListAddonDiscountPrices(ctx context.Context, db *gorm.DB, discountID int64) ([]domain.AddonDiscountPrice, error) {
	return list[domain.AddonDiscountPrice](ctx, db, "discount_id = ?", discountID)
}

func (r *repo) FindAddonDiscountPrice(ctx context.Context, db *gorm.DB, discountID int64, iso string) (*domain.AddonDiscountPrice, error) {
	return find[domain.AddonDiscountPrice](ctx, db, "discount_id = ? AND payment_currency_iso = ?", discountID, iso)
}

func (r *repo) UpsertAddonDiscountPrices(ctx context.Context, db *gorm.DB, rows []domain.AddonDiscountPrice) error {
	return upsert(ctx, db, rows, []string{"discount_id", "payment_currency_iso"}, addonValueColumns)
}

func list[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	var items []T
	err := db.WithContext(ctx).
		Where(query, args...).
		Order("payment_currency_iso ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func find[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var item T
	err := db.WithContext(ctx).
		Where(query, args...).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// upsert writes rows keyed by their (owner, currency) unique index. Existing
// rows keep their id, uid and date_created.
func upsert[T any](ctx context.Context, db *gorm.DB, rows []T, conflict, updates []string) error {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]clause.Column, 0, len(conflict))
	for _, name := range conflict {
		columns = append(columns, clause.Column{Name: name})
	}
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   columns,
			DoUpdates: clause.AssignmentColumns(updates),
		}).
		Create(&rows).Error
}
