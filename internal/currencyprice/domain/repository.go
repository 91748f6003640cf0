package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPurchasablePrices(ctx context.Context, db *gorm.DB, purchasableID int64) ([]PurchasablePrice, error)
	UpsertPurchasablePrices(ctx context.Context, db *gorm.DB, rows []PurchasablePrice) error

	ListShippingRulePrices(ctx context.Context, db *gorm.DB, ruleID int64) ([]ShippingRulePrice, error)
	FindShippingRulePrice(ctx context.Context, db *gorm.DB, ruleID int64, iso string) (*ShippingRulePrice, error)
	UpsertShippingRulePrices(ctx context.Context, db *gorm.DB, rows []ShippingRulePrice) error

	ListShippingCategoryPrices(ctx context.Context, db *gorm.DB, ruleID int64) ([]ShippingCategoryPrice, error)
	FindShippingCategoryPrice(ctx context.Context, db *gorm.DB, ruleID, categoryID int64, iso string) (*ShippingCategoryPrice, error)
	UpsertShippingCategoryPrices(ctx context.Context, db *gorm.DB, rows []ShippingCategoryPrice) error

	ListDiscountPrices(ctx context.Context, db *gorm.DB, discountID int64) ([]DiscountPrice, error)
	FindDiscountPrice(ctx context.Context, db *gorm.DB, discountID int64, iso string) (*DiscountPrice, error)
	UpsertDiscountPrices(ctx context.Context, db *gorm.DB, rows []DiscountPrice) error

	ListAddonDiscountPrices(ctx context.Context, db *gorm.DB, discountID int64) ([]AddonDiscountPrice, error)
	FindAddonDiscountPrice(ctx context.Context, db *gorm.DB, discountID int64, iso string) (*AddonDiscountPrice, error)
	UpsertAddonDiscountPrices(ctx context.Context, db *gorm.DB, rows []AddonDiscountPrice) error
}
