package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	ListPaymentCurrencies(ctx context.Context, db *gorm.DB) ([]PaymentCurrency, error)
	FindPaymentCurrency(ctx context.Context, db *gorm.DB, iso string) (*PaymentCurrency, error)

	FindPurchasable(ctx context.Context, db *gorm.DB, id int64) (*Purchasable, error)
	UpsertPurchasable(ctx context.Context, db *gorm.DB, p *Purchasable) error

	ListActiveSales(ctx context.Context, db *gorm.DB, purchasableID int64, at time.Time) ([]Sale, error)

	UpsertShippingRule(ctx context.Context, db *gorm.DB, r *ShippingRule) error
	UpsertDiscount(ctx context.Context, db *gorm.DB, d *Discount) error
	UpsertAddonDiscount(ctx context.Context, db *gorm.DB, d *AddonDiscount) error
}
