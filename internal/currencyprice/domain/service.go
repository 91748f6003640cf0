package domain

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"gorm.io/gorm"
)

type PurchasableService interface {
	// PricesByPurchasableID returns nil when the purchasable has no rows.
	PricesByPurchasableID(ctx context.Context, purchasableID int64) (PriceMap, error)
	PricesByTicketID(ctx context.Context, ticketID int64) ([]TicketPrice, error)
	SavePurchasablePrices(ctx context.Context, tx *gorm.DB, purchasableID, siteID int64, prices PriceMap) error
	// SalePrice applies the purchasable's active sales to its stored price
	// in iso.
	SalePrice(ctx context.Context, purchasable *commercedomain.Purchasable, iso string) (decimal.Decimal, error)
}

type ShippingService interface {
	PricesByShippingRuleID(ctx context.Context, ruleID int64) ([]ShippingRulePrice, error)
	PriceByShippingRuleIDAndCurrency(ctx context.Context, ruleID int64, iso string) (*ShippingRulePrice, error)
	SaveShippingRulePrices(ctx context.Context, tx *gorm.DB, ruleID int64, rows []ShippingRulePrice) error

	CategoryPricesByShippingRuleID(ctx context.Context, ruleID int64) ([]ShippingCategoryPrice, error)
	CategoryPriceByRuleCategoryAndCurrency(ctx context.Context, ruleID, categoryID int64, iso string) (*ShippingCategoryPrice, error)
	SaveShippingCategoryPrices(ctx context.Context, tx *gorm.DB, ruleID int64, rows []ShippingCategoryPrice) error
}

type DiscountService interface {
	PricesByDiscountID(ctx context.Context, discountID int64) ([]DiscountPrice, error)
	PriceByDiscountIDAndCurrency(ctx context.Context, discountID int64, iso string) (*DiscountPrice, error)
	SaveDiscountPrices(ctx context.Context, tx *gorm.DB, discountID int64, rows []DiscountPrice) error
}

type AddonService interface {
	PricesByAddonID(ctx context.Context, discountID int64) ([]AddonDiscountPrice, error)
	PriceByAddonIDAndCurrency(ctx context.Context, discountID int64, iso string) (*AddonDiscountPrice, error)
	SaveAddonPrices(ctx context.Context, tx *gorm.DB, discountID int64, rows []AddonDiscountPrice) error
}

type CollectOptions struct {
	// FlipSign converts displayed reductions back to stored magnitudes.
	FlipSign bool
	// Suffix marks the rendered inputs, "CP" when empty.
	Suffix string
}

// Collector turns the rendered "<prop><Suffix>[<ISO>]" inputs of a submitted form
// into canonical "currencyPrices[<ISO>][<prop>]" fields.
type Collector interface {
	Collect(form url.Values, opts CollectOptions) (url.Values, error)
}
