package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
)

const (
	TablePurchasablePrices  = "commerce_currencyprices"
	TableShippingCategories = "commerce_shippingrule_categories_currencyprices"
	TableShippingRules      = "commerce_shippingrules_currencyprices"
	TableDiscounts          = "commerce_discounts_currencyprices"
	TableAddonDiscounts     = "addons_discounts_currencyprices"
)

// PurchasablePrice holds one override price for a purchasable in one
// payment currency.
type PurchasablePrice struct {
	ID                 snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	PurchasableID      int64           `json:"purchasable_id" gorm:"not null;uniqueIndex:idx_cp_purchasable_iso,priority:1"`
	SiteID             int64           `json:"site_id" gorm:"not null"`
	PaymentCurrencyISO string          `json:"payment_currency_iso" gorm:"column:payment_currency_iso;type:char(3);not null;uniqueIndex:idx_cp_purchasable_iso,priority:2;index:idx_cp_iso"`
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(14,4);not null;default:0"`
	DateCreated        time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated        time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	UID                string          `json:"uid" gorm:"column:uid;type:char(36);not null"`

	Purchasable     *commercedomain.Purchasable     `json:"-" gorm:"foreignKey:PurchasableID;constraint:fk_cp_purchasable,OnDelete:CASCADE"`
	PaymentCurrency *commercedomain.PaymentCurrency `json:"-" gorm:"foreignKey:PaymentCurrencyISO;references:ISO;constraint:fk_cp_currency,OnDelete:CASCADE"`
}

func (PurchasablePrice) TableName() string { return TablePurchasablePrices }

// TicketPrice is a purchasable price read back for an event ticket.
type TicketPrice struct {
	PaymentCurrencyISO string          `json:"payment_currency_iso"`
	Price              decimal.Decimal `json:"price"`
}

// Field returns the named price property. Tickets only carry "price".
func (t TicketPrice) Field(prop string) (decimal.Decimal, bool) {
	if prop == "price" {
		return t.Price, true
	}
	return decimal.Zero, false
}

type ShippingCategoryPrice struct {
	ID                 snowflake.ID        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ShippingRuleID     int64               `json:"shipping_rule_id" gorm:"not null;index:idx_srccp_rule;uniqueIndex:idx_srccp_rule_category_iso,priority:1"`
	ShippingCategoryID int64               `json:"shipping_category_id" gorm:"not null;index:idx_srccp_category;uniqueIndex:idx_srccp_rule_category_iso,priority:2"`
	PaymentCurrencyISO string              `json:"payment_currency_iso" gorm:"column:payment_currency_iso;type:char(3);not null;index:idx_srccp_iso;uniqueIndex:idx_srccp_rule_category_iso,priority:3"`
	PerItemRate        decimal.NullDecimal `json:"per_item_rate" gorm:"type:decimal(14,4)"`
	WeightRate         decimal.NullDecimal `json:"weight_rate" gorm:"type:decimal(14,4)"`
	PercentageRate     decimal.NullDecimal `json:"percentage_rate" gorm:"type:decimal(14,4)"`
	DateCreated        time.Time           `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated        time.Time           `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	UID                string              `json:"uid" gorm:"column:uid;type:char(36);not null"`

	ShippingRule     *commercedomain.ShippingRule     `json:"-" gorm:"foreignKey:ShippingRuleID;constraint:fk_srccp_rule,OnDelete:CASCADE"`
	ShippingCategory *commercedomain.ShippingCategory `json:"-" gorm:"foreignKey:ShippingCategoryID;constraint:fk_srccp_category,OnDelete:CASCADE"`
	PaymentCurrency  *commercedomain.PaymentCurrency  `json:"-" gorm:"foreignKey:PaymentCurrencyISO;references:ISO;constraint:fk_srccp_currency,OnDelete:CASCADE"`
}

func (ShippingCategoryPrice) TableName() string { return TableShippingCategories }

type ShippingRulePrice struct {
	ID                 snowflake.ID    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ShippingRuleID     int64           `json:"shipping_rule_id" gorm:"not null;index:idx_srcp_rule;uniqueIndex:idx_srcp_rule_iso,priority:1"`
	PaymentCurrencyISO string          `json:"payment_currency_iso" gorm:"column:payment_currency_iso;type:char(3);not null;index:idx_srcp_iso;uniqueIndex:idx_srcp_rule_iso,priority:2"`
	MinTotal           decimal.Decimal `json:"min_total" gorm:"type:decimal(14,4);not null;default:0"`
	MaxTotal           decimal.Decimal `json:"max_total" gorm:"type:decimal(14,4);not null;default:0"`
	MinWeight          decimal.Decimal `json:"min_weight" gorm:"type:decimal(14,4);not null;default:0"`
	MaxWeight          decimal.Decimal `json:"max_weight" gorm:"type:decimal(14,4);not null;default:0"`
	BaseRate           decimal.Decimal `json:"base_rate" gorm:"type:decimal(14,4);not null;default:0"`
	PerItemRate        decimal.Decimal `json:"per_item_rate" gorm:"type:decimal(14,4);not null;default:0"`
	WeightRate         decimal.Decimal `json:"weight_rate" gorm:"type:decimal(14,4);not null;default:0"`
	PercentageRate     decimal.Decimal `json:"percentage_rate" gorm:"type:decimal(14,4);not null;default:0"`
	MinRate            decimal.Decimal `json:"min_rate" gorm:"type:decimal(14,4);not null;default:0"`
	MaxRate            decimal.Decimal `json:"max_rate" gorm:"type:decimal(14,4);not null;default:0"`
	DateCreated        time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated        time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	UID                string          `json:"uid" gorm:"column:uid;type:char(36);not null"`

	ShippingRule    *commercedomain.ShippingRule    `json:"-" gorm:"foreignKey:ShippingRuleID;constraint:fk_srcp_rule,OnDelete:CASCADE"`
	PaymentCurrency *commercedomain.PaymentCurrency `json:"-" gorm:"foreignKey:PaymentCurrencyISO;references:ISO;constraint:fk_srcp_currency,OnDelete:CASCADE"`
}

func (ShippingRulePrice) TableName() string { return TableShippingRules }

type DiscountPrice struct {
	ID                 snowflake.ID        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	DiscountID         int64               `json:"discount_id" gorm:"not null;index:idx_dcp_discount;uniqueIndex:idx_dcp_discount_iso,priority:1"`
	PaymentCurrencyISO string              `json:"payment_currency_iso" gorm:"column:payment_currency_iso;type:char(3);not null;index:idx_dcp_iso;uniqueIndex:idx_dcp_discount_iso,priority:2"`
	PurchaseTotal      decimal.NullDecimal `json:"purchase_total" gorm:"type:decimal(14,4)"`
	BaseDiscount       decimal.NullDecimal `json:"base_discount" gorm:"type:decimal(14,4)"`
	PerItemDiscount    decimal.NullDecimal `json:"per_item_discount" gorm:"type:decimal(14,4)"`
	DateCreated        time.Time           `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated        time.Time           `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	UID                string              `json:"uid" gorm:"column:uid;type:char(36);not null"`

	Discount        *commercedomain.Discount        `json:"-" gorm:"foreignKey:DiscountID;constraint:fk_dcp_discount,OnDelete:CASCADE"`
	PaymentCurrency *commercedomain.PaymentCurrency `json:"-" gorm:"foreignKey:PaymentCurrencyISO;references:ISO;constraint:fk_dcp_currency,OnDelete:CASCADE"`
}

func (DiscountPrice) TableName() string { return TableDiscounts }

// AddonDiscountPrice has no foreign keys: the discounts add-on is optional
// and its table may not exist.
type AddonDiscountPrice struct {
	ID                 snowflake.ID        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	DiscountID         int64               `json:"discount_id" gorm:"not null;index:idx_adcp_discount;uniqueIndex:idx_adcp_discount_iso,priority:1"`
	PaymentCurrencyISO string              `json:"payment_currency_iso" gorm:"column:payment_currency_iso;type:char(3);not null;index:idx_adcp_iso;uniqueIndex:idx_adcp_discount_iso,priority:2"`
	PerItemDiscount    decimal.NullDecimal `json:"per_item_discount" gorm:"type:decimal(14,4)"`
	DateCreated        time.Time           `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated        time.Time           `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
	UID                string              `json:"uid" gorm:"column:uid;type:char(36);not null"`
}

func (AddonDiscountPrice) TableName() string { return TableAddonDiscounts }

// PriceMap maps a payment currency ISO code to a stored price.
type PriceMap map[string]decimal.Decimal

// Models lists the plugin tables in creation order.
func Models() []any {
	return []any{
		&PurchasablePrice{},
		&ShippingCategoryPrice{},
		&ShippingRulePrice{},
		&DiscountPrice{},
		&AddonDiscountPrice{},
	}
}
