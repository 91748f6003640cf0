package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type EntityKind string

const (
	EntityTicket        EntityKind = "tickets"
	EntityProduct       EntityKind = "products"
	EntityShippingRule  EntityKind = "shipping-rules"
	EntityDiscount      EntityKind = "discounts"
	EntityAddonDiscount EntityKind = "addon-discounts"
)

func (k EntityKind) Valid() bool {
	switch k {
	case EntityTicket, EntityProduct, EntityShippingRule, EntityDiscount, EntityAddonDiscount:
		return true
	}
	return false
}

type PurchasableType string

const (
	PurchasableProduct PurchasableType = "product"
	PurchasableTicket  PurchasableType = "ticket"
)

type PaymentCurrency struct {
	ISO         string          `json:"iso" gorm:"column:iso;type:char(3);primaryKey"`
	Primary     bool            `json:"primary" gorm:"column:is_primary;not null;default:false"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(14,4);not null;default:1"`
	SortOrder   int             `json:"sort_order" gorm:"not null;default:0"`
	DateCreated time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (PaymentCurrency) TableName() string { return "commerce_paymentcurrencies" }

type Purchasable struct {
	ID          int64             `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Type        PurchasableType   `json:"type" gorm:"type:varchar(16);not null;index"`
	SKU         string            `json:"sku" gorm:"column:sku;type:varchar(255)"`
	Title       string            `json:"title" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal   `json:"price" gorm:"type:decimal(14,4);not null;default:0"`
	Attributes  datatypes.JSONMap `json:"attributes,omitempty"`
	DateCreated time.Time         `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated time.Time         `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (Purchasable) TableName() string { return "commerce_purchasables" }

type SaleApply string

const (
	SaleToPercent SaleApply = "toPercent"
	SaleByPercent SaleApply = "byPercent"
	SaleToFlat    SaleApply = "toFlat"
	SaleByFlat    SaleApply = "byFlat"
)

type Sale struct {
	ID              int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string          `json:"name" gorm:"type:varchar(255);not null"`
	Apply           SaleApply       `json:"apply" gorm:"type:varchar(16);not null"`
	ApplyAmount     decimal.Decimal `json:"apply_amount" gorm:"type:decimal(14,4);not null;default:0"`
	AllPurchasables bool            `json:"all_purchasables" gorm:"not null;default:false"`
	IgnorePrevious  bool            `json:"ignore_previous" gorm:"not null;default:false"`
	StopProcessing  bool            `json:"stop_processing" gorm:"not null;default:false"`
	Enabled         bool            `json:"enabled" gorm:"not null"`
	DateFrom        *time.Time      `json:"date_from,omitempty"`
	DateTo          *time.Time      `json:"date_to,omitempty"`
	SortOrder       int             `json:"sort_order" gorm:"not null;default:0"`
	DateCreated     time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated     time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (Sale) TableName() string { return "commerce_sales" }

type SalePurchasable struct {
	ID            int64 `gorm:"primaryKey"`
	SaleID        int64 `gorm:"not null;uniqueIndex:idx_sale_purchasable"`
	PurchasableID int64 `gorm:"not null;uniqueIndex:idx_sale_purchasable"`
}

func (SalePurchasable) TableName() string { return "commerce_sale_purchasables" }

type ShippingCategory struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Handle      string    `json:"handle" gorm:"type:varchar(255);not null"`
	DateCreated time.Time `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated time.Time `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (ShippingCategory) TableName() string { return "commerce_shippingcategories" }

type ShippingRule struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Enabled     bool            `json:"enabled" gorm:"not null"`
	BaseRate    decimal.Decimal `json:"base_rate" gorm:"type:decimal(14,4);not null;default:0"`
	PerItemRate decimal.Decimal `json:"per_item_rate" gorm:"type:decimal(14,4);not null;default:0"`
	DateCreated time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (ShippingRule) TableName() string { return "commerce_shippingrules" }

type Discount struct {
	ID              int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string          `json:"name" gorm:"type:varchar(255);not null"`
	Code            *string         `json:"code,omitempty" gorm:"type:varchar(255)"`
	PurchaseTotal   decimal.Decimal `json:"purchase_total" gorm:"type:decimal(14,4);not null;default:0"`
	BaseDiscount    decimal.Decimal `json:"base_discount" gorm:"type:decimal(14,4);not null;default:0"`
	PerItemDiscount decimal.Decimal `json:"per_item_discount" gorm:"type:decimal(14,4);not null;default:0"`
	DateCreated     time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated     time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (Discount) TableName() string { return "commerce_discounts" }

// AddonDiscount belongs to the optional discounts add-on.
type AddonDiscount struct {
	ID              int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string          `json:"name" gorm:"type:varchar(255);not null"`
	PerItemDiscount decimal.Decimal `json:"per_item_discount" gorm:"type:decimal(14,4);not null;default:0"`
	DateCreated     time.Time       `json:"date_created" gorm:"column:date_created;autoCreateTime"`
	DateUpdated     time.Time       `json:"date_updated" gorm:"column:date_updated;autoUpdateTime"`
}

func (AddonDiscount) TableName() string { return "addons_discounts" }

// Models lists the host tables in dependency order.
func Models() []any {
	return []any{
		&PaymentCurrency{},
		&Purchasable{},
		&Sale{},
		&SalePurchasable{},
		&ShippingCategory{},
		&ShippingRule{},
		&Discount{},
		&AddonDiscount{},
	}
}
