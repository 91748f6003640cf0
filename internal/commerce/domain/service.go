package domain

import (
	"context"
	"net/url"
	"time"

	"gorm.io/gorm"
)

type CurrencyService interface {
	// All returns the configured payment currencies, primary first.
	All(ctx context.Context) ([]PaymentCurrency, error)
	// ByISO fails with ErrCurrencyNotFound for codes that are not configured.
	ByISO(ctx context.Context, iso string) (*PaymentCurrency, error)
}

type PurchasableService interface {
	Get(ctx context.Context, id int64) (*Purchasable, error)
}

type SaleService interface {
	ActiveSalesFor(ctx context.Context, purchasableID int64, at time.Time) ([]Sale, error)
}

// SaveEvent is handed to save hooks after the owning row is written.
// Tx is the transaction the owning row was written in.
type SaveEvent struct {
	Kind   EntityKind
	ID     int64
	SiteID int64
	IsNew  bool
	Form   url.Values
	Tx     *gorm.DB
}

type SaveHook func(ctx context.Context, ev SaveEvent) error

type SaveResult struct {
	Kind  EntityKind `json:"kind"`
	ID    int64      `json:"id"`
	IsNew bool       `json:"is_new"`
}

type SaveService interface {
	// Save writes the owning entity from form and runs the hooks registered
	// for kind inside the same transaction.
	Save(ctx context.Context, kind EntityKind, form url.Values) (*SaveResult, error)
	RegisterHook(kind EntityKind, hook SaveHook)
}
