package filters

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	currencypricedomain "github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"go.uber.org/fx"
)

var ErrInvalidArgument = errors.New("invalid_argument")

type Params struct {
	fx.In

	Currencies commercedomain.CurrencyService
	Prices     currencypricedomain.PurchasableService
	Addons     currencypricedomain.AddonService
	Formatter  *localization.Formatter
}

type formatter interface {
	AsCurrency(amount decimal.Decimal, iso string, stripZeros bool) (string, error)
	NormalizeNumber(value any) any
}

// Extension provides the currency price template functions.
type Extension struct {
	currencies commercedomain.CurrencyService
	prices     currencypricedomain.PurchasableService
	addons     currencypricedomain.AddonService
	formatter  formatter
}

func New(p Params) *Extension {
	return &Extension{
		currencies: p.Currencies,
		prices:     p.Prices,
		addons:     p.Addons,
		formatter:  p.Formatter,
	}
}

// Funcs binds the template functions to ctx.
func (e *Extension) Funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"currencyPrice": func(purchasable any, iso string, opts ...bool) (string, error) {
			return e.CurrencyPrice(ctx, purchasable, iso, opts...)
		},
		"currencySalePrice": func(purchasable any, iso string, opts ...bool) (string, error) {
			return e.CurrencySalePrice(ctx, purchasable, iso, opts...)
		},
		"currencyAddonDiscountPrice": func(discountID any, iso string, opts ...bool) (any, error) {
			return e.CurrencyAddonDiscountPrice(ctx, discountID, iso, opts...)
		},
		"currencyAddonDiscountPrices": func(discountID any) (map[string]decimal.Decimal, error) {
			return e.CurrencyAddonDiscountPrices(ctx, discountID)
		},
		"localizationNormalizeNumber": e.LocalizationNormalizeNumber,
	}
}

// CurrencyPrice returns the stored price of purchasable in iso, formatted
// unless format is false. Missing prices yield "".
func (e *Extension) CurrencyPrice(ctx context.Context, purchasable any, iso string, opts ...bool) (string, error) {
	code, err := e.validateCurrency(ctx, iso)
	if err != nil {
		return "", err
	}
	format, stripZeros := options(opts)

	id, err := ownerID(purchasable)
	if err != nil {
		return "", err
	}
	prices, err := e.prices.PricesByPurchasableID(ctx, id)
	if err != nil {
		return "", err
	}
	amount, ok := prices[code]
	if !ok {
		return "", nil
	}

	if !format {
		return amount.StringFixed(4), nil
	}
	return e.formatter.AsCurrency(amount, code, stripZeros)
}

func (e *Extension) CurrencySalePrice(ctx context.Context, purchasable any, iso string, opts ...bool) (string, error) {
	code, err := e.validateCurrency(ctx, iso)
	if err != nil {
		return "", err
	}
	format, stripZeros := options(opts)

	p, ok := purchasable.(*commercedomain.Purchasable)
	if !ok || p == nil {
		id, err := ownerID(purchasable)
		if err != nil {
			return "", err
		}
		p = &commercedomain.Purchasable{ID: id}
	}

	salePrice, err := e.prices.SalePrice(ctx, p, code)
	if err != nil {
		return "", err
	}
	if !format {
		return salePrice.StringFixed(4), nil
	}
	return e.formatter.AsCurrency(salePrice, code, stripZeros)
}

// CurrencyAddonDiscountPrice returns the negated per-item discount, as a
// decimal when format is false and a formatted string otherwise. It returns
// nil when the discount has no price in iso.
func (e *Extension) CurrencyAddonDiscountPrice(ctx context.Context, discountID any, iso string, opts ...bool) (any, error) {
	code, err := e.validateCurrency(ctx, iso)
	if err != nil {
		return nil, err
	}
	format, stripZeros := options(opts)

	id, err := ownerID(discountID)
	if err != nil {
		return nil, err
	}
	row, err := e.addons.PriceByAddonIDAndCurrency(ctx, id, code)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	amount := row.PerItemDiscount.Decimal.Neg()
	if !format {
		return amount, nil
	}
	return e.formatter.AsCurrency(amount, code, stripZeros)
}

func (e *Extension) CurrencyAddonDiscountPrices(ctx context.Context, discountID any) (map[string]decimal.Decimal, error) {
	id, err := ownerID(discountID)
	if err != nil {
		return nil, err
	}
	rows, err := e.addons.PricesByAddonID(ctx, id)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		prices[row.PaymentCurrencyISO] = row.PerItemDiscount.Decimal.Neg()
	}
	return prices, nil
}

func (e *Extension) LocalizationNormalizeNumber(number any) any {
	return e.formatter.NormalizeNumber(number)
}

func (e *Extension) validateCurrency(ctx context.Context, iso string) (string, error) {
	cur, err := e.currencies.ByISO(ctx, iso)
	if err != nil {
		return "", fmt.Errorf("invalid payment currency %q: %w", iso, err)
	}
	return cur.ISO, nil
}

// options reads the optional (format, stripZeros) arguments.
func options(opts []bool) (format, stripZeros bool) {
	format = true
	if len(opts) > 0 {
		format = opts[0]
	}
	if len(opts) > 1 {
		stripZeros = opts[1]
	}
	return format, stripZeros
}

func ownerID(v any) (int64, error) {
	switch t := v.(type) {
	case *commercedomain.Purchasable:
		if t != nil {
			return t.ID, nil
		}
	case commercedomain.Purchasable:
		return t.ID, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err == nil {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, v)
}
