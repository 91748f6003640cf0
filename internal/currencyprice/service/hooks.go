package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ruleSetter func(*domain.ShippingRulePrice, decimal.Decimal)

var shippingRuleProps = map[string]ruleSetter{
	"minTotal":       func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MinTotal = d },
	"maxTotal":       func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MaxTotal = d },
	"minWeight":      func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MinWeight = d },
	"maxWeight":      func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MaxWeight = d },
	"baseRate":       func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.BaseRate = d },
	"perItemRate":    func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.PerItemRate = d },
	"weightRate":     func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.WeightRate = d },
	"percentageRate": func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.PercentageRate = d },
	"minRate":        func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MinRate = d },
	"maxRate":        func(r *domain.ShippingRulePrice, d decimal.Decimal) { r.MaxRate = d },
}

type categorySetter func(*domain.ShippingCategoryPrice, decimal.NullDecimal)

var categoryProps = map[string]categorySetter{
	"perItemRate":    func(r *domain.ShippingCategoryPrice, d decimal.NullDecimal) { r.PerItemRate = d },
	"weightRate":     func(r *domain.ShippingCategoryPrice, d decimal.NullDecimal) { r.WeightRate = d },
	"percentageRate": func(r *domain.ShippingCategoryPrice, d decimal.NullDecimal) { r.PercentageRate = d },
}

type discountSetter func(*domain.DiscountPrice, decimal.NullDecimal)

var discountProps = map[string]discountSetter{
	"purchaseTotal":   func(r *domain.DiscountPrice, d decimal.NullDecimal) { r.PurchaseTotal = d },
	"baseDiscount":    func(r *domain.DiscountPrice, d decimal.NullDecimal) { r.BaseDiscount = d },
	"perItemDiscount": func(r *domain.DiscountPrice, d decimal.NullDecimal) { r.PerItemDiscount = d },
}

type HookParams struct {
	fx.In

	Log     *zap.Logger
	Save    commercedomain.SaveService
	Service *Service
}

// RegisterHooks attaches price persistence to the host save pipeline.
func RegisterHooks(p HookParams) {
	h := &hooks{svc: p.Service, log: p.Log.Named("currencyprice.hooks")}

	p.Save.RegisterHook(commercedomain.EntityTicket, h.savePurchasable)
	p.Save.RegisterHook(commercedomain.EntityProduct, h.savePurchasable)
	p.Save.RegisterHook(commercedomain.EntityShippingRule, h.saveShippingRule)
	p.Save.RegisterHook(commercedomain.EntityDiscount, h.saveDiscount)
	p.Save.RegisterHook(commercedomain.EntityAddonDiscount, h.saveAddonDiscount)
}

// hooks start from the stored row for (owner, currency); properties missing
// from the form keep their values.
type hooks struct {
	svc *Service
	log *zap.Logger
}

func (h *hooks) savePurchasable(ctx context.Context, ev commercedomain.SaveEvent) error {
	fp, err := DecodeForm(ev.Form)
	if err != nil || fp.Empty() {
		return err
	}

	prices := domain.PriceMap{}
	for iso, props := range fp.Values {
		if price, ok := props["price"]; ok {
			prices[iso] = price
		}
	}
	return h.svc.SavePurchasablePrices(ctx, ev.Tx, ev.ID, ev.SiteID, prices)
}

func (h *hooks) saveShippingRule(ctx context.Context, ev commercedomain.SaveEvent) error {
	fp, err := DecodeForm(ev.Form)
	if err != nil || fp.Empty() {
		return err
	}

	var rules []domain.ShippingRulePrice
	for _, iso := range sortedKeys(fp.Values) {
		row := domain.ShippingRulePrice{PaymentCurrencyISO: iso}
		existing, err := h.svc.repo.FindShippingRulePrice(ctx, ev.Tx, ev.ID, iso)
		if err != nil {
			return err
		}
		if existing != nil {
			row = *existing
		}
		matched := false
		for prop, amount := range fp.Values[iso] {
			set, ok := shippingRuleProps[prop]
			if !ok {
				h.log.Debug("ignoring shipping rule property", zap.String("prop", prop))
				continue
			}
			set(&row, amount)
			matched = true
		}
		if matched {
			rules = append(rules, row)
		}
	}
	if err := h.svc.SaveShippingRulePrices(ctx, ev.Tx, ev.ID, rules); err != nil {
		return err
	}

	var categories []domain.ShippingCategoryPrice
	for _, iso := range sortedKeys(fp.Categories) {
		for categoryID, props := range fp.Categories[iso] {
			row := domain.ShippingCategoryPrice{ShippingCategoryID: categoryID, PaymentCurrencyISO: iso}
			existing, err := h.svc.repo.FindShippingCategoryPrice(ctx, ev.Tx, ev.ID, categoryID, iso)
			if err != nil {
				return err
			}
			if existing != nil {
				row = *existing
			}
			for prop, amount := range props {
				if set, ok := categoryProps[prop]; ok {
					set(&row, decimal.NewNullDecimal(amount))
				}
			}
			categories = append(categories, row)
		}
	}
	return h.svc.SaveShippingCategoryPrices(ctx, ev.Tx, ev.ID, categories)
}

func (h *hooks) saveDiscount(ctx context.Context, ev commercedomain.SaveEvent) error {
	fp, err := DecodeForm(ev.Form)
	if err != nil || fp.Empty() {
		return err
	}

	rows := make([]domain.DiscountPrice, 0, len(fp.Values))
	for _, iso := range sortedKeys(fp.Values) {
		row := domain.DiscountPrice{PaymentCurrencyISO: iso}
		existing, err := h.svc.repo.FindDiscountPrice(ctx, ev.Tx, ev.ID, iso)
		if err != nil {
			return err
		}
		if existing != nil {
			row = *existing
		}
		for prop, amount := range fp.Values[iso] {
			if set, ok := discountProps[prop]; ok {
				set(&row, decimal.NewNullDecimal(amount))
			}
		}
		rows = append(rows, row)
	}
	return h.svc.SaveDiscountPrices(ctx, ev.Tx, ev.ID, rows)
}

func (h *hooks) saveAddonDiscount(ctx context.Context, ev commercedomain.SaveEvent) error {
	fp, err := DecodeForm(ev.Form)
	if err != nil || fp.Empty() {
		return err
	}

	rows := make([]domain.AddonDiscountPrice, 0, len(fp.Values))
	for _, iso := range sortedKeys(fp.Values) {
		amount, ok := fp.Values[iso]["perItemDiscount"]
		if !ok {
			continue
		}
		rows = append(rows, domain.AddonDiscountPrice{
			PaymentCurrencyISO: iso,
			PerItemDiscount:    decimal.NewNullDecimal(amount),
		})
	}
	return h.svc.SaveAddonPrices(ctx, ev.Tx, ev.ID, rows)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
