package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricesByPurchasableIDWithoutRowsIsNil(t *testing.T) {
	f := newFixture(t)
	f.purchasable(t, 7)

	prices, err := f.svc.PricesByPurchasableID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, prices)
}

func TestSavePurchasablePricesUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchasable(t, 7)

	require.NoError(t, f.svc.SavePurchasablePrices(ctx, f.db, 7, 1, domain.PriceMap{
		"usd": dec("10"),
		"EUR": dec("9.5"),
	}))

	var first domain.PurchasablePrice
	require.NoError(t, f.db.Where("purchasable_id = ? AND payment_currency_iso = ?", 7, "USD").Take(&first).Error)

	require.NoError(t, f.svc.SavePurchasablePrices(ctx, f.db, 7, 1, domain.PriceMap{"USD": dec("12.25")}))

	var count int64
	require.NoError(t, f.db.Model(&domain.PurchasablePrice{}).Where("purchasable_id = ?", 7).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var second domain.PurchasablePrice
	require.NoError(t, f.db.Where("purchasable_id = ? AND payment_currency_iso = ?", 7, "USD").Take(&second).Error)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.UID, second.UID)

	prices, err := f.svc.PricesByPurchasableID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, prices["USD"].Equal(dec("12.25")))
	assert.True(t, prices["EUR"].Equal(dec("9.5")))
	_, ok := prices["GBP"]
	assert.False(t, ok)

	tickets, err := f.svc.PricesByTicketID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "EUR", tickets[0].PaymentCurrencyISO)
	v, ok := tickets[1].Field("price")
	assert.True(t, ok)
	assert.True(t, v.Equal(dec("12.25")))
}

func TestSaveRejectsUnconfiguredCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchasable(t, 7)

	err := f.svc.SavePurchasablePrices(ctx, f.db, 7, 1, domain.PriceMap{"JPY": dec("100")})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	err = f.svc.SaveAddonPrices(ctx, f.db, 3, []domain.AddonDiscountPrice{{PaymentCurrencyISO: "CHF"}})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	err = f.svc.SaveDiscountPrices(ctx, f.db, 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestAddonPricesLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SaveAddonPrices(ctx, f.db, 3, []domain.AddonDiscountPrice{
		{PaymentCurrencyISO: "gbp", PerItemDiscount: decimal.NewNullDecimal(dec("5.00"))},
	}))

	row, err := f.svc.PriceByAddonIDAndCurrency(ctx, 3, "GBP")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.PerItemDiscount.Valid)
	assert.True(t, row.PerItemDiscount.Decimal.Equal(dec("5")))

	row, err = f.svc.PriceByAddonIDAndCurrency(ctx, 3, "EUR")
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := f.svc.PricesByAddonID(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSalePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.purchasable(t, 7)

	require.NoError(t, f.svc.SavePurchasablePrices(ctx, f.db, 7, 1, domain.PriceMap{"EUR": dec("100")}))
	require.NoError(t, f.db.Create(&commercedomain.Sale{
		ID: 1, Name: "spring", Apply: commercedomain.SaleByPercent, ApplyAmount: dec("0.2"),
		Enabled: true, AllPurchasables: true,
	}).Error)

	price, err := f.svc.SalePrice(ctx, p, "EUR")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("80")), price.String())

	price, err = f.svc.SalePrice(ctx, p, "USD")
	require.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestSalePriceHonoursSaleWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.purchasable(t, 8)

	require.NoError(t, f.svc.SavePurchasablePrices(ctx, f.db, 8, 1, domain.PriceMap{"GBP": dec("50")}))
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Create(&commercedomain.Sale{
		ID: 2, Name: "june", Apply: commercedomain.SaleToFlat, ApplyAmount: dec("30"),
		Enabled: true, DateFrom: &from, DateTo: &to,
	}).Error)
	require.NoError(t, f.db.Create(&commercedomain.SalePurchasable{ID: 1, SaleID: 2, PurchasableID: 8}).Error)

	price, err := f.svc.SalePrice(ctx, p, "GBP")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("50")), price.String())

	f.clock.Set(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC))
	price, err = f.svc.SalePrice(ctx, p, "GBP")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("30")), price.String())

	f.clock.Advance(30 * 24 * time.Hour)
	price, err = f.svc.SalePrice(ctx, p, "GBP")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("50")), price.String())
}

func TestHooksPersistThroughHostSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Create(&commercedomain.ShippingCategory{ID: 12, Name: "Bulky", Handle: "bulky"}).Error)

	_, err := f.save.Save(ctx, commercedomain.EntityProduct, map[string][]string{
		"id":                         {"7"},
		"title":                      {"Widget"},
		"currencyPrices[USD][price]": {"19.9900"},
	})
	require.NoError(t, err)

	prices, err := f.svc.PricesByPurchasableID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, prices["USD"].Equal(dec("19.99")))

	_, err = f.save.Save(ctx, commercedomain.EntityShippingRule, map[string][]string{
		"id":   {"5"},
		"name": {"Domestic"},
		"currencyPrices[EUR][baseRate]":                    {"4.0000"},
		"currencyPrices[EUR][maxRate]":                     {"20.0000"},
		"currencyPrices[EUR][categories][12][perItemRate]": {"1.5000"},
	})
	require.NoError(t, err)

	rule, err := f.svc.PriceByShippingRuleIDAndCurrency(ctx, 5, "EUR")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.True(t, rule.BaseRate.Equal(dec("4")))
	assert.True(t, rule.MaxRate.Equal(dec("20")))
	assert.True(t, rule.MinTotal.IsZero())

	cat, err := f.svc.CategoryPriceByRuleCategoryAndCurrency(ctx, 5, 12, "EUR")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.True(t, cat.PerItemRate.Decimal.Equal(dec("1.5")))
	assert.False(t, cat.WeightRate.Valid)

	_, err = f.save.Save(ctx, commercedomain.EntityDiscount, map[string][]string{
		"id":   {"3"},
		"name": {"Ten off"},
		"currencyPrices[GBP][baseDiscount]": {"10.0000"},
	})
	require.NoError(t, err)
	discounts, err := f.svc.PricesByDiscountID(ctx, 3)
	require.NoError(t, err)
	require.Len(t, discounts, 1)
	assert.True(t, discounts[0].BaseDiscount.Decimal.Equal(dec("10")))
	assert.False(t, discounts[0].PerItemDiscount.Valid)

	_, err = f.save.Save(ctx, commercedomain.EntityAddonDiscount, map[string][]string{
		"id":   {"9"},
		"name": {"Bundle"},
		"currencyPrices[GBP][perItemDiscount]": {"5.0000"},
	})
	require.NoError(t, err)

	addon, err := f.svc.PriceByAddonIDAndCurrency(ctx, 9, "GBP")
	require.NoError(t, err)
	require.NotNil(t, addon)
	assert.True(t, addon.PerItemDiscount.Decimal.Equal(dec("5")))

	addon, err = f.svc.PriceByAddonIDAndCurrency(ctx, 9, "EUR")
	require.NoError(t, err)
	assert.Nil(t, addon)
}

func TestHooksKeepPropertiesMissingFromForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Create(&commercedomain.ShippingCategory{ID: 12, Name: "Bulky", Handle: "bulky"}).Error)

	_, err := f.save.Save(ctx, commercedomain.EntityShippingRule, map[string][]string{
		"id":   {"5"},
		"name": {"Domestic"},
		"currencyPrices[EUR][baseRate]":                    {"4.0000"},
		"currencyPrices[EUR][maxRate]":                     {"20.0000"},
		"currencyPrices[EUR][categories][12][perItemRate]": {"1.5000"},
	})
	require.NoError(t, err)

	_, err = f.save.Save(ctx, commercedomain.EntityShippingRule, map[string][]string{
		"id":   {"5"},
		"name": {"Domestic"},
		"currencyPrices[EUR][minTotal]":                   {"2.0000"},
		"currencyPrices[EUR][categories][12][weightRate]": {"0.5000"},
	})
	require.NoError(t, err)

	rule, err := f.svc.PriceByShippingRuleIDAndCurrency(ctx, 5, "EUR")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.True(t, rule.BaseRate.Equal(dec("4")), rule.BaseRate.String())
	assert.True(t, rule.MaxRate.Equal(dec("20")), rule.MaxRate.String())
	assert.True(t, rule.MinTotal.Equal(dec("2")), rule.MinTotal.String())

	cat, err := f.svc.CategoryPriceByRuleCategoryAndCurrency(ctx, 5, 12, "EUR")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.True(t, cat.PerItemRate.Decimal.Equal(dec("1.5")))
	require.True(t, cat.WeightRate.Valid)
	assert.True(t, cat.WeightRate.Decimal.Equal(dec("0.5")))
	assert.False(t, cat.PercentageRate.Valid)

	_, err = f.save.Save(ctx, commercedomain.EntityDiscount, map[string][]string{
		"id":   {"3"},
		"name": {"Ten off"},
		"currencyPrices[GBP][baseDiscount]": {"10.0000"},
	})
	require.NoError(t, err)
	_, err = f.save.Save(ctx, commercedomain.EntityDiscount, map[string][]string{
		"id":   {"3"},
		"name": {"Ten off"},
		"currencyPrices[GBP][perItemDiscount]": {"1.0000"},
	})
	require.NoError(t, err)

	discount, err := f.svc.PriceByDiscountIDAndCurrency(ctx, 3, "GBP")
	require.NoError(t, err)
	require.NotNil(t, discount)
	assert.True(t, discount.BaseDiscount.Decimal.Equal(dec("10")))
	assert.True(t, discount.PerItemDiscount.Decimal.Equal(dec("1")))

	rows, err := f.svc.PricesByDiscountID(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHookFailureRollsBackHostSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.save.Save(ctx, commercedomain.EntityTicket, map[string][]string{
		"id":                         {"8"},
		"title":                      {"VIP"},
		"currencyPrices[JPY][price]": {"100"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	var count int64
	require.NoError(t, f.db.Model(&commercedomain.Purchasable{}).Where("id = ?", 8).Count(&count).Error)
	assert.Zero(t, count)
}
