package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/commerce/repository"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(domain.Models()...))
	require.NoError(t, conn.Create(&[]domain.PaymentCurrency{
		{ISO: "EUR", SortOrder: 2, Rate: decimal.RequireFromString("0.92")},
		{ISO: "USD", Primary: true, SortOrder: 1, Rate: decimal.NewFromInt(1)},
	}).Error)
	return conn
}

func newSaveService(t *testing.T, conn *gorm.DB) *SaveService {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	formatter, err := localization.NewFormatter("en")
	require.NoError(t, err)
	return NewSaveService(SaveParams{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Formatter: formatter,
	})
}

func TestCurrencyService(t *testing.T) {
	conn := setupDB(t)
	svc := NewCurrencyService(CurrencyParams{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})
	ctx := context.Background()

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "USD", all[0].ISO)
	assert.Equal(t, "EUR", all[1].ISO)

	cur, err := svc.ByISO(ctx, " eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", cur.ISO)

	_, err = svc.ByISO(ctx, "GBP")
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)

	_, err = svc.ByISO(ctx, "EURO")
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

func TestSaveRunsHooksInsideTransaction(t *testing.T) {
	conn := setupDB(t)
	svc := newSaveService(t, conn)

	var seen domain.SaveEvent
	svc.RegisterHook(domain.EntityProduct, func(ctx context.Context, ev domain.SaveEvent) error {
		seen = ev
		var count int64
		require.NoError(t, ev.Tx.Model(&domain.Purchasable{}).Where("id = ?", ev.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
		return nil
	})

	res, err := svc.Save(context.Background(), domain.EntityProduct, url.Values{
		"id":    {"7"},
		"title": {"Widget"},
		"price": {"1,250.50"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, res.ID)
	assert.False(t, res.IsNew)
	assert.EqualValues(t, 7, seen.ID)
	assert.EqualValues(t, 1, seen.SiteID)

	var p domain.Purchasable
	require.NoError(t, conn.First(&p, 7).Error)
	assert.Equal(t, domain.PurchasableProduct, p.Type)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1250.5")))
}

func TestSaveRollsBackWhenHookFails(t *testing.T) {
	conn := setupDB(t)
	svc := newSaveService(t, conn)
	boom := errors.New("boom")
	svc.RegisterHook(domain.EntityTicket, func(context.Context, domain.SaveEvent) error { return boom })

	_, err := svc.Save(context.Background(), domain.EntityTicket, url.Values{"title": {"Early bird"}})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, conn.Model(&domain.Purchasable{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveValidation(t *testing.T) {
	conn := setupDB(t)
	svc := newSaveService(t, conn)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.EntityDiscount, url.Values{})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Save(ctx, domain.EntityProduct, url.Values{"id": {"abc"}, "title": {"x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Save(ctx, domain.EntityAddonDiscount, url.Values{"name": {"x"}, "perItemDiscount": {"ten"}})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Save(ctx, domain.EntityKind("orders"), url.Values{})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestSaveGeneratesIDForNewEntities(t *testing.T) {
	conn := setupDB(t)
	svc := newSaveService(t, conn)

	res, err := svc.Save(context.Background(), domain.EntityShippingRule, url.Values{
		"name":     {"Domestic"},
		"enabled":  {"false"},
		"baseRate": {"4.5"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsNew)
	assert.NotZero(t, res.ID)

	var rule domain.ShippingRule
	require.NoError(t, conn.First(&rule, res.ID).Error)
	assert.False(t, rule.Enabled)
	assert.True(t, rule.BaseRate.Equal(decimal.RequireFromString("4.5")))
}

func TestActiveSalesFor(t *testing.T) {
	conn := setupDB(t)
	svc := NewCatalogService(CatalogParams{DB: conn, Repo: repository.Provide()})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)

	require.NoError(t, conn.Create(&domain.Purchasable{ID: 7, Type: domain.PurchasableProduct, Title: "Widget"}).Error)
	require.NoError(t, conn.Create(&[]domain.Sale{
		{ID: 1, Name: "linked", Apply: domain.SaleByPercent, ApplyAmount: decimal.RequireFromString("0.1"), Enabled: true, SortOrder: 2},
		{ID: 2, Name: "everything", Apply: domain.SaleByFlat, ApplyAmount: decimal.NewFromInt(1), Enabled: true, AllPurchasables: true, SortOrder: 1},
		{ID: 3, Name: "expired", Apply: domain.SaleByFlat, ApplyAmount: decimal.NewFromInt(1), Enabled: true, AllPurchasables: true, DateTo: &past},
		{ID: 4, Name: "unlinked", Apply: domain.SaleByFlat, ApplyAmount: decimal.NewFromInt(1), Enabled: true},
	}).Error)
	require.NoError(t, conn.Create(&domain.SalePurchasable{SaleID: 1, PurchasableID: 7}).Error)

	sales, err := svc.ActiveSalesFor(context.Background(), 7, now)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.EqualValues(t, 2, sales[0].ID)
	assert.EqualValues(t, 1, sales[1].ID)

	_, err = svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
