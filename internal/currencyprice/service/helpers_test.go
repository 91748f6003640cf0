package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/clock"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	commercerepo "github.com/smallbiznis/currencyprices/internal/commerce/repository"
	commerceservice "github.com/smallbiznis/currencyprices/internal/commerce/service"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/repository"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"github.com/smallbiznis/currencyprices/internal/migration"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   *Service
	save  *commerceservice.SaveService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.EnsureHostSchema(ctx, conn))
	_, err = migration.NewInstaller(conn, zap.NewNop()).Up(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.Create(&[]commercedomain.PaymentCurrency{
		{ISO: "USD", Primary: true, SortOrder: 1},
		{ISO: "EUR", SortOrder: 2},
		{ISO: "GBP", SortOrder: 3},
	}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	formatter, err := localization.NewFormatter("en")
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	hostRepo := commercerepo.Provide()

	catalog := commerceservice.NewCatalogService(commerceservice.CatalogParams{DB: conn, Repo: hostRepo})
	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     repository.Provide(),
		Sales:    catalog,
		Currency: hostRepo,
	})
	save := commerceservice.NewSaveService(commerceservice.SaveParams{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      hostRepo,
		Formatter: formatter,
	})
	RegisterHooks(HookParams{Log: zap.NewNop(), Save: save, Service: svc})

	return &fixture{db: conn, clock: fake, svc: svc, save: save}
}

func (f *fixture) purchasable(t *testing.T, id int64) *commercedomain.Purchasable {
	t.Helper()
	p := &commercedomain.Purchasable{ID: id, Type: commercedomain.PurchasableProduct, Title: "Widget"}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
