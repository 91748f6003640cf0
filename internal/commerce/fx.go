package commerce

import (
	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/commerce/repository"
	"github.com/smallbiznis/currencyprices/internal/commerce/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commerce",
	fx.Provide(repository.Provide),
	fx.Provide(fx.Annotate(
		service.NewCurrencyService,
		fx.As(fx.Self()),
		fx.As(new(domain.CurrencyService)),
	)),
	fx.Provide(fx.Annotate(
		service.NewCatalogService,
		fx.As(fx.Self()),
		fx.As(new(domain.PurchasableService)),
		fx.As(new(domain.SaleService)),
	)),
	fx.Provide(fx.Annotate(
		service.NewSaveService,
		fx.As(fx.Self()),
		fx.As(new(domain.SaveService)),
	)),
)
