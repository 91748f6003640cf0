package currencyprice

import (
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/repository"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("currencyprice",
	fx.Provide(repository.Provide),
	fx.Provide(fx.Annotate(
		service.New,
		fx.As(fx.Self()),
		fx.As(new(domain.PurchasableService)),
		fx.As(new(domain.ShippingService)),
		fx.As(new(domain.DiscountService)),
		fx.As(new(domain.AddonService)),
	)),
	fx.Provide(fx.Annotate(
		service.NewCollector,
		fx.As(new(domain.Collector)),
	)),
	fx.Invoke(service.RegisterHooks),
)
