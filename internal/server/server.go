package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/currencyprices/internal/commerce"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/config"
	"github.com/smallbiznis/currencyprices/internal/currencyprice"
	currencypricedomain "github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/filters"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"github.com/smallbiznis/currencyprices/internal/observability"
	obsmiddleware "github.com/smallbiznis/currencyprices/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/currencyprices/internal/observability/metrics"
	obstracing "github.com/smallbiznis/currencyprices/internal/observability/tracing"
	"github.com/smallbiznis/currencyprices/internal/render"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	localization.Module,
	commerce.Module,
	currencyprice.Module,
	render.Module,
	filters.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.NoMethod(func(c *gin.Context) {
		AbortWithError(c, ErrMethodNotAllowed)
	})
	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	settings   *config.SettingsHolder
	currencies commercedomain.CurrencyService
	catalog    commercedomain.PurchasableService
	saveSvc    commercedomain.SaveService
	prices     currencypricedomain.PurchasableService
	collector  currencypricedomain.Collector
	renderer   *render.Renderer
	filters    *filters.Extension
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Settings   *config.SettingsHolder
	Currencies commercedomain.CurrencyService
	Catalog    commercedomain.PurchasableService
	SaveSvc    commercedomain.SaveService
	Prices     currencypricedomain.PurchasableService
	Collector  currencypricedomain.Collector
	Renderer   *render.Renderer
	Filters    *filters.Extension
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		settings:   p.Settings,
		currencies: p.Currencies,
		catalog:    p.Catalog,
		saveSvc:    p.SaveSvc,
		prices:     p.Prices,
		collector:  p.Collector,
		renderer:   p.Renderer,
		filters:    p.Filters,
	}
	svc.registerPluginRoutes()
	svc.registerHostRoutes()
	svc.registerStorefrontRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPluginRoutes() {
	actions := s.engine.Group(config.PluginActionPrefix)

	actions.GET("/tickets/get-inputs", s.GetTicketInputs)
	actions.POST("/tickets/get-inputs", s.GetTicketInputs)

	for _, kind := range saveKinds {
		actions.POST("/"+kind+"/save", s.ForwardSave(kind))
	}
}

// registerHostRoutes mounts the native save actions at their default paths.
// Settings may point the forwarders elsewhere.
func (s *Server) registerHostRoutes() {
	for kind, route := range config.DefaultSettings().SaveRoutes {
		s.engine.POST(route, s.HostSave(commercedomain.EntityKind(kind)))
	}
}

func (s *Server) registerStorefrontRoutes() {
	s.engine.GET("/products/:id/prices", s.ProductPrices)
}
