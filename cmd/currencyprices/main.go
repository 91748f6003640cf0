package main

import (
	"github.com/smallbiznis/currencyprices/internal/clock"
	"github.com/smallbiznis/currencyprices/internal/config"
	"github.com/smallbiznis/currencyprices/internal/migration"
	"github.com/smallbiznis/currencyprices/internal/observability"
	"github.com/smallbiznis/currencyprices/internal/server"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		// Installer runs on start, before the HTTP listener.
		migration.Module,
		server.Module,
	)
	app.Run()
}
