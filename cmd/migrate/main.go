package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smallbiznis/currencyprices/internal/config"
	"github.com/smallbiznis/currencyprices/internal/migration"
	"github.com/smallbiznis/currencyprices/internal/observability"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const usage = "usage: migrate up|down"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var (
		conn *gorm.DB
		log  *zap.Logger
	)
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		fx.Populate(&conn, &log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = app.Stop(context.Background()) }()

	if err := run(ctx, direction, conn, log); err != nil {
		log.Error("migration failed", zap.String("direction", direction), zap.Error(err))
		_ = app.Stop(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, direction string, conn *gorm.DB, log *zap.Logger) error {
	installer := migration.NewInstaller(conn, log)

	if direction == "down" {
		return installer.Down(ctx)
	}

	if err := migration.EnsureHostSchema(ctx, conn); err != nil {
		return err
	}
	installed, err := installer.Up(ctx)
	if err != nil {
		return err
	}
	log.Info("migration finished", zap.Bool("installed", installed))
	return nil
}
