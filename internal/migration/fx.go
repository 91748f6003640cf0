package migration

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Provide(NewInstaller),
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, installer *Installer) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := EnsureHostSchema(ctx, conn); err != nil {
					return err
				}
				_, err := installer.Up(ctx)
				return err
			},
		})
	}),
)
