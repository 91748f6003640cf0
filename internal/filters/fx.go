package filters

import "go.uber.org/fx"

var Module = fx.Module("filters",
	fx.Provide(New),
)
