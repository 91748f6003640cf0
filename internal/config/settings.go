package config

import (
	"errors"
	"path"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PluginActionPrefix is the path prefix of the currency price actions.
const PluginActionPrefix = "/actions/currency-prices"

// Owning entity kinds addressable by the save-forwarding actions.
const (
	SaveKindTickets        = "tickets"
	SaveKindProducts       = "products"
	SaveKindShippingRules  = "shipping-rules"
	SaveKindDiscounts      = "discounts"
	SaveKindAddonDiscounts = "addon-discounts"
)

// Settings are the plugin settings that may be hot reloaded from currencyprices.yml.
type Settings struct {
	// FieldSuffix marks the form inputs rendered for currency prices, e.g. priceCP[EUR].
	FieldSuffix string `mapstructure:"field_suffix"`
	// SaveRoutes maps an owning entity kind to the host's native save action path.
	SaveRoutes map[string]string `mapstructure:"save_routes"`
}

func DefaultSettings() Settings {
	return Settings{
		FieldSuffix: "CP",
		SaveRoutes: map[string]string{
			SaveKindTickets:        "/actions/events/tickets/save",
			SaveKindProducts:       "/actions/commerce/products/save-product",
			SaveKindShippingRules:  "/actions/commerce/shipping-rules/save",
			SaveKindDiscounts:      "/actions/commerce/discounts/save",
			SaveKindAddonDiscounts: "/actions/addons/discounts/save",
		},
	}
}

// SaveRoute returns the host save action for kind.
func (s Settings) SaveRoute(kind string) (string, bool) {
	route, ok := s.SaveRoutes[strings.ToLower(strings.TrimSpace(kind))]
	if !ok || strings.TrimSpace(route) == "" {
		return "", false
	}
	return route, true
}

type SettingsHolder struct {
	current atomic.Value // holds Settings
}

// NewStaticSettingsHolder returns a holder that never reloads.
func NewStaticSettingsHolder(settings Settings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func NewSettingsHolder(cfg Config, log *zap.Logger) (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("currencyprices")
	v.SetConfigType("yml")
	if cfg.SettingsPath != "" {
		v.AddConfigPath(cfg.SettingsPath)
	}
	v.AddConfigPath("/etc/currencyprices")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CURRENCYPRICES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("currencyprices.field_suffix", defaults.FieldSuffix)
	v.SetDefault("currencyprices.save_routes", defaults.SaveRoutes)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	settings, err := decodeSettings(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticSettingsHolder(settings)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeSettings(v)
		if err != nil {
			log.Warn("settings reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("settings reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}

func decodeSettings(v *viper.Viper) (Settings, error) {
	var settings Settings
	if err := v.UnmarshalKey("currencyprices", &settings); err != nil {
		return Settings{}, err
	}
	defaults := DefaultSettings()
	if strings.TrimSpace(settings.FieldSuffix) == "" {
		settings.FieldSuffix = defaults.FieldSuffix
	}
	if settings.SaveRoutes == nil {
		settings.SaveRoutes = map[string]string{}
	}
	for kind, route := range defaults.SaveRoutes {
		if _, ok := settings.SaveRoutes[kind]; !ok {
			settings.SaveRoutes[kind] = route
		}
	}
	return settings, validateSettings(settings)
}

func validateSettings(settings Settings) error {
	for kind, route := range settings.SaveRoutes {
		if !strings.HasPrefix(strings.TrimSpace(route), "/") {
			return errors.New("currencyprices.save_routes." + kind + " must be an absolute path")
		}
		if IsPluginRoute(route) {
			return errors.New("currencyprices.save_routes." + kind + " must not point at " + PluginActionPrefix)
		}
	}
	return nil
}

// IsPluginRoute reports whether route is served by the currency price
// actions themselves. Forwarding to such a route would never terminate.
func IsPluginRoute(route string) bool {
	route = strings.ToLower(path.Clean("/" + strings.TrimSpace(route)))
	return route == PluginActionPrefix || strings.HasPrefix(route, PluginActionPrefix+"/")
}
