package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveRouteDefaults(t *testing.T) {
	settings := DefaultSettings()

	route, ok := settings.SaveRoute(" Tickets ")
	require.True(t, ok)
	assert.Equal(t, "/actions/events/tickets/save", route)

	_, ok = settings.SaveRoute("orders")
	assert.False(t, ok)
}

func TestNewSettingsHolderWithoutFile(t *testing.T) {
	holder, err := NewSettingsHolder(Config{SettingsPath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), holder.Get())
}

func TestNewSettingsHolderOverridesRoutes(t *testing.T) {
	dir := t.TempDir()
	yml := "currencyprices:\n  save_routes:\n    tickets: /actions/custom-events/tickets/save\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "currencyprices.yml"), []byte(yml), 0o600))

	holder, err := NewSettingsHolder(Config{SettingsPath: dir}, zap.NewNop())
	require.NoError(t, err)

	settings := holder.Get()
	route, ok := settings.SaveRoute(SaveKindTickets)
	require.True(t, ok)
	assert.Equal(t, "/actions/custom-events/tickets/save", route)

	route, ok = settings.SaveRoute(SaveKindProducts)
	require.True(t, ok)
	assert.Equal(t, "/actions/commerce/products/save-product", route)
	assert.Equal(t, "CP", settings.FieldSuffix)
}

func TestNewSettingsHolderRejectsRelativeRoute(t *testing.T) {
	dir := t.TempDir()
	yml := "currencyprices:\n  save_routes:\n    discounts: actions/discounts/save\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "currencyprices.yml"), []byte(yml), 0o600))

	_, err := NewSettingsHolder(Config{SettingsPath: dir}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewSettingsHolderRejectsForwarderRoute(t *testing.T) {
	dir := t.TempDir()
	yml := "currencyprices:\n  save_routes:\n    tickets: /Actions/Currency-Prices/tickets/save\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "currencyprices.yml"), []byte(yml), 0o600))

	_, err := NewSettingsHolder(Config{SettingsPath: dir}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), PluginActionPrefix)
}

func TestIsPluginRoute(t *testing.T) {
	assert.True(t, IsPluginRoute("/actions/currency-prices/tickets/save"))
	assert.True(t, IsPluginRoute("/actions/events/../currency-prices/products/save"))
	assert.True(t, IsPluginRoute(PluginActionPrefix))
	assert.False(t, IsPluginRoute("/actions/currency-prices-legacy/save"))
	assert.False(t, IsPluginRoute("/actions/events/tickets/save"))
}
