// Package config implements the layered, hot-reloadable configuration
// runtime: a base document merged with imports and a runtime overlay,
// with field-level diffing on reload and glob-pattern subscriptions.
package config

// Config is the typed view of the merged configuration document. New
// fields should also be reflected in Default() so diffing against a
// removed field has somewhere to fall back to.
type Config struct {
	General GeneralConfig `toml:"general"`
	Modules ModulesConfig `toml:"modules"`
}

// GeneralConfig holds settings that apply to the daemon as a whole.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
}

// ModulesConfig groups the optional per-module settings. A module left
// out of the user's config.toml is nil here and its defaults apply.
type ModulesConfig struct {
	Battery *BatteryConfig `toml:"battery"`
	Clock   *ClockConfig   `toml:"clock"`
}

// BatteryConfig controls the battery status module.
type BatteryConfig struct {
	Enabled        bool  `toml:"enabled"`
	ShowPercentage bool  `toml:"show_percentage"`
	BatteryWarning uint8 `toml:"battery_warning"`
}

// ClockConfig controls the clock module.
type ClockConfig struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
}

// Default returns the configuration used when no user file is present,
// and as the fallback value diff uses for fields a newer config removed.
func Default() Config {
	return Config{
		General: GeneralConfig{LogLevel: "info"},
		Modules: ModulesConfig{
			Battery: &BatteryConfig{
				Enabled:        true,
				ShowPercentage: true,
				BatteryWarning: 20,
			},
			Clock: &ClockConfig{
				Enabled: true,
				Format:  "%H:%M",
			},
		},
	}
}
