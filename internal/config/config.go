// Package config loads the segmenter configuration from a JSON file via
// viper, with defaults for every optional knob.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SegmentationConfig selects the strategy and its parameters.
type SegmentationConfig struct {
	Type           string  `json:"type" mapstructure:"type"`
	Value          float64 `json:"value" mapstructure:"value"`
	SecondaryValue float64 `json:"secondaryValue" mapstructure:"secondaryValue"`
	AddJunctions   bool    `json:"addJunctions" mapstructure:"addJunctions"`
}

// StorageConfig selects the optional segment-metadata sink.
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"`
	Path string `json:"path" mapstructure:"path"`
}

// OtelConfig holds the OpenTelemetry knobs.
type OtelConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `json:"insecure" mapstructure:"insecure"`
}

// Config is the full recognised option surface.
type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string `json:"logsDir" mapstructure:"logsDir"`

	// MapToDynamicFiles maps one static map file to its dynamic files.
	MapToDynamicFiles map[string][]string `json:"mapToDynamicFiles" mapstructure:"mapToDynamicFiles"`

	UseEveryVehicleAsEgo      bool `json:"useEveryVehicleAsEgo" mapstructure:"useEveryVehicleAsEgo"`
	MinSegmentTickCount       int  `json:"minSegmentTickCount" mapstructure:"minSegmentTickCount"`
	MaxSegmentTickCount       int  `json:"maxSegmentTickCount" mapstructure:"maxSegmentTickCount"`
	OrderFilesBySeed          bool `json:"orderFilesBySeed" mapstructure:"orderFilesBySeed"`
	SimulationRunPrefetchSize int  `json:"simulationRunPrefetchSize" mapstructure:"simulationRunPrefetchSize"`

	// RngSeed drives the rotating sliding-window size sampling.
	RngSeed int64 `json:"rngSeed" mapstructure:"rngSeed"`

	Segmentation SegmentationConfig `json:"segmentation" mapstructure:"segmentation"`
	Storage      StorageConfig      `json:"storage" mapstructure:"storage"`
	Otel         OtelConfig         `json:"otel" mapstructure:"otel"`
}

// Load reads configuration from the JSON config file in configDir and
// applies defaults for everything the file omits.
func Load(configDir string) (Config, error) {
	viper.Reset()

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("useEveryVehicleAsEgo", false)
	viper.SetDefault("minSegmentTickCount", 10)
	viper.SetDefault("orderFilesBySeed", false)
	viper.SetDefault("simulationRunPrefetchSize", 500)
	viper.SetDefault("rngSeed", 1)

	viper.SetDefault("segmentation.type", "BY_BLOCK")
	viper.SetDefault("segmentation.value", 0)
	viper.SetDefault("segmentation.secondaryValue", 0)
	viper.SetDefault("segmentation.addJunctions", false)

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.path", "./segments.db")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("stars_segmenter.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
