package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".stagegate"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for stagegate settings.
const envPrefix = "STAGEGATE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("root", DefaultRoot)
	viperCfg.SetDefault("erd", DefaultERDPath)
	viperCfg.SetDefault("openapi", DefaultOpenAPIPath)
	viperCfg.SetDefault("stages", []int{1, 2, 3, 4, 5})
	viperCfg.SetDefault("format", DefaultFormat)
	viperCfg.SetDefault("color", DefaultColor)
	viperCfg.SetDefault("verbose", false)

	viperCfg.SetDefault("engine.excluded_dirs", []string{})
	viperCfg.SetDefault("engine.loader_concurrency", DefaultLoaderConcurrency)
	viperCfg.SetDefault("engine.vendor_filter", false)

	viperCfg.SetDefault("baseline.dir", DefaultBaselineDir)
	viperCfg.SetDefault("baseline.codec", DefaultBaselineCodec)
	viperCfg.SetDefault("baseline.update", false)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.log_json", false)
	viperCfg.SetDefault("observability.log_level", "info")
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
}
