package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Dir is a filesystem path that may be written with a leading "~/" in the
// config file; it is expanded to the user's home directory on decode.
type Dir string

type RustdocConfig struct {
	Deps      bool `mapstructure:"deps"`
	TargetDir Dir  `mapstructure:"target_dir"`
}

type FetchConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

type Config struct {
	Rustdoc RustdocConfig `mapstructure:"rustdoc"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
}

// cacheBase returns the base cache directory for crategraph.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/crategraph as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "crategraph")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "crategraph")
	}
	return filepath.Join(os.TempDir(), "crategraph")
}

// DBPath returns the path to the DuckDB database file.
func DBPath() string {
	return filepath.Join(cacheBase(), "graphs.db")
}

// JSONCacheDir returns the path to the rustdoc JSON cache directory.
func JSONCacheDir() string {
	return filepath.Join(cacheBase(), "json")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "crategraph"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "crategraph"))
	}

	viper.SetDefault("rustdoc.deps", false)
	viper.SetDefault("fetch.user_agent", "crategraph/0.1.0")

	viper.SetEnvPrefix("CRATEGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func stringToDirHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Dir("")) || f.Kind() != reflect.String {
			return data, nil
		}
		path := data.(string)
		if strings.HasPrefix(path, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}
		return Dir(path), nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToDirHookFunc(),
		Result:     &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
