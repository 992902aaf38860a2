// Package config loads herdcheck settings from an optional YAML file,
// HERDCHECK_* environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"herdcheck/internal/blob"
	"herdcheck/internal/feed"
)

// EnvPrefix is prepended to every environment override, e.g. HERDCHECK_FEED_PATH.
const EnvPrefix = "HERDCHECK"

// FileName is the config file base name searched for in "." and
// $HOME/.config/herdcheck.
const FileName = "herdcheck"

// Config holds all configuration options.
type Config struct {
	Feed feed.Config `mapstructure:"feed"`
	Blob blob.Config `mapstructure:"blob"`
	HTTP HTTPConfig  `mapstructure:"http"`
	Log  LogConfig   `mapstructure:"log"`
	// Seed fixes the udder trial sequence when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Feed: feed.Config{Driver: feed.DriverFile, Path: feed.DefaultPath},
		Blob: blob.Config{Driver: string(blob.DriverFilesystem)},
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers every key on v so environment overrides apply
// even without a config file.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("feed.driver", d.Feed.Driver)
	v.SetDefault("feed.path", d.Feed.Path)
	v.SetDefault("feed.key", d.Feed.Key)
	v.SetDefault("feed.dsn", d.Feed.DSN)
	v.SetDefault("feed.table", d.Feed.Table)
	v.SetDefault("blob.driver", d.Blob.Driver)
	v.SetDefault("blob.root", d.Blob.Root)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("seed", d.Seed)
}

// Load reads file (or searches for herdcheck.yaml when empty) into v and
// decodes the result. A missing searched-for file is not an error; a
// missing explicit file is.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
