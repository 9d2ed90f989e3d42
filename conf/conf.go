// Package conf loads the application configuration from file and
// environment. Keys use the `conf` struct tag; environment variables are
// prefixed with FACTURIO and use underscores, e.g. FACTURIO_SERVER_PORT.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/server"
	"github.com/facturio/facturio/internal/server/biz"
	"github.com/facturio/facturio/internal/server/dependencies"
)

type Config struct {
	APIServer server.Config               `conf:"server" yaml:"server" json:"server"`
	Log       log.Config                  `conf:"log" yaml:"log" json:"log"`
	DB        dependencies.StoreConfig    `conf:"db" yaml:"db" json:"db"`
	Auth      biz.AuthConfig              `conf:"auth" yaml:"auth" json:"auth"`
	Executor  dependencies.ExecutorConfig `conf:"executor" yaml:"executor" json:"executor"`
}

// Load reads the configuration from facturio.yml and the environment.
// A missing config file is not an error; defaults and environment apply.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("facturio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./conf")
	v.AddConfigPath("/etc/facturio")

	v.SetEnvPrefix("FACTURIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config

	err := v.Unmarshal(&config,
		func(dc *mapstructure.DecoderConfig) {
			dc.TagName = "conf"
		},
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)),
	)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.name", "facturio")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.debug", false)

	v.SetDefault("log.name", "facturio")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.outputs", []string{"stdout"})

	v.SetDefault("db.dialect", "memory")

	v.SetDefault("auth.token_ttl", "168h")
}

var Module = fx.Module("conf",
	fx.Provide(Load),
	fx.Provide(func(config Config) server.Config { return config.APIServer }),
	fx.Provide(func(config Config) log.Config { return config.Log }),
	fx.Provide(func(config Config) dependencies.StoreConfig { return config.DB }),
	fx.Provide(func(config Config) biz.AuthConfig { return config.Auth }),
	fx.Provide(func(config Config) dependencies.ExecutorConfig { return config.Executor }),
)
