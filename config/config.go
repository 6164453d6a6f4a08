package config

import (
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type ResolverConfig struct {
	// OverrideURL disables discovery entirely. Deliberately unvalidated:
	// a malformed override passes through normalization and surfaces at
	// the call site that issues the actual request.
	OverrideURL   string   `mapstructure:"override_url"`
	Candidates    []string `mapstructure:"candidates"`
	FallbackURL   string   `mapstructure:"fallback_url"`
	APIPrefix     string   `mapstructure:"api_prefix"`
	ProductionURL string   `mapstructure:"production_url"`
}

type ProbeConfig struct {
	Path    string `mapstructure:"path"`
	Timeout string `mapstructure:"timeout"`
}

type MonitorConfig struct {
	Interval         string `mapstructure:"interval"`
	FailureThreshold int    `mapstructure:"failure_threshold"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":8090")
	viper.SetDefault("resolver.override_url", "")
	viper.SetDefault("resolver.candidates", []string{
		"http://localhost:8000",
		"http://127.0.0.1:8000",
		"http://localhost:5000",
	})
	viper.SetDefault("resolver.fallback_url", "http://localhost:8000")
	viper.SetDefault("resolver.api_prefix", "/v1")
	viper.SetDefault("resolver.production_url", "https://api.jobradar.io")
	viper.SetDefault("probe.path", "/health")
	viper.SetDefault("probe.timeout", "3s")
	viper.SetDefault("monitor.interval", "30s")
	viper.SetDefault("monitor.failure_threshold", 3)
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Error("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	// Production never discovers: the deployment's fixed address becomes
	// the override unless one was given explicitly.
	if cfg.Server.Environment == EnvProd && cfg.Resolver.OverrideURL == "" {
		cfg.Resolver.OverrideURL = cfg.Resolver.ProductionURL
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Probe,
			validation.Required,
			validation.By(func(value interface{}) error {
				pc, ok := value.(ProbeConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ProbeConfig")
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.Path,
						validation.Required,
						validation.By(validateAbsolutePath),
					),
					validation.Field(&pc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Monitor,
			validation.Required,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MonitorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MonitorConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&mc.FailureThreshold,
						validation.Required,
						validation.Min(1),
					),
				)
			}),
		),
		validation.Field(&c.Resolver,
			validation.Required,
			validation.By(func(value interface{}) error {
				rc, ok := value.(ResolverConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ResolverConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.Candidates,
						validation.Required,
						validation.Length(1, 0),
						validation.Each(validation.By(validateCandidateURL)),
					),
					validation.Field(&rc.FallbackURL,
						validation.Required,
						validation.By(validateCandidateURL),
					),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateAbsolutePath(value interface{}) error {
	path, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if !strings.HasPrefix(path, "/") {
		return validation.NewError("validation_invalid_path", "must start with /")
	}

	return nil
}

func validateCandidateURL(value interface{}) error {
	candidate, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if candidate == "" {
		return validation.NewError("validation_empty_url", "candidate URL cannot be empty")
	}

	parsedURL, err := url.Parse(candidate)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
