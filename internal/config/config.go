// Package config loads the bootstrap settings from defaults, an optional
// yaml file and VKBOOTSTRAP_* environment variables, in increasing priority.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/bootstrap"
	"github.com/ibd1279/vks-examples/tutorial-bootstrap/internal/logging"
)

const EnvPrefix = "VKBOOTSTRAP"

// Config is the full set of settings.
type Config struct {
	Window struct {
		Width  int    `mapstructure:"width"`
		Height int    `mapstructure:"height"`
		Title  string `mapstructure:"title"`
	} `mapstructure:"window"`

	Application struct {
		Name          string `mapstructure:"name"`
		Version       string `mapstructure:"version"`
		EngineName    string `mapstructure:"engine_name"`
		EngineVersion string `mapstructure:"engine_version"`
		APIVersion    string `mapstructure:"api_version"`
	} `mapstructure:"application"`

	Validation struct {
		Enabled bool     `mapstructure:"enabled"`
		Layers  []string `mapstructure:"layers"`
	} `mapstructure:"validation"`

	Diagnostics struct {
		ListLayers bool `mapstructure:"list_layers"`
		Color      bool `mapstructure:"color"`
	} `mapstructure:"diagnostics"`

	Graphics struct {
		Portability bool `mapstructure:"portability"`
	} `mapstructure:"graphics"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	identity := bootstrap.DefaultIdentity()

	v.SetDefault("window.width", bootstrap.DefaultWidth)
	v.SetDefault("window.height", bootstrap.DefaultHeight)
	v.SetDefault("window.title", bootstrap.DefaultTitle)
	v.SetDefault("application.name", identity.ApplicationName)
	v.SetDefault("application.version", identity.ApplicationVersion.String())
	v.SetDefault("application.engine_name", identity.EngineName)
	v.SetDefault("application.engine_version", identity.EngineVersion.String())
	v.SetDefault("application.api_version", identity.APIVersion.String())
	v.SetDefault("validation.enabled", false)
	v.SetDefault("validation.layers", bootstrap.DefaultValidationLayers)
	v.SetDefault("diagnostics.list_layers", false)
	v.SetDefault("diagnostics.color", true)
	v.SetDefault("graphics.portability", false)
	v.SetDefault("log.level", logging.DefaultLevel)
}

// Load reads file, or vkbootstrap.yaml from . or ./config when file is empty.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("vkbootstrap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the bootstrap cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Validation.Enabled && len(c.Validation.Layers) == 0 {
		return errors.New("validation enabled but no validation layers configured")
	}
	for i, layer := range c.Validation.Layers {
		if strings.TrimSpace(layer) == "" {
			return errors.Newf("validation layer %d is empty", i)
		}
	}
	if _, err := c.Identity(); err != nil {
		return err
	}
	return nil
}

// Identity converts the application section. Versions must fit the packed
// API version fields.
func (c *Config) Identity() (bootstrap.Identity, error) {
	appVersion, err := parseVersion("application.version", c.Application.Version)
	if err != nil {
		return bootstrap.Identity{}, err
	}
	engineVersion, err := parseVersion("application.engine_version", c.Application.EngineVersion)
	if err != nil {
		return bootstrap.Identity{}, err
	}
	apiVersion, err := parseVersion("application.api_version", c.Application.APIVersion)
	if err != nil {
		return bootstrap.Identity{}, err
	}
	return bootstrap.Identity{
		ApplicationName:    c.Application.Name,
		ApplicationVersion: appVersion,
		EngineName:         c.Application.EngineName,
		EngineVersion:      engineVersion,
		APIVersion:         apiVersion,
	}, nil
}

func parseVersion(key, s string) (bootstrap.Version, error) {
	v, err := bootstrap.ParseVersion(s)
	if err == nil {
		err = v.Validate()
	}
	if err != nil {
		return bootstrap.Version{}, errors.Wrap(err, key)
	}
	return v, nil
}

// Options maps the config onto bootstrap options. Streams and the logger are
// left for the caller.
func (c *Config) Options() (bootstrap.Options, error) {
	identity, err := c.Identity()
	if err != nil {
		return bootstrap.Options{}, err
	}
	return bootstrap.Options{
		Width:            c.Window.Width,
		Height:           c.Window.Height,
		Title:            c.Window.Title,
		Identity:         identity,
		EnableValidation: c.Validation.Enabled,
		ValidationLayers: c.Validation.Layers,
		ListLayers:       c.Diagnostics.ListLayers,
		Portability:      c.Graphics.Portability,
		Colorize:         c.Diagnostics.Color,
	}, nil
}
