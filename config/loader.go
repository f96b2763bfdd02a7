package config

import (
	"github.com/spf13/viper"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
)

// newViper returns a YAML viper instance. Settings come from the file only;
// the tool reads no environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	return v
}

// Load reads the YAML file at path, applies defaults and validates. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeInvalidConfig, "read config file").WithDetail(path)
		}
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInvalidConfig, "decode config")
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
