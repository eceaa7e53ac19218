package helpers

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ENUMCOMPLETE"

type Config struct {
	// Target overrides the script target read from tsconfig.json.
	Target   string `mapstructure:"target"`
	UsageLog bool   `mapstructure:"usage_log"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("target", "")
	v.SetDefault("usage_log", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// NewViper returns a viper instance reading config.{json,toml,yaml} from
// the data directory and ENUMCOMPLETE_* environment variables. Flags
// present in flags and named like a config key are bound to it.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(GetDataDirPath())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if flags != nil {
		for _, key := range []string{"target", "usage_log", "log_level", "log_file"} {
			flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", flag.Name)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	return v, nil
}

func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v, err := NewViper(flags)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}
