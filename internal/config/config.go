package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Oracle   OracleConfig
	CLMM     CLMMConfig `mapstructure:"clmm"`
	PTYT     PTYTConfig `mapstructure:"ptyt"`
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeoutSec  int     `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int     `mapstructure:"write_timeout_sec"`
	LiveRatePerSec  float64 `mapstructure:"live_rate_per_sec"`
	LiveBurst       int     `mapstructure:"live_burst"`
}

// DatabaseConfig defines the database connection settings.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN builds a postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// OracleConfig seeds the static price book, keyed by token id.
type OracleConfig struct {
	Prices map[string]float64
}

// CLMMConfig holds the liquidity calculator's form defaults.
type CLMMConfig struct {
	TokenA       string  `mapstructure:"token_a"`
	TokenB       string  `mapstructure:"token_b"`
	Investment   float64 `mapstructure:"investment"`
	FeeAPR       float64 `mapstructure:"fee_apr"`
	DurationDays float64 `mapstructure:"duration_days"`
	RangePercent float64 `mapstructure:"range_percent"`
}

// PTYTConfig holds the PT/YT calculator's form defaults. APYs are in percent.
type PTYTConfig struct {
	AssetName           string  `mapstructure:"asset_name"`
	AssetPrice          float64 `mapstructure:"asset_price"`
	ImpliedAPY          float64 `mapstructure:"implied_apy"`
	Investment          float64 `mapstructure:"investment"`
	FutureUnderlyingAPY float64 `mapstructure:"future_underlying_apy"`
	FutureImpliedAPY    float64 `mapstructure:"future_implied_apy"`
	SaleOffsetDays      int     `mapstructure:"sale_offset_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_sec", 10)
	v.SetDefault("server.write_timeout_sec", 10)
	v.SetDefault("server.live_rate_per_sec", 20)
	v.SetDefault("server.live_burst", 5)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "defikit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "defikit")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("oracle.prices", map[string]float64{})

	v.SetDefault("clmm.token_a", "ethereum")
	v.SetDefault("clmm.token_b", "usd-coin")
	v.SetDefault("clmm.investment", 1000)
	v.SetDefault("clmm.fee_apr", 20)
	v.SetDefault("clmm.duration_days", 30)
	v.SetDefault("clmm.range_percent", 30)

	v.SetDefault("ptyt.asset_name", "sUSDe")
	v.SetDefault("ptyt.asset_price", 1.0)
	v.SetDefault("ptyt.implied_apy", 15.0)
	v.SetDefault("ptyt.investment", 1000)
	v.SetDefault("ptyt.future_underlying_apy", 12.0)
	v.SetDefault("ptyt.future_implied_apy", 18.0)
	v.SetDefault("ptyt.sale_offset_days", 30)
}

// LoadConfig reads configuration from file or environment variables. A missing
// config file is not an error; defaults and environment still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DEFIKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

// Validate checks the values the engines rely on.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.LiveRatePerSec <= 0 || c.Server.LiveBurst <= 0 {
		return errors.New("server.live_rate_per_sec and server.live_burst must be positive")
	}
	for id, p := range c.Oracle.Prices {
		if p <= 0 {
			return fmt.Errorf("oracle.prices.%s must be positive", id)
		}
	}
	if c.CLMM.RangePercent <= 0 || c.CLMM.RangePercent >= 100 {
		return fmt.Errorf("clmm.range_percent must be in (0, 100): %g", c.CLMM.RangePercent)
	}
	if c.PTYT.SaleOffsetDays < 0 {
		return errors.New("ptyt.sale_offset_days must not be negative")
	}
	return nil
}
