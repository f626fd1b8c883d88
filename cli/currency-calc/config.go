package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/gookit/validate"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/fetchers"
	"github.com/malusev998/currency-calc/services"
	"github.com/malusev998/currency-calc/storage"
)

const EnvPrefix = "CURRENCY_CALC"

type (
	LoggerConfig struct {
		Level  string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
		Format string `mapstructure:"format" validate:"in:console,json"`
	}

	MetricsConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	FreeCurrConvConfig struct {
		URL        string `mapstructure:"url"`
		APIKey     string `mapstructure:"apiKey"`
		MaxPerHour int    `mapstructure:"maxPerHour" validate:"min:0"`
	}

	ExchangeRatesAPIConfig struct {
		URL string `mapstructure:"url"`
	}

	StaticRatesConfig struct {
		Rates map[string]float64 `mapstructure:"rates"`
	}

	FetcherConfig struct {
		Provider         currency.Provider      `mapstructure:"provider" validate:"required"`
		Timeout          time.Duration          `mapstructure:"timeout" validate:"required|min:1"`
		FreeCurrConv     FreeCurrConvConfig     `mapstructure:"freecurrconv"`
		ExchangeRatesAPI ExchangeRatesAPIConfig `mapstructure:"exchangeratesapi"`
		Static           StaticRatesConfig      `mapstructure:"static"`
	}

	MemoryStorageConfig struct {
		SizeMB int `mapstructure:"sizeMB" validate:"min:1"`
	}

	FileStorageConfig struct {
		Path string `mapstructure:"path"`
	}

	MySQLStorageConfig struct {
		Addr     string `mapstructure:"addr"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		DB       string `mapstructure:"db"`
		Table    string `mapstructure:"table"`
	}

	MongoStorageConfig struct {
		URI        string `mapstructure:"uri"`
		Database   string `mapstructure:"database"`
		Collection string `mapstructure:"collection"`
	}

	StorageConfig struct {
		Provider storage.Provider    `mapstructure:"provider" validate:"required"`
		Migrate  bool                `mapstructure:"migrate"`
		Memory   MemoryStorageConfig `mapstructure:"memory"`
		File     FileStorageConfig   `mapstructure:"file"`
		MySQL    MySQLStorageConfig  `mapstructure:"mysql"`
		MongoDB  MongoStorageConfig  `mapstructure:"mongodb"`
	}

	HistoryConfig struct {
		Key      string `mapstructure:"key" validate:"required"`
		Capacity int    `mapstructure:"capacity" validate:"required|min:1"`
	}

	ConversionConfig struct {
		Precision int `mapstructure:"precision" validate:"max:16"`
	}

	RatesConfig struct {
		MaxConcurrency int `mapstructure:"maxConcurrency" validate:"required|min:1"`
	}

	Config struct {
		Logger     LoggerConfig     `mapstructure:"logger"`
		Metrics    MetricsConfig    `mapstructure:"metrics"`
		Fetcher    FetcherConfig    `mapstructure:"fetcher"`
		Storage    StorageConfig    `mapstructure:"storage"`
		History    HistoryConfig    `mapstructure:"history"`
		Conversion ConversionConfig `mapstructure:"conversion"`
		Rates      RatesConfig      `mapstructure:"rates"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("fetcher.provider", "ExchangeRatesAPI")
	v.SetDefault("fetcher.timeout", fetchers.DefaultTimeout)
	v.SetDefault("fetcher.freecurrconv.url", fetchers.FreeConvFetchURL)
	v.SetDefault("fetcher.freecurrconv.apiKey", "")
	v.SetDefault("fetcher.freecurrconv.maxPerHour", 100)
	v.SetDefault("fetcher.exchangeratesapi.url", fetchers.ExchangeRatesAPIURL)

	v.SetDefault("storage.provider", string(storage.File))
	v.SetDefault("storage.migrate", true)
	v.SetDefault("storage.memory.sizeMB", storage.DefaultMemorySizeMB)
	v.SetDefault("storage.file.path", "./data/history.json")
	v.SetDefault("storage.mysql.addr", "127.0.0.1:3306")
	v.SetDefault("storage.mysql.user", "root")
	v.SetDefault("storage.mysql.password", "")
	v.SetDefault("storage.mysql.db", "currency_calc")
	v.SetDefault("storage.mysql.table", "key_value")
	v.SetDefault("storage.mongodb.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("storage.mongodb.database", "currency_calc")
	v.SetDefault("storage.mongodb.collection", "key_value")

	v.SetDefault("history.key", services.DefaultHistoryKey)
	v.SetDefault("history.capacity", services.DefaultHistoryCapacity)
	v.SetDefault("conversion.precision", services.DefaultPrecision)
	v.SetDefault("rates.maxConcurrency", services.DefaultMaxConcurrency)
}

// readConfig layers defaults, the YAML file and CURRENCY_CALC_* variables.
// A missing config file is not an error.
func readConfig(configFile string) (*Config, error) {
	var conf Config

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error while reading in the config file: %w", err)
	}

	// Provider names decode through their UnmarshalText, so an unknown
	// provider fails here instead of when the app is wired.
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := v.Unmarshal(&conf, hooks); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) Validate() error {
	sections := []interface{}{
		&c.Logger,
		&c.Fetcher,
		&c.Storage,
		&c.History,
		&c.Conversion,
		&c.Rates,
	}

	for _, section := range sections {
		v := validate.Struct(section)

		if !v.Validate() {
			return v.Errors
		}
	}

	return nil
}

func (c MySQLStorageConfig) DSN() string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = c.User
	mysqlDriverConfig.Passwd = c.Password
	mysqlDriverConfig.Addr = c.Addr
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = c.DB
	mysqlDriverConfig.ParseTime = true

	return mysqlDriverConfig.FormatDSN()
}
