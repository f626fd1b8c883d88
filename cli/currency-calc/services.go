package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/cli/cmd"
	"github.com/malusev998/currency-calc/fetchers"
	"github.com/malusev998/currency-calc/metrics"
	"github.com/malusev998/currency-calc/services"
	"github.com/malusev998/currency-calc/storage"
)

func newLogger(config LoggerConfig, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(config.Level)

	if err != nil {
		return zerolog.Nop(), err
	}

	if config.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func createStorage(ctx context.Context, config *Config) (currency.Storage, error) {
	provider := config.Storage.Provider

	base := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: config.Storage.Migrate,
	}

	storageConfigs := map[storage.Provider]interface{}{
		storage.Memory: storage.MemoryConfig{
			BaseConfig: base,
			SizeMB:     config.Storage.Memory.SizeMB,
		},
		storage.File: storage.FileConfig{
			BaseConfig: base,
			Path:       config.Storage.File.Path,
		},
		storage.MySQL: storage.MySQLConfig{
			BaseConfig:       base,
			ConnectionString: config.Storage.MySQL.DSN(),
			TableName:        config.Storage.MySQL.Table,
		},
		storage.MongoDB: storage.MongoDBConfig{
			BaseConfig:       base,
			ConnectionString: config.Storage.MongoDB.URI,
			Database:         config.Storage.MongoDB.Database,
			Collection:       config.Storage.MongoDB.Collection,
		},
	}

	if provider == storage.File && config.Storage.File.Path == "" {
		return nil, fmt.Errorf("storage %s requires a path", provider)
	}

	return storage.NewStorage(provider, storageConfigs[provider])
}

func createRateLookup(config *Config) (currency.RateLookup, error) {
	provider := config.Fetcher.Provider

	// viper lower-cases map keys
	rates := make(map[string]float64, len(config.Fetcher.Static.Rates))
	for pair, rate := range config.Fetcher.Static.Rates {
		rates[strings.ToUpper(pair)] = rate
	}

	fetchersConfig := map[currency.Provider]interface{}{
		currency.FreeConvProvider: fetchers.FreeConvServiceConfig{
			BaseConfig: fetchers.BaseConfig{
				URL:     config.Fetcher.FreeCurrConv.URL,
				Timeout: config.Fetcher.Timeout,
			},
			APIKey:             config.Fetcher.FreeCurrConv.APIKey,
			MaxPerHourRequests: config.Fetcher.FreeCurrConv.MaxPerHour,
		},
		currency.ExchangeRatesAPIProvider: fetchers.ExchangeRatesAPIConfig{
			BaseConfig: fetchers.BaseConfig{
				URL:     config.Fetcher.ExchangeRatesAPI.URL,
				Timeout: config.Fetcher.Timeout,
			},
		},
		currency.StaticProvider: fetchers.StaticConfig{
			Rates: rates,
		},
	}

	return fetchers.NewRateLookup(provider, fetchersConfig[provider])
}

func newApp(ctx context.Context, conf *Config, logger zerolog.Logger) (*cmd.Config, error) {
	m := metrics.New(conf.Metrics.Enabled)

	st, err := createStorage(ctx, conf)

	if err != nil {
		return nil, err
	}

	lookup, err := createRateLookup(conf)

	if err != nil {
		_ = st.Close()
		return nil, err
	}

	history := services.NewHistoryService(st, logger, m)
	history.Key = conf.History.Key
	history.Capacity = conf.History.Capacity

	conversion := services.NewConversionService(lookup, logger, m)
	conversion.Precision = int32(conf.Conversion.Precision)

	app := &cmd.Config{
		Ctx:        ctx,
		Conversion: conversion,
		Converter:  services.NewConverter(conversion, history, logger),
		History:    history,
		Rates: services.RateService{
			Fetcher:        lookup,
			MaxConcurrency: conf.Rates.MaxConcurrency,
		},
		Logger:  logger,
		Metrics: m,
	}

	app.AddCloser(st)

	logger.Debug().
		Str("storage", st.GetStorageProviderName()).
		Str("fetcher", string(conf.Fetcher.Provider)).
		Msg("application configured")

	return app, nil
}

func load(ctx context.Context, configFile string, debug bool) (*cmd.Config, error) {
	conf, err := readConfig(configFile)

	if err != nil {
		return nil, err
	}

	if debug {
		conf.Logger.Level = zerolog.LevelDebugValue
	}

	logger, err := newLogger(conf.Logger, os.Stderr)

	if err != nil {
		return nil, err
	}

	return newApp(ctx, conf, logger)
}
