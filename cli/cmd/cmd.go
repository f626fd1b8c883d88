package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/metrics"
	"github.com/malusev998/currency-calc/services"
)

const Version = "v2.0.0"

var (
	ErrNotLoaded = errors.New("application config is not loaded")
)

type (
	// Config is the application context shared by every command.
	Config struct {
		Ctx        context.Context
		Conversion currency.Conversion
		Converter  *services.Converter
		History    currency.History
		Rates      services.RateService
		Logger     zerolog.Logger
		Metrics    metrics.Provider

		closers []io.Closer
	}

	// Loader builds the application context once flags are parsed.
	Loader func(ctx context.Context, configFile string, debug bool) (*Config, error)

	app struct {
		config *Config
	}
)

func (c *Config) AddCloser(closer io.Closer) {
	c.closers = append(c.closers, closer)
}

// Close releases resources in reverse order of registration.
func (c *Config) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	c.closers = nil

	return errors.Join(errs...)
}

func (a *app) get() (*Config, error) {
	if a.config == nil {
		return nil, ErrNotLoaded
	}

	return a.config, nil
}

func (a *app) close() error {
	if a.config == nil {
		return nil
	}

	return a.config.Close()
}

func NewRootCommand(ctx context.Context, load Loader) *cobra.Command {
	rootCmd, _ := newRootCommand(ctx, load)

	return rootCmd
}

func newRootCommand(ctx context.Context, load Loader) (*cobra.Command, *app) {
	var (
		debug      bool
		configFile string
	)

	state := &app{}

	rootCmd := &cobra.Command{
		Use:           "currency-calc",
		Short:         "Currency converter with a persistent conversion history",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := load(ctx, configFile, debug)

			if err != nil {
				return err
			}

			state.config = config

			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")

	rootCmd.AddCommand(
		convert(state),
		currencies(state),
		rates(state),
		history(state),
		serve(state),
	)

	return rootCmd, state
}

// run executes rootCmd and closes the loaded application context whether or
// not the command failed.
func run(ctx context.Context, rootCmd *cobra.Command, state *app) error {
	err := rootCmd.ExecuteContext(ctx)

	return errors.Join(err, state.close())
}

func Execute(ctx context.Context, load Loader) error {
	rootCmd, state := newRootCommand(ctx, load)

	return run(ctx, rootCmd, state)
}
