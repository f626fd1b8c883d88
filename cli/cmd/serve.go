package cmd

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-calc/api"
)

func serve(state *app) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			handlers := api.NewHandlers(config.Conversion, config.History, config.Logger, config.Metrics)
			server := api.NewServer(addr, handlers.Routes())

			listener, err := net.Listen("tcp", addr)

			if err != nil {
				return err
			}

			return api.Serve(cmd.Context(), server, listener, config.Logger)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")

	return serveCmd
}
