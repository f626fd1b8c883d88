package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func convert(state *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between two currencies",
		Example: "currency-calc convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			amount := args[0]
			from := strings.ToUpper(args[1])
			to := strings.ToUpper(args[2])

			result, err := config.Converter.Convert(cmd.Context(), amount, from, to)

			if err != nil {
				return err
			}

			if !result.Succeeded() {
				return errors.New(result.Error)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n", amount, from, result.Result, to)

			return err
		},
	}
}
