package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-calc"
)

func currencies(state *app) *cobra.Command {
	var (
		search  string
		popular bool
	)

	currenciesCmd := &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			codes := config.Conversion.ListSupportedCurrencies()

			if popular {
				codes = currency.PopularCurrencies
			}

			codes = currency.SearchCurrencies(codes, search)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			for _, code := range codes {
				fmt.Fprintf(w, "%s\t%s\n", code, currency.CurrencyName(code))
			}

			return w.Flush()
		},
	}

	currenciesCmd.Flags().StringVarP(&search, "search", "s", "", "Filter by code or name")
	currenciesCmd.Flags().BoolVarP(&popular, "popular", "p", false, "Only popular currencies")

	return currenciesCmd
}
