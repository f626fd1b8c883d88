package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func rates(state *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rates BASE TARGET...",
		Short:   "Show current rates from a base currency",
		Example: "currency-calc rates USD EUR GBP JPY",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			base := strings.ToUpper(args[0])
			targets := make([]string, 0, len(args)-1)

			for _, arg := range args[1:] {
				targets = append(targets, strings.ToUpper(arg))
			}

			board, err := config.Rates.Rates(cmd.Context(), base, targets)

			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			for _, rate := range board {
				fmt.Fprintf(w, "%s/%s\t%s\n", rate.From, rate.To, rate.Rate.StringFixed(6))
			}

			return w.Flush()
		},
	}
}
