package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/malusev998/currency-calc"
)

// FormatRelativeDate renders date relative to now in whole elapsed days.
func FormatRelativeDate(date, now time.Time) string {
	diff := now.Sub(date)

	if diff < 0 {
		diff = -diff
	}

	days := int(diff / (24 * time.Hour))
	local := date.In(now.Location())

	switch {
	case days == 0:
		return "Today at " + local.Format("15:04")
	case days == 1:
		return "Yesterday at " + local.Format("15:04")
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return local.Format("Jan 2, 2006")
	}
}

func history(state *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the conversion history",
	}

	historyCmd.AddCommand(historyList(state), historyClear(state), historySummary(state))

	return historyCmd
}

func historyList(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past conversions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			entries := config.History.LoadAll(cmd.Context())

			if len(entries) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No conversion history")
				return err
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			for _, entry := range entries {
				fmt.Fprintf(w, "%s %s\t%s %s\t%s\n", entry.Amount, entry.From, entry.Result, entry.To, entryDate(entry, now))
			}

			return w.Flush()
		},
	}
}

func entryDate(entry currency.HistoryEntry, now time.Time) string {
	date, err := entry.Time()

	if err != nil {
		return entry.Date
	}

	return FormatRelativeDate(date, now)
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')

	if err != nil && answer == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}

	return false, nil
}

func historyClear(state *app) *cobra.Command {
	var yes bool

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			if !yes {
				ok, err := confirm(cmd, "Are you sure you want to delete all conversion history?")

				if err != nil {
					return err
				}

				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return err
				}
			}

			config.History.Clear(cmd.Context())

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")

			return err
		},
	}

	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return clearCmd
}

func historySummary(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show conversion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := state.get()

			if err != nil {
				return err
			}

			summary := config.History.Summarize(config.History.LoadAll(cmd.Context()))

			_, err = fmt.Fprintf(
				cmd.OutOrStdout(),
				"Total conversions: %d\nCurrencies used: %d\n",
				summary.Total,
				summary.DistinctSourceCurrencies,
			)

			return err
		},
	}
}
