package currency

import "context"

type (
	Conversion interface {
		Convert(ctx context.Context, from, to, amount string) ConversionResult
		ListSupportedCurrencies() []string
	}

	History interface {
		Append(ctx context.Context, entry HistoryEntry)
		LoadAll(ctx context.Context) []HistoryEntry
		Clear(ctx context.Context)
		Summarize(entries []HistoryEntry) Summary
	}
)
