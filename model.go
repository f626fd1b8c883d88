package currency

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryDateFormat is ISO-8601 in UTC with millisecond precision.
const HistoryDateFormat = "2006-01-02T15:04:05.000Z"

type (
	ConversionRequest struct {
		ID     uuid.UUID
		Amount string
		From   string
		To     string
	}

	// ConversionResult carries either Result or Error, never both.
	ConversionResult struct {
		Result string `json:"result,omitempty"`
		Error  string `json:"error,omitempty"`
	}

	HistoryEntry struct {
		Amount string `json:"amount"`
		From   string `json:"from"`
		To     string `json:"to"`
		Result string `json:"result"`
		Date   string `json:"date"`
	}

	Summary struct {
		Total                    int `json:"total"`
		DistinctSourceCurrencies int `json:"distinctSourceCurrencies"`
	}

	Rate struct {
		From string          `json:"from"`
		To   string          `json:"to"`
		Rate decimal.Decimal `json:"rate"`
	}
)

func NewConversionRequest(amount, from, to string) ConversionRequest {
	return ConversionRequest{
		ID:     uuid.New(),
		Amount: amount,
		From:   from,
		To:     to,
	}
}

func Succeeded(value string) ConversionResult {
	return ConversionResult{Result: value}
}

func Failed(err error) ConversionResult {
	return ConversionResult{Error: err.Error()}
}

func (r ConversionResult) Succeeded() bool {
	return r.Result != "" && r.Error == ""
}

func NewHistoryEntry(req ConversionRequest, result string, now time.Time) HistoryEntry {
	return HistoryEntry{
		Amount: req.Amount,
		From:   req.From,
		To:     req.To,
		Result: result,
		Date:   now.UTC().Format(HistoryDateFormat),
	}
}

// Time parses Date. Any RFC 3339 timestamp is accepted.
func (e HistoryEntry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Date)
}

// Summarize counts entries and the distinct source currencies among them.
func Summarize(entries []HistoryEntry) Summary {
	sources := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		sources[e.From] = struct{}{}
	}

	return Summary{
		Total:                    len(entries),
		DistinctSourceCurrencies: len(sources),
	}
}
