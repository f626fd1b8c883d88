package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/metrics"
	"github.com/malusev998/currency-calc/services"
)

type (
	Handlers struct {
		Conversion currency.Conversion
		History    currency.History
		Logger     zerolog.Logger
		Metrics    metrics.Provider
		startTime  time.Time
	}

	currencyResponse struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	conversionResponse struct {
		Amount string `json:"amount"`
		From   string `json:"from"`
		To     string `json:"to"`
		currency.ConversionResult
	}

	healthResponse struct {
		Status        string  `json:"status"`
		UptimeSeconds float64 `json:"uptime_seconds"`
	}
)

func NewHandlers(conversion currency.Conversion, history currency.History, logger zerolog.Logger, m metrics.Provider) *Handlers {
	if m == nil {
		m = metrics.Noop()
	}

	return &Handlers{
		Conversion: conversion,
		History:    history,
		Logger:     logger.With().Str("component", "api").Logger(),
		Metrics:    m,
		startTime:  time.Now(),
	}
}

// Routes mounts the instrumented API; /health and /metrics are served
// outside of it.
func (h *Handlers) Routes() http.Handler {
	router := NewRouter(h.Metrics)
	router.Get("/currencies", http.HandlerFunc(h.Currencies))
	router.Get("/convert", http.HandlerFunc(h.Convert))
	router.Get("/history", http.HandlerFunc(h.ListHistory))
	router.Delete("/history", http.HandlerFunc(h.ClearHistory))
	router.Get("/history/summary", http.HandlerFunc(h.Summary))

	mux := http.NewServeMux()
	mux.Handle("/health", methodHandler(map[string]http.Handler{http.MethodGet: http.HandlerFunc(h.Health)}))
	mux.Handle("/metrics", h.Metrics.Handler())
	mux.Handle("/", router.Mux())

	return mux
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)

	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to encode response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *Handlers) Currencies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	codes := h.Conversion.ListSupportedCurrencies()

	if popular, _ := strconv.ParseBool(query.Get("popular")); popular {
		codes = currency.PopularCurrencies
	}

	codes = currency.SearchCurrencies(codes, query.Get("search"))
	response := make([]currencyResponse, 0, len(codes))

	for _, code := range codes {
		response = append(response, currencyResponse{Code: code, Name: currency.CurrencyName(code)})
	}

	h.writeJSON(w, http.StatusOK, response)
}

// Convert runs one conversion per request; every request is its own caller,
// so there is no stale state to guard across requests.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	amount := query.Get("amount")
	from := strings.ToUpper(query.Get("from"))
	to := strings.ToUpper(query.Get("to"))

	converter := services.NewConverter(h.Conversion, h.History, h.Logger)
	result, err := converter.Convert(r.Context(), amount, from, to)

	response := conversionResponse{
		Amount:           amount,
		From:             from,
		To:               to,
		ConversionResult: result,
	}

	switch {
	case errors.Is(err, currency.ErrInvalidAmount), errors.Is(err, currency.ErrInvalidCurrencyCode):
		response.ConversionResult = currency.Failed(err)
		h.writeJSON(w, http.StatusBadRequest, response)
	case err != nil:
		response.ConversionResult = currency.Failed(err)
		h.writeJSON(w, http.StatusInternalServerError, response)
	case !result.Succeeded():
		h.writeJSON(w, http.StatusBadGateway, response)
	default:
		h.writeJSON(w, http.StatusOK, response)
	}
}

func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.History.LoadAll(r.Context()))
}

func (h *Handlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.History.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.History.Summarize(h.History.LoadAll(r.Context())))
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}
