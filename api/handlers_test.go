package api_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/api"
	"github.com/malusev998/currency-calc/fetchers"
	"github.com/malusev998/currency-calc/metrics"
	"github.com/malusev998/currency-calc/services"
	"github.com/malusev998/currency-calc/storage"
)

func newTestHandlers(t *testing.T, m metrics.Provider) (*api.Handlers, currency.History) {
	t.Helper()

	fetcher, err := fetchers.NewStaticFetcher(map[string]float64{"USD_EUR": 0.925, "USD_GBP": 0.79})
	require.NoError(t, err)

	history := services.NewHistoryService(
		storage.NewMemoryStorage(storage.MemoryConfig{SizeMB: 16}),
		zerolog.Nop(),
		m,
	)
	history.Key = t.Name()
	history.Locks = services.NewKeyLocks()

	conversion := services.NewConversionService(fetcher, zerolog.Nop(), m)

	return api.NewHandlers(conversion, history, zerolog.Nop(), m), history
}

func do(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		handlers, history := newTestHandlers(t, metrics.Noop())
		routes := handlers.Routes()

		rec := do(routes, http.MethodGet, "/convert?amount=100&from=usd&to=EUR")
		asserts.Equal(http.StatusOK, rec.Code)
		asserts.Equal("application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		asserts.Equal(map[string]string{
			"amount": "100",
			"from":   "USD",
			"to":     "EUR",
			"result": "92.50",
		}, body)

		entries := history.LoadAll(context.Background())
		asserts.Len(entries, 1)
		asserts.Equal("92.50", entries[0].Result)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		handlers, history := newTestHandlers(t, metrics.Noop())

		rec := do(handlers.Routes(), http.MethodGet, "/convert?amount=abc&from=USD&to=EUR")
		asserts.Equal(http.StatusBadRequest, rec.Code)
		asserts.Contains(rec.Body.String(), "Please enter a valid amount.")
		asserts.Empty(history.LoadAll(context.Background()))
	})

	t.Run("OutOfRangeAmount", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		handlers, history := newTestHandlers(t, metrics.Noop())

		for _, amount := range []string{"1e400", "1e2000000000", "1e-2000000000"} {
			rec := do(handlers.Routes(), http.MethodGet, "/convert?amount="+amount+"&from=USD&to=EUR")
			asserts.Equal(http.StatusBadRequest, rec.Code, amount)
			asserts.Contains(rec.Body.String(), "Please enter a valid amount.", amount)
		}

		asserts.Empty(history.LoadAll(context.Background()))
	})

	t.Run("InvalidCode", func(t *testing.T) {
		t.Parallel()
		handlers, _ := newTestHandlers(t, metrics.Noop())

		rec := do(handlers.Routes(), http.MethodGet, "/convert?amount=1&from=US&to=EUR")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnsupportedPair", func(t *testing.T) {
		t.Parallel()
		asserts := require.New(t)
		handlers, history := newTestHandlers(t, metrics.Noop())

		rec := do(handlers.Routes(), http.MethodGet, "/convert?amount=1&from=USD&to=JPY")
		asserts.Equal(http.StatusBadGateway, rec.Code)
		asserts.Contains(rec.Body.String(), "unable to convert USD to JPY")
		asserts.NotContains(rec.Body.String(), `"result"`)
		asserts.Empty(history.LoadAll(context.Background()))
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		t.Parallel()
		handlers, _ := newTestHandlers(t, metrics.Noop())

		rec := do(handlers.Routes(), http.MethodPost, "/convert?amount=1&from=USD&to=EUR")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
	})
}

func TestHistoryEndpoints(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	handlers, _ := newTestHandlers(t, metrics.Noop())
	routes := handlers.Routes()

	rec := do(routes, http.MethodGet, "/history")
	asserts.Equal(http.StatusOK, rec.Code)
	asserts.JSONEq(`[]`, rec.Body.String())

	do(routes, http.MethodGet, "/convert?amount=1&from=USD&to=EUR")
	do(routes, http.MethodGet, "/convert?amount=2&from=USD&to=GBP")
	do(routes, http.MethodGet, "/convert?amount=3&from=EUR&to=USD")

	rec = do(routes, http.MethodGet, "/history")
	var entries []currency.HistoryEntry
	asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
	asserts.Len(entries, 3)
	asserts.Equal("EUR", entries[0].From)

	rec = do(routes, http.MethodGet, "/history/summary")
	asserts.JSONEq(`{"total":3,"distinctSourceCurrencies":2}`, rec.Body.String())

	rec = do(routes, http.MethodDelete, "/history")
	asserts.Equal(http.StatusNoContent, rec.Code)

	rec = do(routes, http.MethodGet, "/history/summary")
	asserts.JSONEq(`{"total":0,"distinctSourceCurrencies":0}`, rec.Body.String())

	rec = do(routes, http.MethodPut, "/history")
	asserts.Equal(http.StatusMethodNotAllowed, rec.Code)
	asserts.Equal("DELETE, GET", rec.Header().Get("Allow"))
}

func TestCurrencies(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	handlers, _ := newTestHandlers(t, metrics.Noop())
	routes := handlers.Routes()

	var all []map[string]string
	rec := do(routes, http.MethodGet, "/currencies")
	asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &all))
	asserts.Len(all, len(currency.SupportedCurrencies))
	asserts.Equal(map[string]string{"code": "USD", "name": "US Dollar"}, all[0])

	var popular []map[string]string
	rec = do(routes, http.MethodGet, "/currencies?popular=true&search=franc")
	asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &popular))
	asserts.Equal([]map[string]string{{"code": "CHF", "name": "Swiss Franc"}}, popular)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	handlers, _ := newTestHandlers(t, metrics.New(true))
	routes := handlers.Routes()

	rec := do(routes, http.MethodGet, "/health")
	asserts.Equal(http.StatusOK, rec.Code)
	asserts.Contains(rec.Body.String(), `"status":"ok"`)

	do(routes, http.MethodGet, "/convert?amount=1&from=USD&to=EUR")

	rec = do(routes, http.MethodGet, "/metrics")
	asserts.Equal(http.StatusOK, rec.Code)
	asserts.Contains(rec.Body.String(), "currency_calc_conversions_total")
	asserts.Contains(rec.Body.String(), `currency_calc_requests_total{endpoint="/convert",status="2xx"} 1`)

	do(routes, http.MethodGet, "/random-1")
	do(routes, http.MethodGet, "/history/random-2")

	rec = do(routes, http.MethodGet, "/metrics")
	asserts.Contains(rec.Body.String(), `currency_calc_requests_total{endpoint="other",status="4xx"} 2`)
	asserts.NotContains(rec.Body.String(), "random")

	disabled, _ := newTestHandlers(t, metrics.Noop())
	rec = do(disabled.Routes(), http.MethodGet, "/metrics")
	asserts.Equal(http.StatusNotFound, rec.Code)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	handlers, _ := newTestHandlers(t, metrics.Noop())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	asserts.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	server := api.NewServer(listener.Addr().String(), handlers.Routes())

	done := make(chan error, 1)
	go func() {
		done <- api.Serve(ctx, server, listener, zerolog.Nop())
	}()

	res, err := http.Get("http://" + listener.Addr().String() + "/health")
	asserts.NoError(err)
	asserts.Equal(http.StatusOK, res.StatusCode)
	asserts.NoError(res.Body.Close())

	cancel()

	select {
	case err := <-done:
		asserts.NoError(err)
	case <-time.After(api.ShutdownTimeout + time.Second):
		asserts.Fail("server did not stop")
	}
}

func TestRouter(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	router := api.NewRouter(metrics.Noop())

	router.Post("/items", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	mux := router.Mux()

	asserts.Equal(http.StatusCreated, do(mux, http.MethodPost, "/items").Code)
	asserts.Equal(http.StatusMethodNotAllowed, do(mux, http.MethodGet, "/items").Code)
	asserts.Equal(http.StatusNotFound, do(mux, http.MethodGet, "/other").Code)
	asserts.True(strings.HasPrefix(do(mux, http.MethodGet, "/items").Body.String(), "Method Not Allowed"))
}
