package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/malusev998/currency-calc"
	"github.com/malusev998/currency-calc/metrics"
	"github.com/malusev998/currency-calc/storage"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
	}

	MockHistory struct {
		mock.Mock
	}

	// blockingFetcher answers once release is closed or ctx is done.
	blockingFetcher struct {
		started chan struct{}
		release chan struct{}
		rate    decimal.Decimal
	}
)

func (m *MockFetcher) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(from, to)

	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(key)

	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Set(ctx context.Context, key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *MockStorage) Migrate() error {
	return nil
}

func (m *MockStorage) Drop() error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) GetStorageProviderName() string {
	return "mock"
}

func (m *MockHistory) Append(ctx context.Context, entry currency.HistoryEntry) {
	m.Called(entry)
}

func (m *MockHistory) LoadAll(ctx context.Context) []currency.HistoryEntry {
	return m.Called().Get(0).([]currency.HistoryEntry)
}

func (m *MockHistory) Clear(ctx context.Context) {
	m.Called()
}

func (m *MockHistory) Summarize(entries []currency.HistoryEntry) currency.Summary {
	return currency.Summarize(entries)
}

func newBlockingFetcher(rate string) *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		rate:    decimal.RequireFromString(rate),
	}
}

func (b *blockingFetcher) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	b.started <- struct{}{}

	select {
	case <-b.release:
		return b.rate, nil
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

func newTestHistory(st currency.Storage) *HistoryService {
	h := NewHistoryService(st, zerolog.Nop(), metrics.Noop())
	h.Locks = NewKeyLocks()

	return h
}

func newMemoryStorage() currency.Storage {
	return storage.NewMemoryStorage(storage.MemoryConfig{SizeMB: 16})
}
