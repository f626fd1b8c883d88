package storage

import (
	"context"
	"errors"

	"github.com/coocood/freecache"

	"github.com/malusev998/currency-calc"
)

const (
	DefaultMemorySizeMB = 64
	memoryProviderName  = "memory"
)

// memoryStorage keeps values for the lifetime of the process.
// A single value may not exceed 1/1024 of the cache size.
type memoryStorage struct {
	cache *freecache.Cache
}

func NewMemoryStorage(config MemoryConfig) currency.Storage {
	size := config.SizeMB

	if size <= 0 {
		size = DefaultMemorySizeMB
	}

	return &memoryStorage{
		cache: freecache.NewCache(size * 1024 * 1024),
	}
}

func (m *memoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := m.cache.Get([]byte(key))

	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return string(value), true, nil
}

func (m *memoryStorage) Set(ctx context.Context, key, value string) error {
	return m.cache.Set([]byte(key), []byte(value), 0)
}

func (m *memoryStorage) Remove(ctx context.Context, key string) error {
	m.cache.Del([]byte(key))
	return nil
}

func (m *memoryStorage) Migrate() error {
	return nil
}

func (m *memoryStorage) Drop() error {
	m.cache.Clear()
	return nil
}

func (m *memoryStorage) Close() error {
	return nil
}

func (m *memoryStorage) GetStorageProviderName() string {
	return memoryProviderName
}
