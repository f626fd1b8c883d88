package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/malusev998/currency-calc"
)

const fileProviderName = "file"

// fileStorage keeps every key in one JSON object on disk.
// Writes go through a temporary file that replaces the original on rename.
type fileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(config FileConfig) (currency.Storage, error) {
	st := &fileStorage{path: config.Path}

	if config.Migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (f *fileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)

	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, err
	}

	values := map[string]string{}

	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}

func (f *fileStorage) write(values map[string]string) error {
	data, err := json.Marshal(values)

	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)

	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *fileStorage) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()

	if err != nil {
		return "", false, err
	}

	value, ok := values[key]

	return value, ok, nil
}

func (f *fileStorage) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()

	if err != nil {
		return err
	}

	values[key] = value

	return f.write(values)
}

func (f *fileStorage) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()

	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return nil
	}

	delete(values, key)

	return f.write(values)
}

func (f *fileStorage) Migrate() error {
	return os.MkdirAll(filepath.Dir(f.path), 0o755)
}

func (f *fileStorage) Drop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (f *fileStorage) Close() error {
	return nil
}

func (f *fileStorage) GetStorageProviderName() string {
	return fileProviderName
}
