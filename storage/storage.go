package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/malusev998/currency-calc"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	MemoryConfig struct {
		BaseConfig
		SizeMB int
	}
	FileConfig struct {
		BaseConfig
		Path string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
)

const (
	Memory  Provider = "memory"
	File    Provider = "file"
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
)

var (
	ErrStorageNotFound = errors.New("storage is not found")
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "memory":
		return Memory, nil
	case "file":
		return File, nil
	case "mysql":
		return MySQL, nil
	case "mongodb":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func (p *Provider) UnmarshalText(text []byte) error {
	provider, err := ConvertToProviderFromString(string(text))

	if err != nil {
		return err
	}

	*p = provider

	return nil
}

func NewStorage(provider Provider, config interface{}) (currency.Storage, error) {
	switch provider {
	case Memory:
		return NewMemoryStorage(config.(MemoryConfig)), nil
	case File:
		return NewFileStorage(config.(FileConfig))
	case MySQL:
		return NewMySQLStorage(config.(MySQLConfig))
	case MongoDB:
		return NewMongoStorage(config.(MongoDBConfig))
	}

	return nil, ErrStorageNotFound
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}
