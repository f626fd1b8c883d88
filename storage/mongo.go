package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/malusev998/currency-calc"
)

const (
	mongoProviderName        = "mongodb"
	mongoNamespaceExistsCode = 48
)

type (
	mongoStorage struct {
		ctx        context.Context
		client     *mongo.Client
		collection *mongo.Collection
	}

	mongoDocument struct {
		Key       string    `bson:"_id"`
		Value     string    `bson:"value"`
		UpdatedAt time.Time `bson:"updatedAt"`
	}
)

func NewMongoStorage(config MongoDBConfig) (currency.Storage, error) {
	ctx := contextOrBackground(config.Ctx)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))

	if err != nil {
		return nil, err
	}

	st := mongoStorage{
		ctx:        ctx,
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}

	if config.Migrate {
		if err := st.Migrate(); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return st, nil
}

func (m mongoStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc mongoDocument

	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return doc.Value, true, nil
}

func (m mongoStorage) Set(ctx context.Context, key, value string) error {
	_, err := m.collection.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		mongoDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)

	return err
}

func (m mongoStorage) Remove(ctx context.Context, key string) error {
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": key})

	return err
}

func (m mongoStorage) Migrate() error {
	err := m.collection.Database().CreateCollection(m.ctx, m.collection.Name())

	var cmdErr mongo.CommandError

	if errors.As(err, &cmdErr) && cmdErr.Code == mongoNamespaceExistsCode {
		return nil
	}

	return err
}

func (m mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}

func (m mongoStorage) GetStorageProviderName() string {
	return mongoProviderName
}
