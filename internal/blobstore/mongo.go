package blobstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyago/pkg/logger"
)

// blobRecord is the Mongo shape of one blob: the key is the document
// _id, the value an opaque JSON payload.
type blobRecord struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

// MongoBackend stores each named collection as a Mongo collection of
// {_id, value} records. It never inspects the payload.
type MongoBackend struct {
	db           *mongo.Database
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoBackend(db *mongo.Database, readTimeout, writeTimeout time.Duration) *MongoBackend {
	return &MongoBackend{
		db:           db,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, log *logger.Logger, uri string, connTimeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	return client, nil
}

func (b *MongoBackend) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (b *MongoBackend) Get(ctx context.Context, collection, key string) ([]byte, error) {
	ctx, cancel := b.withTimeout(ctx, b.readTimeout)
	defer cancel()

	var record blobRecord
	err := b.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s/%s: %w", collection, key, err)
	}
	return record.Value, nil
}

func (b *MongoBackend) Set(ctx context.Context, collection, key string, value []byte) error {
	ctx, cancel := b.withTimeout(ctx, b.writeTimeout)
	defer cancel()

	record := blobRecord{Key: key, Value: value}
	opts := options.Replace().SetUpsert(true)
	_, err := b.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": key}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to set blob %s/%s: %w", collection, key, err)
	}
	return nil
}

func (b *MongoBackend) Delete(ctx context.Context, collection, key string) error {
	ctx, cancel := b.withTimeout(ctx, b.writeTimeout)
	defer cancel()

	result, err := b.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s/%s: %w", collection, key, err)
	}
	if result.DeletedCount == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (b *MongoBackend) List(ctx context.Context, collection string, opts ListOptions) ([]string, error) {
	ctx, cancel := b.withTimeout(ctx, b.readTimeout)
	defer cancel()

	filter := bson.M{}
	if opts.Prefix != "" {
		filter["_id"] = bson.M{"$regex": "^" + regexp.QuoteMeta(opts.Prefix)}
	}

	findOpts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := b.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var records []blobRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode blob keys in %s: %w", collection, err)
	}

	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.Key)
	}
	return keys, nil
}
