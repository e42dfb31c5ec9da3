// Package mongodb implements a record sink that inserts employees as
// documents into a MongoDB collection.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// deleteChunk bounds the $in list used when rolling back.
const deleteChunk = 1000

// Store inserts batches with InsertMany. MongoDB offers no transaction on
// a standalone server, so Rollback deletes the documents this store
// inserted.
type Store struct {
	client   *mongo.Client
	coll     *mongo.Collection
	inserted []interface{}
	logger   *zap.Logger
}

// Open connects and selects the collection, dropping it first if asked.
func Open(ctx context.Context, mc config.MongoDBConfig, log *zap.Logger) (*Store, error) {
	clientOpts := options.Client().ApplyURI(mc.URI)
	if mc.Timeout > 0 {
		clientOpts.SetConnectTimeout(mc.Timeout).SetServerSelectionTimeout(mc.Timeout)
	}
	if err := clientOpts.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid MongoDB connection string")
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping MongoDB")
	}

	coll := client.Database(mc.Database).Collection(mc.Collection)
	if mc.Drop {
		if err := coll.Drop(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to drop collection").
				WithDetail("collection", mc.Collection)
		}
	}

	log.Info("connected to MongoDB",
		zap.String("database", mc.Database),
		zap.String("collection", mc.Collection))
	return &Store{client: client, coll: coll, logger: log}, nil
}

// Insert writes batch as documents, in order
func (s *Store) Insert(ctx context.Context, batch []models.Employee) error {
	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}

	res, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if res != nil {
		s.inserted = append(s.inserted, res.InsertedIDs...)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "InsertMany failed").
			WithDetail("collection", s.coll.Name())
	}
	return nil
}

// Commit disconnects the client
func (s *Store) Commit(ctx context.Context) error {
	s.inserted = nil
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to disconnect from MongoDB")
	}
	return nil
}

// Rollback deletes every document inserted so far, then disconnects
func (s *Store) Rollback(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	defer func() { _ = s.client.Disconnect(ctx) }()

	var deleted int64
	for start := 0; start < len(s.inserted); start += deleteChunk {
		end := min(start+deleteChunk, len(s.inserted))
		res, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": s.inserted[start:end]}})
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to remove inserted documents").
				WithDetail("removed", deleted)
		}
		deleted += res.DeletedCount
	}
	s.logger.Warn("inserted documents removed", zap.Int64("removed", deleted))
	s.inserted = nil
	return nil
}

// New creates the mongodb sink from cfg.Sinks.MongoDB.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	mc := cfg.Sinks.MongoDB
	if mc.URI == "" || mc.Database == "" || mc.Collection == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mongodb sink requires uri, database and collection")
	}

	store, err := Open(ctx, mc, logger.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return sink.NewBatchWriter(store, cfg.Output.BatchSize), nil
}
