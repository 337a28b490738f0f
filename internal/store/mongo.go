package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grn-daily/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoStore(dsn, databaseName string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &MongoStore{client: client, database: client.Database(databaseName)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Insert(ctx context.Context, collection string, a *model.Article) (string, error) {
	if a.ID == "" {
		a.ID = bson.NewObjectID().Hex()
	}
	if _, err := s.database.Collection(collection).InsertOne(ctx, a); err != nil {
		return "", mapMongoErr(err)
	}
	return a.ID, nil
}

func (s *MongoStore) Put(ctx context.Context, collection, id string, a *model.Article) error {
	a.ID = id
	_, err := s.database.Collection(collection).ReplaceOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		a,
		options.Replace().SetUpsert(true),
	)
	return mapMongoErr(err)
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*model.Article, error) {
	var a model.Article
	err := s.database.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&a)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &a, nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]model.Article, error) {
	// No sort stage: natural order is the store's insertion order.
	cursor, err := s.database.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	var results []model.Article
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapMongoErr(err)
	}
	return results, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]model.Article, error) {
	direction := 1
	if q.Descending {
		direction = -1
	}

	// The hint forces the query through the composite index so that a
	// deployment missing it fails loudly with ErrIndexRequired instead
	// of silently collection-scanning.
	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: direction}}).
		SetHint(bson.D{{Key: q.Field, Value: 1}, {Key: q.SortBy, Value: direction}})

	cursor, err := s.database.Collection(collection).Find(ctx, bson.D{{Key: q.Field, Value: q.Equals}}, opts)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	var results []model.Article
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapMongoErr(err)
	}
	return results, nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.database.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddSubscriber(ctx context.Context, sub *model.Subscriber) error {
	if sub.ID == "" {
		sub.ID = bson.NewObjectID().Hex()
	}
	_, err := s.database.Collection(CollectionSubscribers).InsertOne(ctx, sub)
	return mapMongoErr(err)
}

func (s *MongoStore) Subscribers(ctx context.Context) ([]model.Subscriber, error) {
	cursor, err := s.database.Collection(CollectionSubscribers).Find(ctx, bson.D{})
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	var results []model.Subscriber
	if err := cursor.All(ctx, &results); err != nil {
		return nil, mapMongoErr(err)
	}
	return results, nil
}

// mapMongoErr folds driver errors into the adapter's error kinds.
func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// The server rejects hints that name a missing index with
		// BadValue (2); newer versions report NoQueryExecutionPlans (291).
		if cmdErr.Code == 2 && strings.Contains(cmdErr.Message, "hint") || cmdErr.Code == 291 {
			return fmt.Errorf("%w: %s", ErrIndexRequired, cmdErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
