package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps one document per user in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	UserID      string    `bson:"_id"`
	Snapshot    bson.D    `bson:"snapshot"`
	LastUpdated time.Time `bson:"last_updated"`
}

// OpenMongo connects to uri and pings the server before returning.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Get loads the snapshot document for key.
func (s *MongoStore) Get(ctx context.Context, key string) (*model.Snapshot, error) {
	var doc struct {
		Snapshot bson.Raw `bson:"snapshot"`
	}
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	data, err := bson.MarshalExtJSON(doc.Snapshot, false, false)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Put upserts the snapshot document for key.
func (s *MongoStore) Put(ctx context.Context, key string, snap model.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	var body bson.D
	if err := bson.UnmarshalExtJSON(data, false, &body); err != nil {
		return fmt.Errorf("converting snapshot: %w", err)
	}

	doc := mongoDoc{UserID: key, Snapshot: body, LastUpdated: snap.LastUpdated.UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
