package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the MongoDB-backed Store. Each logical collection maps
// directly to a MongoDB collection in the configured database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) InsertOne(ctx context.Context, collection string, record any) error {
	if _, err := m.db.Collection(collection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (m *Mongo) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := m.db.Collection(collection).Find(ctx, bson.M(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode results from %s: %w", collection, err)
	}
	return docs, nil
}

func (m *Mongo) CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error) {
	count, err := m.db.Collection(collection).CountDocuments(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", collection, err)
	}
	return count, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
