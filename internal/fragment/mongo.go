package fragment

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore persists fragments in a single MongoDB collection with the
// shape {document_id, text, source, page, order}.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects and pings so a dead database fails startup instead
// of the first request.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}

	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Store(ctx context.Context, fragments []Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	docs := make([]any, len(fragments))
	for i, f := range fragments {
		docs[i] = f
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%w: insert %d fragments: %v", ErrUnavailable, len(fragments), err)
	}
	return nil
}

func (s *MongoStore) FetchTop(ctx context.Context, documentID string, k int) ([]Fragment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "order", Value: 1}}).
		SetLimit(int64(k))

	cur, err := s.col.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", ErrUnavailable, documentID, err)
	}

	var fragments []Fragment
	if err := cur.All(ctx, &fragments); err != nil {
		return nil, fmt.Errorf("%w: decode fragments for %s: %v", ErrUnavailable, documentID, err)
	}
	return fragments, nil
}

func (s *MongoStore) Delete(ctx context.Context, documentID string) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"document_id": documentID}); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, documentID, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
