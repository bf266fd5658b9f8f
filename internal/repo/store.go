package repo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client           *mongo.Client
	DB               *mongo.Database
	colUsers         *mongo.Collection
	colConversations *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, wrapStore("connect", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, wrapStore("ping", err)
	}
	db := cli.Database(dbname)
	return &Store{
		Client:           cli,
		DB:               db,
		colUsers:         db.Collection("users"),
		colConversations: db.Collection("conversations"),
	}, nil
}

var (
	connectOnce sync.Once
	shared      *Store
	sharedErr   error
)

// Connect is the process-wide entry point: the first caller dials, everyone
// after (including concurrent first callers) gets the same handle. The mongo
// client does its own pooling, so one handle per process is all we want.
func Connect(ctx context.Context, uri, dbname string) (*Store, error) {
	connectOnce.Do(func() {
		shared, sharedErr = NewStore(ctx, uri, dbname)
	})
	return shared, sharedErr
}

func (s *Store) Users() *mongo.Collection         { return s.colUsers }
func (s *Store) Conversations() *mongo.Collection { return s.colConversations }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Client.Ping(ctx, nil); err != nil {
		return wrapStore("ping", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes must run before the first registration: the unique index on
// google_sub is what makes concurrent first logins for the same subject
// converge on a single user document.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "google_sub", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_google_sub"),
	})
	if err != nil {
		return wrapStore("ensure_indexes", err)
	}

	_, err = s.colConversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("by_owner"),
	})
	return wrapStore("ensure_indexes", err)
}
