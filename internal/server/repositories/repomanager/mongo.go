package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/symptoms/internal/server/repositories/registrations"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager serves the MongoDB backend. Sessions are driver
// sessions; the unique email index replaces the SQL transaction.
type MongoRepositoryManager struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client: client,
		coll:   client.Database(database).Collection(registrations.Table),
	}
}

func (m *MongoRepositoryManager) WithinSession(ctx context.Context, fn SessionFunc) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return connectionError(err)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return connectionError(err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		return fn(sc, registrations.NewMongoRepository(m.coll))
	})
}

// RunMigrations creates the unique email index.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if _, err := m.coll.Indexes().CreateOne(ctx, registrations.EmailIndex()); err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return connectionError(err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close() error {
	return m.client.Disconnect(context.Background())
}
