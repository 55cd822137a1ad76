package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/server/repositories/registrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func pingFailure() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    13,
		Name:    "Unauthorized",
		Message: "command ping requires authentication",
	})
}

func TestMongoRepositoryManager(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ping failure is a connection error and fn is skipped", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(pingFailure())

		called := false
		err := m.WithinSession(context.Background(), func(ctx context.Context, repo registrations.Repository) error {
			called = true
			return nil
		})

		require.Error(mt, err)
		assert.False(mt, called, "fn must not run when storage is unreachable")

		var ce *common.ConnectionError
		require.True(mt, errors.As(err, &ce), "got %T: %v", err, err)
		assert.Equal(mt, "13", ce.Code)
		assert.True(mt, errors.Is(err, common.ErrConnection))
	})

	mt.Run("session hands a mongo repository to fn", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		var (
			gotRepo registrations.Repository
			gotSess mongo.Session
		)
		err := m.WithinSession(context.Background(), func(ctx context.Context, repo registrations.Repository) error {
			gotRepo = repo
			gotSess = mongo.SessionFromContext(ctx)
			return nil
		})

		require.NoError(mt, err)
		assert.IsType(mt, &registrations.MongoRepository{}, gotRepo)
		assert.NotNil(mt, gotSess, "fn must run inside the acquired session")
	})

	mt.Run("fn error is returned as is", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := m.WithinSession(context.Background(), func(ctx context.Context, repo registrations.Repository) error {
			return common.ErrConflict
		})

		require.ErrorIs(mt, err, common.ErrConflict)
		assert.False(mt, errors.Is(err, common.ErrConnection))
	})

	mt.Run("panic in fn propagates", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.Panics(mt, func() {
			_ = m.WithinSession(context.Background(), func(ctx context.Context, repo registrations.Repository) error {
				panic("boom")
			})
		})
	})

	mt.Run("run migrations creates the unique email index", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		mt.ClearEvents()
		require.NoError(mt, m.RunMigrations(context.Background()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)
		assert.Equal(mt, registrations.Table, evt.Command.Lookup("createIndexes").StringValue())

		indexes, ok := evt.Command.Lookup("indexes").ArrayOK()
		require.True(mt, ok)
		first := indexes.Index(0).Value().Document()
		assert.Equal(mt, "register_email_uq", first.Lookup("name").StringValue())
		assert.True(mt, first.Lookup("unique").Boolean())
	})

	mt.Run("run migrations failure is wrapped", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 86, Name: "IndexKeySpecsConflict", Message: "index conflict",
		}))

		err := m.RunMigrations(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "create email index")
	})

	mt.Run("ping", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, mt.DB.Name())

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, m.Ping(context.Background()))

		mt.AddMockResponses(pingFailure())
		err := m.Ping(context.Background())
		require.ErrorIs(mt, err, common.ErrConnection)
	})
}
