package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/symptoms/internal/common"
	"github.com/dmitrijs2005/symptoms/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores registrations as documents in a collection with a
// unique index on email (see EmailIndex).
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

type mongoRecord struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	models.RegisteredUser `bson:",inline"`
}

// EmailIndex is the unique index every registrations collection must carry.
func EmailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("register_email_uq"),
	}
}

func (r *MongoRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"email": 1, "_id": 0})

	err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.RegisteredUser) (*models.RegisteredUser, error) {
	res, err := r.coll.InsertOne(ctx, mongoRecord{RegisteredUser: *user})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id.Hex()
	}

	return user, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.RegisteredUser, error) {
	var rec mongoRecord
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u := rec.RegisteredUser
	u.ID = rec.ID.Hex()
	return &u, nil
}
