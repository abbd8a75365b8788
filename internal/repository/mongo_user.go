package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/4PPL8/wahabstore/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (m *MongoUserRepository) GetUser(ctx context.Context, sessionID string) (*domain.User, error) {
	var user domain.User

	filter := bson.M{"session_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&user)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (m *MongoUserRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	filter := bson.M{"session_id": user.SessionID}
	update := bson.M{"$set": user}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// DeleteUser removes the durable record on logout. Deleting an absent user
// is not an error.
func (m *MongoUserRepository) DeleteUser(ctx context.Context, sessionID string) error {
	filter := bson.M{"session_id": sessionID}

	_, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func userIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

func (m *MongoUserRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, userIndexModels())
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
