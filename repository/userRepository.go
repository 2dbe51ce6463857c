package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lokhacodes/UComp/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) collection() *mongo.Collection {
	return r.db.Collection("users")
}

// EnsureIndexes creates the unique index backing the clerkId invariant.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clerkId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) FindOneByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"clerkId": clerkID})
}

func (r *UserRepository) findOne(ctx context.Context, m bson.M) (*entity.User, error) {
	result := r.collection().FindOne(ctx, m)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var user *entity.User
	err := result.Decode(&user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) InsertOne(ctx context.Context, user entity.User) (*entity.User, error) {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}

	return &user, nil
}

// UpdateOne upserts profile fields by clerkId. Zero-valued fields are left
// untouched, so an update without a role never clears a stored role.
func (r *UserRepository) UpdateOne(ctx context.Context, user entity.User) (*entity.User, error) {
	filter := bson.M{"clerkId": user.ClerkID}

	user.ID = bson.ObjectID{}
	update := bson.M{
		"$set": user,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var newUser *entity.User
	err := result.Decode(&newUser)
	if err != nil {
		return nil, err
	}

	return newUser, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, clerkID string, role entity.Role) (*entity.User, error) {
	filter := bson.M{"clerkId": clerkID}

	update := bson.M{
		"$set": bson.M{"role": role},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var newUser *entity.User
	err := result.Decode(&newUser)
	if err != nil {
		return nil, err
	}

	return newUser, nil
}
