package repository

import (
	"context"
	"errors"

	"github.com/lokhacodes/UComp/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CategoryRepository struct {
	db *mongo.Database
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

func (r *CategoryRepository) collection() *mongo.Collection {
	return r.db.Collection("categories")
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})

	cur, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var categories []*entity.Category
	err = cur.All(ctx, &categories)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepository) FindOneByName(ctx context.Context, name string) (*entity.Category, error) {
	result := r.collection().FindOne(ctx, bson.M{"name": name})
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, result.Err()
	}

	var category *entity.Category
	err := result.Decode(&category)
	if err != nil {
		return nil, err
	}

	return category, nil
}

// FindOneOrCreateByName upserts by name, so concurrent creates of the same
// category converge on one document.
func (r *CategoryRepository) FindOneOrCreateByName(ctx context.Context, name string) (*entity.Category, error) {
	filter := bson.M{"name": name}

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":  bson.NewObjectID(),
			"name": name,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var category *entity.Category
	err := result.Decode(&category)
	if err != nil {
		return nil, err
	}

	return category, nil
}
