package repository

import (
	"context"
	"time"

	"github.com/lokhacodes/UComp/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type EventRepository struct {
	db *mongo.Database
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		db: db,
	}
}

func (r *EventRepository) collection() *mongo.Collection {
	return r.db.Collection("events")
}

func (r *EventRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error) {
	events, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}

	return events[0], nil
}

// FindManyByTitleQuery filters by a case-insensitive title substring and an
// optional category, newest start first.
func (r *EventRepository) FindManyByTitleQuery(ctx context.Context, query string, categoryID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	return r.find(ctx, r.searchFilter(query, categoryID),
		bson.M{
			"$sort": bson.M{
				"startDateTime": -1,
			},
		},
		bson.M{
			"$skip": skip,
		},
		bson.M{
			"$limit": limit,
		},
	)
}

func (r *EventRepository) CountByTitleQuery(ctx context.Context, query string, categoryID bson.ObjectID) (int64, error) {
	return r.collection().CountDocuments(ctx, r.searchFilter(query, categoryID))
}

func (r *EventRepository) searchFilter(query string, categoryID bson.ObjectID) bson.M {
	m := bson.M{}
	if query != "" {
		m["title"] = bson.M{"$regex": query, "$options": "i"}
	}
	if !categoryID.IsZero() {
		m["categoryId"] = categoryID
	}
	return m
}

// FindManyRelated lists other events in the same category.
func (r *EventRepository) FindManyRelated(ctx context.Context, categoryID, excludeEventID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	return r.find(ctx,
		bson.M{
			"categoryId": categoryID,
			"_id": bson.M{
				"$ne": excludeEventID,
			},
		},
		bson.M{
			"$sort": bson.M{
				"startDateTime": -1,
			},
		},
		bson.M{
			"$skip": skip,
		},
		bson.M{
			"$limit": limit,
		},
	)
}

func (r *EventRepository) find(ctx context.Context, m bson.M, opts ...bson.M) ([]*entity.Event, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "users",
				"localField":   "organizerId",
				"foreignField": "_id",
				"as":           "organizer",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$organizer",
				"preserveNullAndEmptyArrays": true,
			},
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "categories",
				"localField":   "categoryId",
				"foreignField": "_id",
				"as":           "category",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$category",
				"preserveNullAndEmptyArrays": true,
			},
		},
	}

	for _, o := range opts {
		pipeline = append(pipeline, o)
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var events []*entity.Event
	err = cur.All(ctx, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error) {
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"_id": event.ID}

	event.Organizer = nil
	event.Category = nil
	update := bson.M{
		"$set": event,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var newEvent *entity.Event
	err := result.Decode(&newEvent)
	if err != nil {
		return nil, err
	}

	return r.FindOneByID(ctx, newEvent.ID)
}

// DeleteOneByID removes the event only. Registrations keep their snapshots
// and their dangling event reference on purpose.
func (r *EventRepository) DeleteOneByID(ctx context.Context, ID bson.ObjectID) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"_id": ID})
	return err
}
