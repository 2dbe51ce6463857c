package repository

import (
	"context"
	"time"

	"github.com/lokhacodes/UComp/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type RegistrationRepository struct {
	db *mongo.Database
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

func (r *RegistrationRepository) collection() *mongo.Collection {
	return r.db.Collection("registrations")
}

// InsertOne persists a new registration. Registrations are write-once, so
// this is a plain insert, not an upsert. The stored document carries only
// references plus the snapshot; populated fields are stripped before write.
func (r *RegistrationRepository) InsertOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error) {
	if registration.ID.IsZero() {
		registration.ID = bson.NewObjectID()
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now().UTC()
	}

	registration.User = nil
	registration.Event = nil

	_, err := r.collection().InsertOne(ctx, registration)
	if err != nil {
		return nil, err
	}

	return r.FindOneByID(ctx, registration.ID)
}

func (r *RegistrationRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Registration, error) {
	registrations, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}
	if len(registrations) == 0 {
		return nil, ErrNotFound
	}

	return registrations[0], nil
}

func (r *RegistrationRepository) FindManyByUserID(ctx context.Context, userID bson.ObjectID) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{
			"userId": userID,
		},
		bson.M{
			"$sort": bson.M{
				"createdAt": -1,
			},
		},
	)
}

func (r *RegistrationRepository) FindManyByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{
			"eventId": eventID,
		},
		bson.M{
			"$sort": bson.M{
				"createdAt": -1,
			},
		},
	)
}

func (r *RegistrationRepository) FindManyPaginated(ctx context.Context, skip, limit int64) ([]*entity.Registration, error) {
	return r.find(ctx,
		bson.M{},
		bson.M{
			"$sort": bson.M{
				"createdAt": -1,
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

func (r *RegistrationRepository) CountAll(ctx context.Context) (int64, error) {
	return r.collection().CountDocuments(ctx, bson.M{})
}

// find populates the user and event references. The event $unwind preserves
// empty lookups: a registration whose event was deleted decodes with a nil
// Event, and display falls back to the snapshot.
func (r *RegistrationRepository) find(ctx context.Context, m bson.M, opts ...bson.M) ([]*entity.Registration, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "users",
				"localField":   "userId",
				"foreignField": "_id",
				"as":           "user",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$user",
				"preserveNullAndEmptyArrays": true,
			},
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "events",
				"localField":   "eventId",
				"foreignField": "_id",
				"as":           "event",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$event",
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

	var registrations []*entity.Registration
	err = cur.All(ctx, &registrations)
	if err != nil {
		return nil, err
	}

	return registrations, nil
}
