package controller

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/bkash"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Minimal in-memory storage backing the concrete services under test.

type memoryUserRepo struct {
	users map[string]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*entity.User)}
}

func (r *memoryUserRepo) FindOneByClerkID(_ context.Context, clerkID string) (*entity.User, error) {
	if u, ok := r.users[clerkID]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) InsertOne(_ context.Context, user entity.User) (*entity.User, error) {
	if _, ok := r.users[user.ClerkID]; ok {
		return nil, repository.ErrDuplicateKey
	}
	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	r.users[user.ClerkID] = &user
	return &user, nil
}

func (r *memoryUserRepo) UpdateOne(_ context.Context, user entity.User) (*entity.User, error) {
	existing, ok := r.users[user.ClerkID]
	if !ok {
		return r.InsertOne(context.Background(), user)
	}
	if user.Email != "" {
		existing.Email = user.Email
	}
	return existing, nil
}

func (r *memoryUserRepo) UpdateRole(_ context.Context, clerkID string, role entity.Role) (*entity.User, error) {
	existing, ok := r.users[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Role = role
	return existing, nil
}

type memoryEventReader struct {
	events map[bson.ObjectID]*entity.Event
}

func newMemoryEventReader() *memoryEventReader {
	return &memoryEventReader{events: make(map[bson.ObjectID]*entity.Event)}
}

func (r *memoryEventReader) put(event entity.Event) *entity.Event {
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}
	r.events[event.ID] = &event
	return &event
}

func (r *memoryEventReader) FindOneByID(_ context.Context, ID bson.ObjectID) (*entity.Event, error) {
	if e, ok := r.events[ID]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memoryEventReader) all(categoryID bson.ObjectID) []*entity.Event {
	var out []*entity.Event
	for _, e := range r.events {
		if !categoryID.IsZero() && e.CategoryID != categoryID {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (r *memoryEventReader) FindManyByTitleQuery(_ context.Context, query string, categoryID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	var out []*entity.Event
	for _, e := range r.all(categoryID) {
		if query == "" || strings.Contains(strings.ToLower(e.Title), strings.ToLower(query)) {
			out = append(out, e)
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryEventReader) CountByTitleQuery(_ context.Context, query string, categoryID bson.ObjectID) (int64, error) {
	events, _ := r.FindManyByTitleQuery(context.Background(), query, categoryID, 0, int64(len(r.events)))
	return int64(len(events)), nil
}

func (r *memoryEventReader) FindManyRelated(_ context.Context, categoryID, excludeEventID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	var out []*entity.Event
	for _, e := range r.all(categoryID) {
		if e.ID != excludeEventID {
			out = append(out, e)
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryEventReader) UpdateOne(_ context.Context, event entity.Event) (*entity.Event, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.put(event), nil
}

func (r *memoryEventReader) DeleteOneByID(_ context.Context, ID bson.ObjectID) error {
	delete(r.events, ID)
	return nil
}

type memoryCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[string]*entity.Category)}
}

func (r *memoryCategoryRepo) FindAll(context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryCategoryRepo) FindOneByName(_ context.Context, name string) (*entity.Category, error) {
	if c, ok := r.categories[name]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memoryCategoryRepo) FindOneOrCreateByName(ctx context.Context, name string) (*entity.Category, error) {
	if c, err := r.FindOneByName(ctx, name); err == nil {
		return c, nil
	}
	c := &entity.Category{ID: bson.NewObjectID(), Name: name}
	r.categories[name] = c
	return c, nil
}

type memoryRegistrationRepo struct {
	registrations []*entity.Registration
}

func (r *memoryRegistrationRepo) InsertOne(_ context.Context, registration entity.Registration) (*entity.Registration, error) {
	registration.ID = bson.NewObjectID()
	registration.CreatedAt = time.Now().UTC()
	r.registrations = append(r.registrations, &registration)
	return &registration, nil
}

func (r *memoryRegistrationRepo) FindManyByUserID(_ context.Context, userID bson.ObjectID) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, reg := range r.registrations {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *memoryRegistrationRepo) FindManyByEventID(_ context.Context, eventID bson.ObjectID) ([]*entity.Registration, error) {
	var out []*entity.Registration
	for _, reg := range r.registrations {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *memoryRegistrationRepo) FindManyPaginated(_ context.Context, skip, limit int64) ([]*entity.Registration, error) {
	if skip >= int64(len(r.registrations)) {
		return nil, nil
	}
	out := r.registrations[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRegistrationRepo) CountAll(context.Context) (int64, error) {
	return int64(len(r.registrations)), nil
}

type stubGateway struct {
	createErr     error
	createStatus  string
	executeErr    error
	executeStatus string
}

func (g *stubGateway) CreatePayment(context.Context, bkash.PaymentRequest) (*bkash.PaymentResponse, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &bkash.PaymentResponse{
		StatusCode: g.createStatus,
		PaymentID:  "TR0011abc",
		BkashURL:   "https://sandbox.pay.example/TR0011abc",
	}, nil
}

func (g *stubGateway) ExecutePayment(_ context.Context, paymentID string) (*bkash.ExecuteResponse, error) {
	if g.executeErr != nil {
		return nil, g.executeErr
	}
	return &bkash.ExecuteResponse{StatusCode: g.executeStatus, PaymentID: paymentID}, nil
}
