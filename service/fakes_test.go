package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stand-ins for the mongo repositories. They mimic the storage
// semantics the services rely on: the unique clerkId index, $set with
// omitempty (zero fields don't overwrite), and $lookup population that leaves
// Event nil once the source document is gone.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) FindOneByClerkID(_ context.Context, clerkID string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[clerkID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) InsertOne(_ context.Context, user entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ClerkID]; ok {
		return nil, repository.ErrDuplicateKey
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ClerkID] = &user
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateOne(_ context.Context, user entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ClerkID]
	if !ok {
		if user.ID.IsZero() {
			user.ID = bson.NewObjectID()
		}
		r.users[user.ClerkID] = &user
		copied := user
		return &copied, nil
	}
	if user.Email != "" {
		existing.Email = user.Email
	}
	if user.Username != "" {
		existing.Username = user.Username
	}
	if user.FirstName != "" {
		existing.FirstName = user.FirstName
	}
	if user.LastName != "" {
		existing.LastName = user.LastName
	}
	if user.Photo != "" {
		existing.Photo = user.Photo
	}
	if user.Role != "" {
		existing.Role = user.Role
	}
	copied := *existing
	return &copied, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, clerkID string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	existing.Role = role
	copied := *existing
	return &copied, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[bson.ObjectID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[bson.ObjectID]*entity.Event)}
}

func (r *fakeEventRepo) put(event entity.Event) *entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}
	r.events[event.ID] = &event
	return &event
}

func (r *fakeEventRepo) FindOneByID(_ context.Context, ID bson.ObjectID) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[ID]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEventRepo) FindManyByTitleQuery(_ context.Context, query string, categoryID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	matched := r.match(query, categoryID)
	if skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeEventRepo) CountByTitleQuery(_ context.Context, query string, categoryID bson.ObjectID) (int64, error) {
	return int64(len(r.match(query, categoryID))), nil
}

func (r *fakeEventRepo) match(query string, categoryID bson.ObjectID) []*entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Event
	for _, e := range r.events {
		if query != "" && !containsFold(e.Title, query) {
			continue
		}
		if !categoryID.IsZero() && e.CategoryID != categoryID {
			continue
		}
		copied := *e
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartDateTime.After(matched[j].StartDateTime)
	})
	return matched
}

func (r *fakeEventRepo) FindManyRelated(_ context.Context, categoryID, excludeEventID bson.ObjectID, skip, limit int64) ([]*entity.Event, error) {
	matched := r.match("", categoryID)
	var related []*entity.Event
	for _, e := range matched {
		if e.ID != excludeEventID {
			related = append(related, e)
		}
	}
	if skip >= int64(len(related)) {
		return nil, nil
	}
	related = related[skip:]
	if limit < int64(len(related)) {
		related = related[:limit]
	}
	return related, nil
}

func (r *fakeEventRepo) UpdateOne(_ context.Context, event entity.Event) (*entity.Event, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return r.put(event), nil
}

func (r *fakeEventRepo) DeleteOneByID(_ context.Context, ID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, ID)
	return nil
}

type fakeRegistrationRepo struct {
	mu            sync.Mutex
	registrations []entity.Registration
	events        *fakeEventRepo
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{events: events}
}

func (r *fakeRegistrationRepo) InsertOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error) {
	r.mu.Lock()
	if registration.ID.IsZero() {
		registration.ID = bson.NewObjectID()
	}
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = time.Now().UTC()
	}
	registration.User = nil
	registration.Event = nil
	r.registrations = append(r.registrations, registration)
	id := registration.ID
	r.mu.Unlock()

	found := r.findAll(ctx, func(reg *entity.Registration) bool { return reg.ID == id })
	return found[0], nil
}

func (r *fakeRegistrationRepo) FindManyByUserID(ctx context.Context, userID bson.ObjectID) ([]*entity.Registration, error) {
	return r.findAll(ctx, func(reg *entity.Registration) bool { return reg.UserID == userID }), nil
}

func (r *fakeRegistrationRepo) FindManyByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.Registration, error) {
	return r.findAll(ctx, func(reg *entity.Registration) bool { return reg.EventID == eventID }), nil
}

func (r *fakeRegistrationRepo) FindManyPaginated(ctx context.Context, skip, limit int64) ([]*entity.Registration, error) {
	all := r.findAll(ctx, func(*entity.Registration) bool { return true })
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeRegistrationRepo) CountAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.registrations)), nil
}

// findAll emulates the aggregation pipeline: newest first, event populated
// only while the source document still exists.
func (r *fakeRegistrationRepo) findAll(ctx context.Context, keep func(*entity.Registration) bool) []*entity.Registration {
	r.mu.Lock()
	copies := make([]*entity.Registration, 0, len(r.registrations))
	for i := range r.registrations {
		copied := r.registrations[i]
		copies = append(copies, &copied)
	}
	r.mu.Unlock()

	sort.SliceStable(copies, func(i, j int) bool {
		return copies[i].CreatedAt.After(copies[j].CreatedAt)
	})

	var out []*entity.Registration
	for _, reg := range copies {
		if !keep(reg) {
			continue
		}
		if event, err := r.events.FindOneByID(ctx, reg.EventID); err == nil {
			reg.Event = event
		}
		out = append(out, reg)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
