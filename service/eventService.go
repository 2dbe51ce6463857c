package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type EventRepository interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error)
	FindManyByTitleQuery(ctx context.Context, query string, categoryID bson.ObjectID, skip, limit int64) ([]*entity.Event, error)
	CountByTitleQuery(ctx context.Context, query string, categoryID bson.ObjectID) (int64, error)
	FindManyRelated(ctx context.Context, categoryID, excludeEventID bson.ObjectID, skip, limit int64) ([]*entity.Event, error)
	UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error)
	DeleteOneByID(ctx context.Context, ID bson.ObjectID) error
}

type CategoryFinder interface {
	FindOneByName(ctx context.Context, name string) (*entity.Category, error)
}

type EventService struct {
	eventRepository EventRepository
	categoryFinder  CategoryFinder
}

func NewEventService(eventRepository EventRepository, categoryFinder CategoryFinder) *EventService {
	return &EventService{
		eventRepository: eventRepository,
		categoryFinder:  categoryFinder,
	}
}

type EventPage struct {
	Items      []*entity.Event `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

func (s *EventService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error) {
	return s.eventRepository.FindOneByID(ctx, ID)
}

func (s *EventService) Create(ctx context.Context, organizerID bson.ObjectID, event entity.Event) (*entity.Event, error) {
	if err := validateEvent(&event); err != nil {
		return nil, err
	}

	event.ID = bson.ObjectID{}
	event.OrganizerID = organizerID

	return s.eventRepository.UpdateOne(ctx, event)
}

// Update replaces the event definition. Only the organizer may edit, and the
// organizer and creation time survive the update. Existing registrations keep
// their snapshots: they are deliberately not re-synchronized.
func (s *EventService) Update(ctx context.Context, userID bson.ObjectID, event entity.Event) (*entity.Event, error) {
	existing, err := s.eventRepository.FindOneByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != userID {
		return nil, fmt.Errorf("only the organizer may edit an event: %w", ErrForbidden)
	}

	if err := validateEvent(&event); err != nil {
		return nil, err
	}

	event.OrganizerID = existing.OrganizerID
	event.CreatedAt = existing.CreatedAt

	return s.eventRepository.UpdateOne(ctx, event)
}

// Delete removes the event document only. Registrations referencing it stay
// behind with their snapshots.
func (s *EventService) Delete(ctx context.Context, userID, eventID bson.ObjectID) error {
	existing, err := s.eventRepository.FindOneByID(ctx, eventID)
	if err != nil {
		return err
	}
	if existing.OrganizerID != userID {
		return fmt.Errorf("only the organizer may delete an event: %w", ErrForbidden)
	}

	return s.eventRepository.DeleteOneByID(ctx, eventID)
}

// GetAll lists events, filtered by a title query and a category name. When a
// query is given, the page is re-ranked by Levenshtein similarity so close
// matches surface first.
func (s *EventService) GetAll(ctx context.Context, query, category string, page, pageSize int) (*EventPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("page and page size must be positive: %w", ErrInvalidInput)
	}

	var categoryID bson.ObjectID
	if category != "" {
		cat, err := s.categoryFinder.FindOneByName(ctx, category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &EventPage{Items: []*entity.Event{}, Page: page, PageSize: pageSize}, nil
			}
			return nil, err
		}
		categoryID = cat.ID
	}

	total, err := s.eventRepository.CountByTitleQuery(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}

	skip := int64(page-1) * int64(pageSize)
	events, err := s.eventRepository.FindManyByTitleQuery(ctx, query, categoryID, skip, int64(pageSize))
	if err != nil {
		return nil, err
	}

	if query != "" {
		rankBySimilarity(events, query)
	}

	if events == nil {
		events = []*entity.Event{}
	}

	return &EventPage{
		Items:      events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *EventService) FindRelated(ctx context.Context, categoryID, excludeEventID bson.ObjectID, page, pageSize int) ([]*entity.Event, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("page and page size must be positive: %w", ErrInvalidInput)
	}

	skip := int64(page-1) * int64(pageSize)
	events, err := s.eventRepository.FindManyRelated(ctx, categoryID, excludeEventID, skip, int64(pageSize))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*entity.Event{}
	}

	return events, nil
}

func rankBySimilarity(events []*entity.Event, query string) {
	scores := make(map[*entity.Event]float32, len(events))
	for _, event := range events {
		similarity, err := edlib.StringsSimilarity(query, event.Title, edlib.Levenshtein)
		if err != nil {
			similarity = 0
		}
		scores[event] = similarity
	}

	sort.SliceStable(events, func(i, j int) bool {
		return scores[events[i]] > scores[events[j]]
	})
}

func validateEvent(e *entity.Event) error {
	if e.Title == "" {
		return fmt.Errorf("title is required: %w", ErrInvalidInput)
	}
	if e.EndDateTime.Before(e.StartDateTime) {
		return fmt.Errorf("event must not end before it starts: %w", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(e.Subevents))
	for _, sub := range e.Subevents {
		if sub.Name == "" {
			return fmt.Errorf("sub-event name is required: %w", ErrInvalidInput)
		}
		if seen[sub.Name] {
			return fmt.Errorf("duplicate sub-event name %q: %w", sub.Name, ErrInvalidInput)
		}
		seen[sub.Name] = true

		switch sub.CompetitionType {
		case entity.CompetitionIndividual:
		case entity.CompetitionTeam:
			if sub.TeamSize < 2 {
				return fmt.Errorf("team sub-event %q needs a team size of at least 2: %w", sub.Name, ErrInvalidInput)
			}
		default:
			return fmt.Errorf("unknown competition type %q: %w", sub.CompetitionType, ErrInvalidInput)
		}
	}

	return nil
}
