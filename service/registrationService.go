package service

import (
	"context"
	"fmt"

	"github.com/lokhacodes/UComp/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

type RegistrationRepository interface {
	InsertOne(ctx context.Context, registration entity.Registration) (*entity.Registration, error)
	FindManyByUserID(ctx context.Context, userID bson.ObjectID) ([]*entity.Registration, error)
	FindManyByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.Registration, error)
	FindManyPaginated(ctx context.Context, skip, limit int64) ([]*entity.Registration, error)
	CountAll(ctx context.Context) (int64, error)
}

// EventReader is the read-only slice of event storage the registration
// service depends on.
type EventReader interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error)
}

type RegistrationService struct {
	registrationRepository RegistrationRepository
	eventReader            EventReader
}

func NewRegistrationService(registrationRepository RegistrationRepository, eventReader EventReader) *RegistrationService {
	return &RegistrationService{
		registrationRepository: registrationRepository,
		eventReader:            eventReader,
	}
}

type CreateRegistrationInput struct {
	SubeventName   string
	TeamName       string
	TeamMembers    []entity.TeamMember
	AdditionalInfo entity.AdditionalInfo
}

type RegistrationPage struct {
	Items      []*entity.Registration `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// Create registers a user for an event. The event must be live: the snapshot
// is copied from it unconditionally at this instant and never updated again.
// Team fields are required for team sub-events and ignored otherwise. There
// is no duplicate-registration check.
func (s *RegistrationService) Create(ctx context.Context, userID, eventID bson.ObjectID, input CreateRegistrationInput) (*entity.Registration, error) {
	event, err := s.eventReader.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registration := entity.Registration{
		UserID:         userID,
		EventID:        event.ID,
		AdditionalInfo: input.AdditionalInfo,
	}

	if input.SubeventName != "" {
		sub := event.Subevent(input.SubeventName)
		if sub == nil {
			return nil, fmt.Errorf("event %q has no sub-event %q: %w", event.Title, input.SubeventName, ErrInvalidInput)
		}
		registration.SubeventName = sub.Name

		if sub.CompetitionType == entity.CompetitionTeam {
			if input.TeamName == "" {
				return nil, fmt.Errorf("team name is required for %q: %w", sub.Name, ErrInvalidInput)
			}
			if len(input.TeamMembers) == 0 {
				return nil, fmt.Errorf("at least one team member is required for %q: %w", sub.Name, ErrInvalidInput)
			}
			if sub.TeamSize > 0 && len(input.TeamMembers) > sub.TeamSize {
				return nil, fmt.Errorf("%q allows at most %d team members: %w", sub.Name, sub.TeamSize, ErrInvalidInput)
			}
			registration.TeamName = input.TeamName
			registration.TeamMembers = input.TeamMembers
		}
	}

	registration.EventSnapshot = event.Snapshot()

	return s.registrationRepository.InsertOne(ctx, registration)
}

// FindManyByUserID returns the caller's own registrations, newest first.
// Callers must pass the resolved identity, never a client-supplied user id.
func (s *RegistrationService) FindManyByUserID(ctx context.Context, userID bson.ObjectID) ([]*entity.Registration, error) {
	registrations, err := s.registrationRepository.FindManyByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if registrations == nil {
		registrations = []*entity.Registration{}
	}

	return registrations, nil
}

func (s *RegistrationService) FindManyByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.Registration, error) {
	registrations, err := s.registrationRepository.FindManyByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if registrations == nil {
		registrations = []*entity.Registration{}
	}

	return registrations, nil
}

// FindAllPaginated pages through every registration, newest first. Pages past
// the end yield an empty item list, not an error.
func (s *RegistrationService) FindAllPaginated(ctx context.Context, page, pageSize int) (*RegistrationPage, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("page and page size must be positive: %w", ErrInvalidInput)
	}

	var (
		total int64
		items []*entity.Registration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.registrationRepository.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		skip := int64(page-1) * int64(pageSize)
		items, err = s.registrationRepository.FindManyPaginated(gctx, skip, int64(pageSize))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*entity.Registration{}
	}

	return &RegistrationPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}
