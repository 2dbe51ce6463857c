package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
)

// UserRepository is the storage surface the identity resolver needs.
type UserRepository interface {
	FindOneByClerkID(ctx context.Context, clerkID string) (*entity.User, error)
	InsertOne(ctx context.Context, user entity.User) (*entity.User, error)
	UpdateOne(ctx context.Context, user entity.User) (*entity.User, error)
	UpdateRole(ctx context.Context, clerkID string, role entity.Role) (*entity.User, error)
}

// Profile is what the identity provider hands us for a verified session.
type Profile struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

type UserService struct {
	userRepository   UserRepository
	adminEmailDomain string
}

func NewUserService(userRepository UserRepository, adminEmailDomain string) *UserService {
	return &UserService{
		userRepository:   userRepository,
		adminEmailDomain: adminEmailDomain,
	}
}

func (s *UserService) FindOneByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	return s.userRepository.FindOneByClerkID(ctx, clerkID)
}

// Ensure creates the local record for a first-seen identity. A duplicate-key
// error means another request won the race, so the existing record is updated
// instead: callers always see Ensure succeed for a valid profile. Role is
// never touched here.
func (s *UserService) Ensure(ctx context.Context, profile Profile) (*entity.User, error) {
	if profile.ClerkID == "" {
		return nil, fmt.Errorf("clerk id is required: %w", ErrInvalidInput)
	}

	user, err := s.userRepository.FindOneByClerkID(ctx, profile.ClerkID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err = s.userRepository.InsertOne(ctx, entity.User{
		ClerkID:   profile.ClerkID,
		Email:     profile.Email,
		Username:  profile.Username,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Photo:     profile.Photo,
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return s.userRepository.UpdateOne(ctx, entity.User{
			ClerkID:   profile.ClerkID,
			Email:     profile.Email,
			Username:  profile.Username,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Photo:     profile.Photo,
		})
	}

	return user, err
}

// AssignRole binds the identity to a role. Selecting admin requires the
// stored email to carry the organizational domain suffix; the check runs only
// here, at selection time, and the role is sticky afterwards.
func (s *UserService) AssignRole(ctx context.Context, clerkID string, role entity.Role) (*entity.User, error) {
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}

	user, err := s.userRepository.FindOneByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if role == entity.RoleAdmin && !strings.HasSuffix(user.Email, s.adminEmailDomain) {
		return nil, fmt.Errorf("email %q is outside the organization: %w", user.Email, ErrUnauthorized)
	}

	return s.userRepository.UpdateRole(ctx, clerkID, role)
}
