package services

import (
	"context"
	"fmt"
	"time"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is the account store behind the directory. FindByEmail
// and FindByID return (nil, nil) when no record matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user models.User) (primitive.ObjectID, error)
	List(ctx context.Context, search string) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) (bool, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.UserStatus) (bool, error)
	SeedAdmin(ctx context.Context, email string) error
}

// UserService manages the account directory
type UserService struct {
	users  UserRepository
	policy *Policy
}

func NewUserService(users UserRepository, policy *Policy) *UserService {
	return &UserService{users: users, policy: policy}
}

// RegisterInput carries the signup fields
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the account on first sight of the email. Registering a
// known email is a no-op that reports the existing record.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	user := models.User{
		Name:             in.Name,
		Email:            in.Email,
		Password:         in.Password,
		Role:             models.RoleUser,
		Status:           models.UserActive,
		SubscriptionTier: models.TierFree,
		CreatedAt:        time.Now(),
	}
	if err := user.HashPassword(); err != nil {
		return nil, false, err
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, false, err
	}
	user.ID = id
	return &user, true, nil
}

// VerifyCredentials checks a login attempt and returns the account
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.ComparePassword(password) {
		return nil, ErrForbidden
	}
	return user, nil
}

// Get returns the account for an email, self-or-admin scoped
func (s *UserService) Get(ctx context.Context, principal, email string) (*models.User, error) {
	if _, err := s.policy.RequireSelfOrAdmin(ctx, principal, email); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// List returns accounts matching the optional name/email search, admin only
func (s *UserService) List(ctx context.Context, principal, search string) ([]models.User, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	return s.users.List(ctx, search)
}

// SetRole changes an account's role and returns the updated record, admin only
func (s *UserService) SetRole(ctx context.Context, principal string, id primitive.ObjectID, role models.UserRole) (*models.User, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	switch role {
	case models.RoleUser, models.RoleStaff, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	matched, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.reload(ctx, id)
}

// SetStatus blocks or unblocks an account and returns the updated record,
// admin only
func (s *UserService) SetStatus(ctx context.Context, principal string, id primitive.ObjectID, status models.UserStatus) (*models.User, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	switch status {
	case models.UserActive, models.UserBlocked:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	matched, err := s.users.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	return s.reload(ctx, id)
}

func (s *UserService) reload(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SeedAdmin idempotently upserts the configured admin account at startup
func (s *UserService) SeedAdmin(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: empty admin email", ErrInvalidInput)
	}
	return s.users.SeedAdmin(ctx, email)
}
