package services

import (
	"context"

	"citycare-be/models"
)

// UserDirectory exposes the account lookups the authorization rules need.
// FindByEmail returns (nil, nil) when no account exists for the email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Policy decides whether an authenticated principal may act. A blocked
// account fails every action, checked before any role rule.
type Policy struct {
	directory UserDirectory
}

func NewPolicy(directory UserDirectory) *Policy {
	return &Policy{directory: directory}
}

// Actor resolves the principal's directory record. Unknown or blocked
// principals are forbidden.
func (p *Policy) Actor(ctx context.Context, email string) (*models.User, error) {
	user, err := p.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status == models.UserBlocked {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequireAdmin resolves the principal and rejects non-admins
func (p *Policy) RequireAdmin(ctx context.Context, email string) (*models.User, error) {
	user, err := p.Actor(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequireSelfOrAdmin allows the principal to act on its own record, or any
// admin to act on anyone's
func (p *Policy) RequireSelfOrAdmin(ctx context.Context, email, targetEmail string) (*models.User, error) {
	user, err := p.Actor(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Email != targetEmail && user.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}
