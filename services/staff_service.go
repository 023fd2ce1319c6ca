package services

import (
	"context"
	"fmt"
	"time"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffRepository is the full staff store; StaffRegistry is the slice the
// issue engine sees.
type StaffRepository interface {
	StaffRegistry
	Insert(ctx context.Context, staff models.Staff) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.Staff, error)
	Update(ctx context.Context, id primitive.ObjectID, name, email *string, workStatus *models.WorkStatus) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// StaffService manages the staff registry, admin only throughout
type StaffService struct {
	staffs StaffRepository
	policy *Policy
}

func NewStaffService(staffs StaffRepository, policy *Policy) *StaffService {
	return &StaffService{staffs: staffs, policy: policy}
}

// StaffInput carries the fields for creating a staff member
type StaffInput struct {
	Name  string
	Email string
}

func (s *StaffService) Create(ctx context.Context, principal string, in StaffInput) (*models.Staff, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}

	staff := models.Staff{
		Name:       in.Name,
		Email:      in.Email,
		WorkStatus: models.WorkIdle,
		CreatedAt:  time.Now(),
	}
	id, err := s.staffs.Insert(ctx, staff)
	if err != nil {
		return nil, err
	}
	staff.ID = id
	return &staff, nil
}

func (s *StaffService) List(ctx context.Context, principal string) ([]models.Staff, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return nil, err
	}
	return s.staffs.List(ctx)
}

// StaffUpdateInput carries optional fields; nil means leave unchanged
type StaffUpdateInput struct {
	Name       *string
	Email      *string
	WorkStatus *models.WorkStatus
}

func (s *StaffService) Update(ctx context.Context, principal string, id primitive.ObjectID, in StaffUpdateInput) error {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return err
	}
	if in.WorkStatus != nil && !models.IsValidWorkStatus(*in.WorkStatus) {
		return fmt.Errorf("%w: unknown work status %q", ErrInvalidInput, *in.WorkStatus)
	}
	matched, err := s.staffs.Update(ctx, id, in.Name, in.Email, in.WorkStatus)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *StaffService) Delete(ctx context.Context, principal string, id primitive.ObjectID) error {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return err
	}
	deleted, err := s.staffs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
