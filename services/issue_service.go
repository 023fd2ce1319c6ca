package services

import (
	"context"
	"fmt"
	"time"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FreeTierQuota caps how many issues a free-tier, non-admin reporter may
// have at once. Deleting an issue frees quota, so the count is taken
// against the store at create time rather than tracked separately.
const FreeTierQuota = 3

// IssueFilter narrows List results. Zero-valued fields are ignored.
type IssueFilter struct {
	ReporterEmail string
	StaffEmail    string
	Status        models.IssueStatus
	Category      models.IssueCategory
	Priority      models.IssuePriority
	Search        string // case-insensitive substring over title and location
}

// IssueRepository is the document-store surface the engine writes through
type IssueRepository interface {
	Insert(ctx context.Context, issue models.Issue) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	CountByReporter(ctx context.Context, email string) (int64, error)
	List(ctx context.Context, filter IssueFilter, skip, limit int64) ([]models.Issue, int64, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) (bool, error)
	AssignStaff(ctx context.Context, id primitive.ObjectID, staffID, staffEmail, staffName string, status models.IssueStatus) (bool, error)
	// AddVote applies the membership precondition and the increment as one
	// conditional update. It returns false when the voter was already in
	// votedUsers at write time, regardless of any earlier read.
	AddVote(ctx context.Context, id primitive.ObjectID, voter string) (bool, error)
	MarkBoosted(ctx context.Context, id primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// StaffRegistry is the slice of the staff collection the engine touches
type StaffRegistry interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error)
	SetWorkStatus(ctx context.Context, id primitive.ObjectID, status models.WorkStatus) error
}

// TimelineRecorder appends audit entries. Append is always called after
// the primary write; its failure never rolls the primary write back.
type TimelineRecorder interface {
	Append(ctx context.Context, entry models.TimelineEntry) (primitive.ObjectID, error)
	ListByIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.TimelineEntry, error)
}

// PaymentRecorder stores boost payment records
type PaymentRecorder interface {
	Record(ctx context.Context, payment models.Payment) error
}

// IssueService owns the issue state machine, upvote dedup, quota
// enforcement, staff assignment coupling, and the timeline trail.
type IssueService struct {
	issues   IssueRepository
	staffs   StaffRegistry
	timeline TimelineRecorder
	payments PaymentRecorder
	policy   *Policy

	// StrictTransitions makes SetStatus validate against
	// models.LegalTransitions instead of accepting any overwrite.
	StrictTransitions bool
}

func NewIssueService(issues IssueRepository, staffs StaffRegistry, timeline TimelineRecorder, payments PaymentRecorder, policy *Policy) *IssueService {
	return &IssueService{
		issues:   issues,
		staffs:   staffs,
		timeline: timeline,
		payments: payments,
		policy:   policy,
	}
}

// CreateIssueInput carries the citizen-supplied fields
type CreateIssueInput struct {
	Title    string
	Location string
	Category models.IssueCategory
}

// Create files a new issue for the principal, enforcing the free-tier
// quota, and appends the first timeline entry.
func (s *IssueService) Create(ctx context.Context, principal string, in CreateIssueInput) (*models.Issue, error) {
	reporter, err := s.policy.Actor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !models.ValidCategories[in.Category] {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	if reporter.Role != models.RoleAdmin && reporter.SubscriptionTier != models.TierPremium {
		count, err := s.issues.CountByReporter(ctx, reporter.Email)
		if err != nil {
			return nil, err
		}
		if count >= FreeTierQuota {
			return nil, ErrQuotaExceeded
		}
	}

	issue := models.Issue{
		TrackingID:    GenerateTrackingID(),
		Title:         in.Title,
		Location:      in.Location,
		Category:      in.Category,
		Status:        models.Pending,
		Priority:      models.PriorityNormal,
		PaymentStatus: models.Unpaid,
		ReporterEmail: reporter.Email,
		Upvotes:       0,
		VotedUsers:    []string{},
		CreatedAt:     time.Now(),
	}

	id, err := s.issues.Insert(ctx, issue)
	if err != nil {
		return nil, err
	}
	issue.ID = id

	if err := s.appendTimeline(ctx, id, models.Pending, "reported by "+reporter.Email, reporter.Email); err != nil {
		return &issue, &PartialError{Parts: []string{"timeline"}, Err: err}
	}
	return &issue, nil
}

// Get returns a single issue
func (s *IssueService) Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrNotFound
	}
	return issue, nil
}

// List returns one page of issues plus the total match count. Results are
// ordered boosted-first, then newest-first.
func (s *IssueService) List(ctx context.Context, filter IssueFilter, page, pageSize int) ([]models.Issue, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	skip := int64((page - 1) * pageSize)
	return s.issues.List(ctx, filter, skip, int64(pageSize))
}

// SetStatus overwrites the issue status and appends a timeline entry.
// Allowed for admins and for the staff member assigned to the issue.
func (s *IssueService) SetStatus(ctx context.Context, principal string, id primitive.ObjectID, newStatus models.IssueStatus, message string) (*models.Issue, error) {
	actor, err := s.policy.Actor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assigned := issue.AssignedStaffEmail != nil && *issue.AssignedStaffEmail == actor.Email
	if actor.Role != models.RoleAdmin && !assigned {
		return nil, ErrForbidden
	}

	if s.StrictTransitions && !models.CanTransition(issue.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, issue.Status, newStatus)
	}

	matched, err := s.issues.SetStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}
	issue.Status = newStatus

	if err := s.appendTimeline(ctx, id, newStatus, message, actor.Email); err != nil {
		return issue, &PartialError{Parts: []string{"timeline"}, Err: err}
	}
	return issue, nil
}

// AssignStaff attaches the staff member to the issue and moves it to
// StaffAssigned, then marks the staff member on-the-way. The issue write
// commits first; a failed staff write surfaces as partial success and is
// never rolled back.
func (s *IssueService) AssignStaff(ctx context.Context, principal string, id, staffID primitive.ObjectID) (*models.Issue, error) {
	actor, err := s.policy.RequireAdmin(ctx, principal)
	if err != nil {
		return nil, err
	}

	staff, err := s.staffs.FindByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrNotFound
	}

	matched, err := s.issues.AssignStaff(ctx, id, staffID.Hex(), staff.Email, staff.Name, models.StaffAssigned)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The timeline entry is owed as soon as the issue write commits, so a
	// failed staff write must not suppress it. Both failures are reported.
	var parts []string
	var firstErr error
	if err := s.staffs.SetWorkStatus(ctx, staffID, models.WorkOnTheWay); err != nil {
		parts = append(parts, "staffWorkStatus")
		firstErr = err
	}
	msg := "assigned to " + staff.Name + " (" + staff.Email + ")"
	if err := s.appendTimeline(ctx, id, models.StaffAssigned, msg, actor.Email); err != nil {
		parts = append(parts, "timeline")
		if firstErr == nil {
			firstErr = err
		}
	}
	if len(parts) > 0 {
		return issue, &PartialError{Parts: parts, Err: firstErr}
	}
	return issue, nil
}

// Upvote counts one vote from the voter. The reporter can never vote on
// their own issue, and a voter counts at most once no matter how many
// concurrent calls race.
func (s *IssueService) Upvote(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error) {
	voter, err := s.policy.Actor(ctx, principal)
	if err != nil {
		return nil, err
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue.ReporterEmail == voter.Email {
		return nil, ErrSelfVote
	}
	for _, v := range issue.VotedUsers {
		if v == voter.Email {
			return nil, ErrDuplicateVote
		}
	}

	// The store re-checks membership at write time; a concurrent vote from
	// the same voter that slipped past the read above loses here.
	added, err := s.issues.AddVote(ctx, id, voter.Email)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrDuplicateVote
	}

	issue.Upvotes++
	issue.VotedUsers = append(issue.VotedUsers, voter.Email)
	return issue, nil
}

// Boost marks the issue paid and raises its priority, recording the
// payment as a side entity and a timeline entry.
func (s *IssueService) Boost(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error) {
	actor, err := s.policy.RequireAdmin(ctx, principal)
	if err != nil {
		return nil, err
	}

	matched, err := s.issues.MarkBoosted(ctx, id)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrNotFound
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		IssueID:    id,
		PayerEmail: issue.ReporterEmail,
		Purpose:    "boost",
		CreatedAt:  time.Now(),
	}
	var parts []string
	var firstErr error
	if err := s.payments.Record(ctx, payment); err != nil {
		parts = append(parts, "payment")
		firstErr = err
	}
	if err := s.appendTimeline(ctx, id, issue.Status, "priority boosted", actor.Email); err != nil {
		parts = append(parts, "timeline")
		if firstErr == nil {
			firstErr = err
		}
	}
	if len(parts) > 0 {
		return issue, &PartialError{Parts: parts, Err: firstErr}
	}
	return issue, nil
}

// Delete removes the issue. Timeline entries stay behind as history.
func (s *IssueService) Delete(ctx context.Context, principal string, id primitive.ObjectID) error {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return err
	}
	deleted, err := s.issues.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Timeline returns the audit entries for an issue, newest first
func (s *IssueService) Timeline(ctx context.Context, id primitive.ObjectID) ([]models.TimelineEntry, error) {
	return s.timeline.ListByIssue(ctx, id)
}

func (s *IssueService) appendTimeline(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, message, actor string) error {
	entry := models.TimelineEntry{
		IssueID:    issueID,
		Status:     status,
		Message:    message,
		UpdatedBy:  actor,
		RecordedAt: time.Now(),
	}
	_, err := s.timeline.Append(ctx, entry)
	return err
}
