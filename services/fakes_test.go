package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"citycare-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stands-ins for the Mongo repositories. The issue fake applies
// AddVote's precondition and increment under one lock, matching the
// conditional-update semantics of the real store.

type fakeIssueRepo struct {
	mu     sync.Mutex
	issues map[primitive.ObjectID]*models.Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{issues: make(map[primitive.ObjectID]*models.Issue)}
}

func copyIssue(issue *models.Issue) *models.Issue {
	cp := *issue
	cp.VotedUsers = append([]string{}, issue.VotedUsers...)
	return &cp
}

func (f *fakeIssueRepo) Insert(_ context.Context, issue models.Issue) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue.ID = primitive.NewObjectID()
	f.issues[issue.ID] = copyIssue(&issue)
	return issue.ID, nil
}

func (f *fakeIssueRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return nil, nil
	}
	return copyIssue(issue), nil
}

func (f *fakeIssueRepo) CountByReporter(_ context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, issue := range f.issues {
		if issue.ReporterEmail == email {
			count++
		}
	}
	return count, nil
}

func matchesFilter(issue *models.Issue, filter IssueFilter) bool {
	if filter.ReporterEmail != "" && issue.ReporterEmail != filter.ReporterEmail {
		return false
	}
	if filter.StaffEmail != "" && (issue.AssignedStaffEmail == nil || *issue.AssignedStaffEmail != filter.StaffEmail) {
		return false
	}
	if filter.Status != "" && issue.Status != filter.Status {
		return false
	}
	if filter.Category != "" && issue.Category != filter.Category {
		return false
	}
	if filter.Priority != "" && issue.Priority != filter.Priority {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(issue.Title), needle) &&
			!strings.Contains(strings.ToLower(issue.Location), needle) {
			return false
		}
	}
	return true
}

func (f *fakeIssueRepo) List(_ context.Context, filter IssueFilter, skip, limit int64) ([]models.Issue, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.Issue, 0)
	for _, issue := range f.issues {
		if matchesFilter(issue, filter) {
			matched = append(matched, *copyIssue(issue))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority == models.PriorityBoosted
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if skip >= total {
		return []models.Issue{}, total, nil
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeIssueRepo) SetStatus(_ context.Context, id primitive.ObjectID, status models.IssueStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return false, nil
	}
	issue.Status = status
	return true, nil
}

func (f *fakeIssueRepo) AssignStaff(_ context.Context, id primitive.ObjectID, staffID, staffEmail, staffName string, status models.IssueStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return false, nil
	}
	issue.Status = status
	issue.AssignedStaffID = &staffID
	issue.AssignedStaffEmail = &staffEmail
	issue.AssignedStaffName = &staffName
	return true, nil
}

func (f *fakeIssueRepo) AddVote(_ context.Context, id primitive.ObjectID, voter string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return false, nil
	}
	if issue.ReporterEmail == voter {
		return false, nil
	}
	for _, v := range issue.VotedUsers {
		if v == voter {
			return false, nil
		}
	}
	issue.Upvotes++
	issue.VotedUsers = append(issue.VotedUsers, voter)
	return true, nil
}

func (f *fakeIssueRepo) MarkBoosted(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return false, nil
	}
	issue.PaymentStatus = models.Paid
	issue.Priority = models.PriorityBoosted
	return true, nil
}

func (f *fakeIssueRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[id]; !ok {
		return false, nil
	}
	delete(f.issues, id)
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) add(user models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.Email] = &user
	return &user
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, user models.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.Email] = &user
	return user.ID, nil
}

func (f *fakeUserRepo) List(_ context.Context, search string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0)
	needle := strings.ToLower(search)
	for _, user := range f.users {
		if search == "" ||
			strings.Contains(strings.ToLower(user.Name), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetRole(_ context.Context, id primitive.ObjectID, role models.UserRole) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			user.Role = role
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SetStatus(_ context.Context, id primitive.ObjectID, status models.UserStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			user.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SeedAdmin(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		user.Role = models.RoleAdmin
		return nil
	}
	f.users[email] = &models.User{
		ID:               primitive.NewObjectID(),
		Name:             "Administrator",
		Email:            email,
		Role:             models.RoleAdmin,
		Status:           models.UserActive,
		SubscriptionTier: models.TierFree,
	}
	return nil
}

type fakeStaffRepo struct {
	mu            sync.Mutex
	staffs        map[primitive.ObjectID]*models.Staff
	workStatusErr error
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staffs: make(map[primitive.ObjectID]*models.Staff)}
}

func (f *fakeStaffRepo) add(staff models.Staff) *models.Staff {
	f.mu.Lock()
	defer f.mu.Unlock()
	if staff.ID.IsZero() {
		staff.ID = primitive.NewObjectID()
	}
	f.staffs[staff.ID] = &staff
	return &staff
}

func (f *fakeStaffRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.staffs[id]
	if !ok {
		return nil, nil
	}
	cp := *staff
	return &cp, nil
}

func (f *fakeStaffRepo) SetWorkStatus(_ context.Context, id primitive.ObjectID, status models.WorkStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.workStatusErr != nil {
		return f.workStatusErr
	}
	if staff, ok := f.staffs[id]; ok {
		staff.WorkStatus = status
	}
	return nil
}

func (f *fakeStaffRepo) Insert(_ context.Context, staff models.Staff) (primitive.ObjectID, error) {
	staff.ID = primitive.NewObjectID()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staffs[staff.ID] = &staff
	return staff.ID, nil
}

func (f *fakeStaffRepo) List(_ context.Context) ([]models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Staff, 0)
	for _, staff := range f.staffs {
		out = append(out, *staff)
	}
	return out, nil
}

func (f *fakeStaffRepo) Update(_ context.Context, id primitive.ObjectID, name, email *string, workStatus *models.WorkStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.staffs[id]
	if !ok {
		return false, nil
	}
	if name != nil {
		staff.Name = *name
	}
	if email != nil {
		staff.Email = *email
	}
	if workStatus != nil {
		staff.WorkStatus = *workStatus
	}
	return true, nil
}

func (f *fakeStaffRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.staffs[id]; !ok {
		return false, nil
	}
	delete(f.staffs, id)
	return true, nil
}

type fakeTimelineRepo struct {
	mu        sync.Mutex
	entries   []models.TimelineEntry
	appendErr error
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{}
}

func (f *fakeTimelineRepo) Append(_ context.Context, entry models.TimelineEntry) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return primitive.NilObjectID, f.appendErr
	}
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, entry)
	return entry.ID, nil
}

func (f *fakeTimelineRepo) ListByIssue(_ context.Context, issueID primitive.ObjectID) ([]models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TimelineEntry, 0)
	for _, entry := range f.entries {
		if entry.IssueID == issueID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  []models.Payment
	recordErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (f *fakePaymentRepo) Record(_ context.Context, payment models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.payments = append(f.payments, payment)
	return nil
}
