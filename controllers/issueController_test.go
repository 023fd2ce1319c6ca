package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"citycare-be/middlewares"
	"citycare-be/models"
	"citycare-be/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockIssueService struct {
	mock.Mock
}

func (m *mockIssueService) Create(ctx context.Context, principal string, in services.CreateIssueInput) (*models.Issue, error) {
	args := m.Called(ctx, principal, in)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	args := m.Called(ctx, id)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) List(ctx context.Context, filter services.IssueFilter, page, pageSize int) ([]models.Issue, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	issues, _ := args.Get(0).([]models.Issue)
	return issues, args.Get(1).(int64), args.Error(2)
}

func (m *mockIssueService) SetStatus(ctx context.Context, principal string, id primitive.ObjectID, newStatus models.IssueStatus, message string) (*models.Issue, error) {
	args := m.Called(ctx, principal, id, newStatus, message)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) AssignStaff(ctx context.Context, principal string, id, staffID primitive.ObjectID) (*models.Issue, error) {
	args := m.Called(ctx, principal, id, staffID)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) Upvote(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error) {
	args := m.Called(ctx, principal, id)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) Boost(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error) {
	args := m.Called(ctx, principal, id)
	issue, _ := args.Get(0).(*models.Issue)
	return issue, args.Error(1)
}

func (m *mockIssueService) Delete(ctx context.Context, principal string, id primitive.ObjectID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func (m *mockIssueService) Timeline(ctx context.Context, id primitive.ObjectID) ([]models.TimelineEntry, error) {
	args := m.Called(ctx, id)
	entries, _ := args.Get(0).([]models.TimelineEntry)
	return entries, args.Error(1)
}

// setupIssueRouter wires the controller behind a stub auth middleware that
// injects the given principal, standing in for the verified token
func setupIssueRouter(svc IssueService, principal string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		if principal != "" {
			c.Set(middlewares.PrincipalKey, principal)
		}
		c.Next()
	}

	ic := NewIssueController(svc)
	r.GET("/api/issues", ic.GetAllIssues)
	r.GET("/api/issues/:id", ic.GetIssue)
	r.POST("/api/issues", auth, ic.CreateIssue)
	r.POST("/api/issues/:id/upvote", auth, ic.UpvoteIssue)
	r.PATCH("/api/issues/:id/assign", auth, ic.AssignStaff)
	return r
}

func doJSON(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateIssueHandler(t *testing.T) {
	issueID := primitive.NewObjectID()

	tests := []struct {
		name           string
		principal      string
		body           any
		setupMock      func(*mockIssueService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "created",
			principal: "alice@x.com",
			body:      gin.H{"title": "Pothole", "location": "Main St", "category": "Road"},
			setupMock: func(m *mockIssueService) {
				m.On("Create", mock.Anything, "alice@x.com", services.CreateIssueInput{
					Title: "Pothole", Location: "Main St", Category: models.Road,
				}).Return(&models.Issue{
					ID: issueID, Title: "Pothole", Status: models.Pending, TrackingID: "CC-ABC-12345",
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"trackingId":"CC-ABC-12345"`,
		},
		{
			name:           "missing title",
			principal:      "alice@x.com",
			body:           gin.H{"location": "Main St", "category": "Road"},
			setupMock:      func(_ *mockIssueService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated",
			principal:      "",
			body:           gin.H{"title": "Pothole", "location": "Main St", "category": "Road"},
			setupMock:      func(_ *mockIssueService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:      "quota exceeded",
			principal: "alice@x.com",
			body:      gin.H{"title": "Pothole", "location": "Main St", "category": "Road"},
			setupMock: func(m *mockIssueService) {
				m.On("Create", mock.Anything, "alice@x.com", mock.Anything).
					Return(nil, services.ErrQuotaExceeded)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   `"issue quota exceeded"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockIssueService)
			tt.setupMock(svc)
			r := setupIssueRouter(svc, tt.principal)

			w := doJSON(r, http.MethodPost, "/api/issues", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUpvoteHandler(t *testing.T) {
	issueID := primitive.NewObjectID()

	tests := []struct {
		name           string
		setupMock      func(*mockIssueService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "counted",
			setupMock: func(m *mockIssueService) {
				m.On("Upvote", mock.Anything, "bob@x.com", issueID).
					Return(&models.Issue{ID: issueID, Upvotes: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"upvotes":1`,
		},
		{
			name: "duplicate",
			setupMock: func(m *mockIssueService) {
				m.On("Upvote", mock.Anything, "bob@x.com", issueID).
					Return(nil, services.ErrDuplicateVote)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "self vote",
			setupMock: func(m *mockIssueService) {
				m.On("Upvote", mock.Anything, "bob@x.com", issueID).
					Return(nil, services.ErrSelfVote)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "unknown issue",
			setupMock: func(m *mockIssueService) {
				m.On("Upvote", mock.Anything, "bob@x.com", issueID).
					Return(nil, services.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockIssueService)
			tt.setupMock(svc)
			r := setupIssueRouter(svc, "bob@x.com")

			w := doJSON(r, http.MethodPost, "/api/issues/"+issueID.Hex()+"/upvote", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAssignStaffHandlerPartialSuccess(t *testing.T) {
	issueID := primitive.NewObjectID()
	staffID := primitive.NewObjectID()
	staffEmail := "field@x.com"

	svc := new(mockIssueService)
	svc.On("AssignStaff", mock.Anything, "root@x.com", issueID, staffID).
		Return(&models.Issue{
			ID:                 issueID,
			Status:             models.StaffAssigned,
			AssignedStaffEmail: &staffEmail,
		}, &services.PartialError{Parts: []string{"staffWorkStatus"}, Err: assert.AnError})

	r := setupIssueRouter(svc, "root@x.com")
	w := doJSON(r, http.MethodPatch, "/api/issues/"+issueID.Hex()+"/assign", gin.H{"staffId": staffID.Hex()})

	// The primary write committed, so the response succeeds but names the
	// piece that did not
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"partial":["staffWorkStatus"]`)
	assert.Contains(t, w.Body.String(), staffEmail)
	svc.AssertExpectations(t)
}

func TestGetAllIssuesHandlerClampsPaging(t *testing.T) {
	svc := new(mockIssueService)
	// Out-of-range and junk paging values fall back to page 1, size 10
	svc.On("List", mock.Anything, mock.Anything, 1, 10).
		Return([]models.Issue{}, int64(0), nil)

	r := setupIssueRouter(svc, "")
	for _, q := range []string{"?limit=0", "?limit=abc", "?page=-3&limit=500"} {
		w := doJSON(r, http.MethodGet, "/api/issues"+q, nil)
		require.Equal(t, http.StatusOK, w.Code, q)
		assert.Contains(t, w.Body.String(), `"pageSize":10`, q)
		assert.Contains(t, w.Body.String(), `"currentPage":1`, q)
	}
	svc.AssertExpectations(t)
}

func TestGetIssueHandler(t *testing.T) {
	svc := new(mockIssueService)
	issueID := primitive.NewObjectID()
	svc.On("Get", mock.Anything, issueID).Return(nil, services.ErrNotFound)

	r := setupIssueRouter(svc, "")
	w := doJSON(r, http.MethodGet, "/api/issues/"+issueID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/issues/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
