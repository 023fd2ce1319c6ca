package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"citycare-be/middlewares"
	"citycare-be/models"
	"citycare-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueService is the slice of the lifecycle engine the controller calls
type IssueService interface {
	Create(ctx context.Context, principal string, in services.CreateIssueInput) (*models.Issue, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	List(ctx context.Context, filter services.IssueFilter, page, pageSize int) ([]models.Issue, int64, error)
	SetStatus(ctx context.Context, principal string, id primitive.ObjectID, newStatus models.IssueStatus, message string) (*models.Issue, error)
	AssignStaff(ctx context.Context, principal string, id, staffID primitive.ObjectID) (*models.Issue, error)
	Upvote(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error)
	Boost(ctx context.Context, principal string, id primitive.ObjectID) (*models.Issue, error)
	Delete(ctx context.Context, principal string, id primitive.ObjectID) error
	Timeline(ctx context.Context, id primitive.ObjectID) ([]models.TimelineEntry, error)
}

type IssueController struct {
	svc IssueService
}

func NewIssueController(svc IssueService) *IssueController {
	return &IssueController{svc: svc}
}

// respondIssue writes the issue, downgrading a partial failure of a
// coupled secondary write to a warning rather than hiding it
func respondIssue(c *gin.Context, code int, issue *models.Issue, err error) {
	if err == nil {
		c.JSON(code, issue)
		return
	}
	if pe, ok := services.AsPartial(err); ok && issue != nil {
		c.JSON(code, gin.H{
			"issue":   issue,
			"partial": pe.Parts,
			"warning": pe.Error(),
		})
		return
	}
	respondError(c, err)
}

// CreateIssue handles the creation of a new issue
func (ic *IssueController) CreateIssue(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title    string `json:"title" binding:"required,max=200"`
		Location string `json:"location" binding:"required,max=200"`
		Category string `json:"category" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.Create(ctx, principal, services.CreateIssueInput{
		Title:    input.Title,
		Location: input.Location,
		Category: models.IssueCategory(input.Category),
	})
	respondIssue(c, http.StatusCreated, issue, err)
}

// GetAllIssues handles retrieving issues with filtering and pagination
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := services.IssueFilter{
		ReporterEmail: c.Query("reporterEmail"),
		StaffEmail:    c.Query("staffEmail"),
		Status:        models.IssueStatus(c.Query("status")),
		Category:      models.IssueCategory(c.Query("category")),
		Priority:      models.IssuePriority(c.Query("priority")),
		Search:        c.Query("search"),
	}

	issues, total, err := ic.svc.List(ctx, filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"issues":      issues,
		"totalIssues": total,
		"totalPages":  totalPages,
		"currentPage": page,
		"pageSize":    limit,
	})
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.Get(ctx, issueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// GetTimeline returns the audit trail of an issue
func (ic *IssueController) GetTimeline(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := ic.svc.Timeline(ctx, issueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// SetStatus overwrites the issue status, for assigned staff or admins
func (ic *IssueController) SetStatus(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status  string `json:"status" binding:"required"`
		Message string `json:"message" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.SetStatus(ctx, principal, issueID, models.IssueStatus(input.Status), input.Message)
	respondIssue(c, http.StatusOK, issue, err)
}

// AssignStaff attaches a staff member to an issue, admin only
func (ic *IssueController) AssignStaff(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staffID, err := primitive.ObjectIDFromHex(input.StaffID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.AssignStaff(ctx, principal, issueID, staffID)
	respondIssue(c, http.StatusOK, issue, err)
}

// UpvoteIssue counts one vote from the principal
func (ic *IssueController) UpvoteIssue(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.Upvote(ctx, principal, issueID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Vote cast successfully",
		"upvotes": issue.Upvotes,
	})
}

// BoostIssue marks the issue paid and raises its priority, admin only
func (ic *IssueController) BoostIssue(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.svc.Boost(ctx, principal, issueID)
	respondIssue(c, http.StatusOK, issue, err)
}

// DeleteIssue removes an issue, admin only
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ic.svc.Delete(ctx, principal, issueID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}
