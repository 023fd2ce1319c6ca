package controllers

import (
	"context"
	"net/http"
	"time"

	"citycare-be/middlewares"
	"citycare-be/models"
	"citycare-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffService is the registry surface the controller calls
type StaffService interface {
	Create(ctx context.Context, principal string, in services.StaffInput) (*models.Staff, error)
	List(ctx context.Context, principal string) ([]models.Staff, error)
	Update(ctx context.Context, principal string, id primitive.ObjectID, in services.StaffUpdateInput) error
	Delete(ctx context.Context, principal string, id primitive.ObjectID) error
}

type StaffController struct {
	svc StaffService
}

func NewStaffController(svc StaffService) *StaffController {
	return &StaffController{svc: svc}
}

// CreateStaff adds a staff member, admin only
func (sc *StaffController) CreateStaff(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Name  string `json:"name" binding:"required,max=50"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, err := sc.svc.Create(ctx, principal, services.StaffInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// GetAllStaff lists staff members, admin only
func (sc *StaffController) GetAllStaff(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staffs, err := sc.svc.List(ctx, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staffs)
}

// UpdateStaff mutates staff fields, admin only
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	staffID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	var input struct {
		Name       *string `json:"name,omitempty"`
		Email      *string `json:"email,omitempty"`
		WorkStatus *string `json:"workStatus,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.StaffUpdateInput{
		Name:  input.Name,
		Email: input.Email,
	}
	if input.WorkStatus != nil {
		ws := models.WorkStatus(*input.WorkStatus)
		update.WorkStatus = &ws
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sc.svc.Update(ctx, principal, staffID, update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully"})
}

// DeleteStaff removes a staff member, admin only
func (sc *StaffController) DeleteStaff(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	staffID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sc.svc.Delete(ctx, principal, staffID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}
