package controllers

import (
	"errors"
	"net/http"

	"citycare-be/services"

	"github.com/gin-gonic/gin"
)

// respondError maps domain failures to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "issue quota exceeded"})
	case errors.Is(err, services.ErrSelfVote):
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot upvote your own issue"})
	case errors.Is(err, services.ErrDuplicateVote):
		c.JSON(http.StatusConflict, gin.H{"error": "you have already upvoted this issue"})
	case errors.Is(err, services.ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
