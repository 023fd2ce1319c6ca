package routes

import (
	"citycare-be/controllers"
	"citycare-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. Listing and reading are public;
// everything that writes goes through the auth middleware.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, createLimit int) {
	issue := r.Group("/api/issues")
	{
		issue.GET("", ic.GetAllIssues)
		issue.GET("/:id", ic.GetIssue)
		issue.GET("/:id/timeline", ic.GetTimeline)
		issue.POST("", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(createLimit), ic.CreateIssue)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), ic.SetStatus)
		issue.PATCH("/:id/assign", middlewares.AuthMiddleware(), ic.AssignStaff)
		issue.POST("/:id/upvote", middlewares.AuthMiddleware(), ic.UpvoteIssue)
		issue.POST("/:id/boost", middlewares.AuthMiddleware(), ic.BoostIssue)
		issue.DELETE("/:id", middlewares.AuthMiddleware(), ic.DeleteIssue)
	}
}
