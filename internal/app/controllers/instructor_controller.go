package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// CourseCatalogReader is the owned-course browse surface the controller
// depends on.
type CourseCatalogReader interface {
	ListCreated(ctx context.Context, ownerID int64) ([]dto.CourseResponse, error)
	GetOwnedCourse(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error)
}

// InstructorController handles the instructor's course list
type InstructorController struct {
	courseService CourseCatalogReader
}

// NewInstructorController creates a new instructor controller
func NewInstructorController(courseService CourseCatalogReader) *InstructorController {
	return &InstructorController{courseService: courseService}
}

// ListCourses returns the caller's created courses.
func (c *InstructorController) ListCourses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListCreated(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// GetCourse returns one owned course's metadata.
func (c *InstructorController) GetCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.GetOwnedCourse(ctx.Request.Context(), userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, course)
}
