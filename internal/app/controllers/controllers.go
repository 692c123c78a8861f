// Package controllers translates HTTP requests into service calls. Handlers
// parse and validate path/body input, delegate to a service, and map errors
// through the shared error middleware.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/app/services"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// Controllers is a container for all controllers
type Controllers struct {
	AuthController       *AuthController
	CourseController     *CourseController
	InstructorController *InstructorController
	StudentController    *StudentController
	CommentController    *CommentController
}

// NewControllers creates all controllers over the service container.
func NewControllers(svc *services.Services) *Controllers {
	return &Controllers{
		AuthController:       NewAuthController(svc.AuthService),
		CourseController:     NewCourseController(svc.CourseService),
		InstructorController: NewInstructorController(svc.CourseService),
		StudentController:    NewStudentController(svc.StudentService, svc.ContentService),
		CommentController:    NewCommentController(svc.CommentService),
	}
}

// currentUserID reads the authenticated account ID, aborting with 401 when
// the identity is missing.
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID, err := middleware.CurrentUserID(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
		return 0, false
	}
	return userID, true
}

// parseCourseID parses the :courseId path parameter, aborting with 400 on a
// malformed value.
func parseCourseID(ctx *gin.Context) (int64, bool) {
	courseID, err := strconv.ParseInt(ctx.Param("courseId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "course ID must be a valid number"})
		return 0, false
	}
	return courseID, true
}

// parseVideoID parses the :videoId path parameter, aborting with 400 on a
// malformed value.
func parseVideoID(ctx *gin.Context) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(ctx.Param("videoId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "video ID must be a valid UUID"})
		return uuid.Nil, false
	}
	return videoID, true
}
