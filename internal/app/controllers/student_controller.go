package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// EnrollmentService is the student-facing catalog surface the controller
// depends on.
type EnrollmentService interface {
	ListEnrolled(ctx context.Context, userID int64) ([]dto.CourseResponse, error)
	ListEnrollable(ctx context.Context, userID int64) ([]dto.CourseResponse, error)
	Enroll(ctx context.Context, userID, courseID int64) error
	RateCourse(ctx context.Context, courseID int64, rating int) (*dto.RateCourseResponse, error)
}

// ContentAssembler resolves a course's content tree for an enrolled student.
type ContentAssembler interface {
	AssembleCourseContent(ctx context.Context, userID, courseID int64) (*dto.CourseContentResponse, error)
}

// StudentController handles course browsing, enrollment, content retrieval
// and rating
type StudentController struct {
	studentService EnrollmentService
	contentService ContentAssembler
}

// NewStudentController creates a new student controller
func NewStudentController(studentService EnrollmentService, contentService ContentAssembler) *StudentController {
	return &StudentController{
		studentService: studentService,
		contentService: contentService,
	}
}

// ListEnrolled returns the caller's enrolled courses, 404 when none.
func (c *StudentController) ListEnrolled(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	courses, err := c.studentService.ListEnrolled(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// ListAll returns every course the caller is not yet enrolled in.
func (c *StudentController) ListAll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	courses, err := c.studentService.ListEnrollable(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// Enroll adds the course to the caller's enrolled set.
func (c *StudentController) Enroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.Enroll(ctx.Request.Context(), userID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "enrolled"})
}

// GetCourseContent returns the assembled content tree with signed URLs.
func (c *StudentController) GetCourseContent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	content, err := c.contentService.AssembleCourseContent(ctx.Request.Context(), userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, content)
}

// RateCourse applies one rating submission and returns the new mean.
func (c *StudentController) RateCourse(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var req dto.RateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	resp, err := c.studentService.RateCourse(ctx.Request.Context(), courseID, req.Rating)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
