package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/app/services"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// maxUploadSize bounds a single multipart upload.
const maxUploadSize = 2 << 30

// CourseContentManager is the instructor-facing course surface the
// controller depends on.
type CourseContentManager interface {
	CreateCourse(ctx context.Context, userID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	AddVideo(ctx context.Context, userID, courseID int64, title, description string, upload *services.FileUpload) (*dto.VideoResponse, error)
	RemoveVideo(ctx context.Context, userID, courseID int64, videoID uuid.UUID) error
	VideoPlaybackURL(ctx context.Context, userID, courseID int64, videoID uuid.UUID) (*dto.VideoURLResponse, error)
	AddAttachmentSection(ctx context.Context, userID, courseID int64, uploads []*services.FileUpload) (*dto.AttachmentSectionResponse, error)
}

// CourseController handles course creation and content uploads
type CourseController struct {
	courseService CourseContentManager
}

// NewCourseController creates a new course controller
func NewCourseController(courseService CourseContentManager) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse creates a new course owned by the caller.
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// AddVideo appends an uploaded video to the course.
func (c *CourseController) AddVideo(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)
	fileHeader, err := ctx.FormFile("video")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "video file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "failed to read video file"})
		return
	}
	defer file.Close()

	video, err := c.courseService.AddVideo(ctx.Request.Context(), userID, courseID,
		ctx.PostForm("title"), ctx.PostForm("description"),
		&services.FileUpload{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, video)
}

// RemoveVideo deletes a video from the course's ordered list.
func (c *CourseController) RemoveVideo(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.RemoveVideo(ctx.Request.Context(), userID, courseID, videoID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "video removed"})
}

// GetVideoURL mints a time-limited playback URL for an owned video.
func (c *CourseController) GetVideoURL(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	videoID, ok := parseVideoID(ctx)
	if !ok {
		return
	}

	resp, err := c.courseService.VideoPlaybackURL(ctx.Request.Context(), userID, courseID, videoID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AddAttachments appends an attachment section built from the uploaded
// document and code files.
func (c *CourseController) AddAttachments(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "multipart form is required"})
		return
	}

	var uploads []*services.FileUpload
	var opened []interface{ Close() error }
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fileHeader := range form.File["files"] {
		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "failed to read attachment file"})
			return
		}
		opened = append(opened, file)
		uploads = append(uploads, &services.FileUpload{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      file,
		})
	}

	section, err := c.courseService.AddAttachmentSection(ctx.Request.Context(), userID, courseID, uploads)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, section)
}
