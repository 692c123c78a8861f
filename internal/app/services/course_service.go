package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	appauth "github.com/avcode/avcode-backend/internal/app/auth"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/logger"
	"github.com/avcode/avcode-backend/internal/pkg/objectstore"
)

// Storage key prefixes. Keys are opaque object locators and never leave the
// server.
const (
	videoKeyPrefix      = "courses/"
	attachmentKeyPrefix = "attachments/"
)

// attachmentMimeKinds is the allow-list of attachment content types, mapped
// to the stored file kind.
var attachmentMimeKinds = map[string]string{
	"application/pdf":              models.AttachmentKindPDF,
	"application/zip":              models.AttachmentKindCode,
	"application/x-zip-compressed": models.AttachmentKindCode,
	"text/plain":                   models.AttachmentKindCode,
	"text/x-python":                models.AttachmentKindCode,
	"text/x-c":                     models.AttachmentKindCode,
	"text/x-c++src":                models.AttachmentKindCode,
	"text/x-java-source":           models.AttachmentKindCode,
	"application/javascript":       models.AttachmentKindCode,
	"application/json":             models.AttachmentKindCode,
	"application/octet-stream":     models.AttachmentKindCode,
}

// FileUpload is one incoming multipart file.
type FileUpload struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// CourseService implements the instructor-facing catalog operations: course
// creation, the video list, attachment sections and playback URLs.
type CourseService struct {
	courses      CourseStore
	authz        *appauth.AuthorizationService
	store        objectstore.Store
	signedURLTTL time.Duration
}

// NewCourseService creates a new CourseService
func NewCourseService(courses CourseStore, authz *appauth.AuthorizationService, store objectstore.Store, signedURLTTL time.Duration) *CourseService {
	return &CourseService{
		courses:      courses,
		authz:        authz,
		store:        store,
		signedURLTTL: signedURLTTL,
	}
}

// CreateCourse validates and inserts a new course owned by the caller. The
// owner linkage is a column of the inserted row, so creation and ownership
// commit together.
func (s *CourseService) CreateCourse(ctx context.Context, userID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("course title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("course description is required")
	}
	if len(req.Tags) == 0 {
		return nil, apperrors.NewValidationError("at least one tag is required")
	}

	course, err := s.courses.Create(ctx, &models.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        req.Tags,
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Int64("ownerID", userID).Msg("Course created")
	full, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(full)
	return &resp, nil
}

// ListCreated returns the courses owned by the caller.
func (s *CourseService) ListCreated(ctx context.Context, ownerID int64) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// GetOwnedCourse returns one owned course's metadata. 404 when the course
// does not exist, 403 when it is owned by someone else.
func (s *CourseService) GetOwnedCourse(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error) {
	if err := s.authz.RequireOwnership(ctx, userID, courseID); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

// AddVideo stores the uploaded object and appends a video entry at the next
// position of the course's list. The object is written before the database
// row; on insert failure the orphaned object is deleted best-effort.
func (s *CourseService) AddVideo(ctx context.Context, userID, courseID int64, title, description string, upload *FileUpload) (*dto.VideoResponse, error) {
	if err := s.authz.RequireOwnership(ctx, userID, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewValidationError("video title is required")
	}
	if !strings.HasPrefix(upload.ContentType, "video/") {
		return nil, apperrors.NewValidationError("only video files are accepted")
	}

	videoID := uuid.New()
	key := videoKeyPrefix + videoID.String() + "_" + sanitizeFileName(upload.FileName)
	if err := s.store.Upload(ctx, key, upload.Reader, upload.ContentType); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceFailure, "failed to store video")
	}

	video, err := s.courses.AddVideo(ctx, &models.Video{
		ID:          videoID,
		CourseID:    courseID,
		Title:       strings.TrimSpace(title),
		Description: description,
		StorageKey:  key,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.Warn().Err(delErr).Str("key", key).Msg("Failed to delete orphaned video object")
		}
		return nil, err
	}

	logger.Info().Int64("courseID", courseID).Str("videoID", videoID.String()).Msg("Video appended")
	return &dto.VideoResponse{
		ID:          video.ID.String(),
		Title:       video.Title,
		Description: video.Description,
		Position:    video.Position,
	}, nil
}

// RemoveVideo splices the video out of the course's list and deletes its
// stored object best-effort.
func (s *CourseService) RemoveVideo(ctx context.Context, userID, courseID int64, videoID uuid.UUID) error {
	if err := s.authz.RequireOwnership(ctx, userID, courseID); err != nil {
		return err
	}

	storageKey, err := s.courses.RemoveVideo(ctx, courseID, videoID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, storageKey); err != nil {
		logger.Warn().Err(err).Str("key", storageKey).Msg("Failed to delete removed video object")
	}

	logger.Info().Int64("courseID", courseID).Str("videoID", videoID.String()).Msg("Video removed")
	return nil
}

// VideoPlaybackURL mints a time-limited signed URL for one owned video.
func (s *CourseService) VideoPlaybackURL(ctx context.Context, userID, courseID int64, videoID uuid.UUID) (*dto.VideoURLResponse, error) {
	if err := s.authz.RequireOwnership(ctx, userID, courseID); err != nil {
		return nil, err
	}

	video, err := s.courses.GetVideo(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}
	url, err := s.store.SignedURL(video.StorageKey, s.signedURLTTL)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceFailure, "failed to sign video URL")
	}
	return &dto.VideoURLResponse{URL: url}, nil
}

// AddAttachmentSection stores the uploaded documents and appends an
// attachment section grouping them. Only the allow-listed document and code
// content types are accepted.
func (s *CourseService) AddAttachmentSection(ctx context.Context, userID, courseID int64, uploads []*FileUpload) (*dto.AttachmentSectionResponse, error) {
	if err := s.authz.RequireOwnership(ctx, userID, courseID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, apperrors.NewValidationError("at least one attachment file is required")
	}

	files := make([]models.AttachmentFile, 0, len(uploads))
	stored := make([]string, 0, len(uploads))
	cleanup := func() {
		for _, key := range stored {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("Failed to delete orphaned attachment object")
			}
		}
	}

	for _, upload := range uploads {
		kind, ok := attachmentMimeKinds[upload.ContentType]
		if !ok {
			cleanup()
			return nil, apperrors.NewValidationError("unsupported attachment type: " + upload.ContentType)
		}

		fileID := uuid.New()
		key := attachmentKeyPrefix + fileID.String() + "_" + sanitizeFileName(upload.FileName)
		if err := s.store.Upload(ctx, key, upload.Reader, upload.ContentType); err != nil {
			cleanup()
			return nil, apperrors.NewCustomError(apperrors.ErrServiceFailure, "failed to store attachment")
		}
		stored = append(stored, key)

		files = append(files, models.AttachmentFile{
			ID:         fileID,
			Kind:       kind,
			FileName:   upload.FileName,
			MimeType:   upload.ContentType,
			StorageKey: key,
		})
	}

	section, err := s.courses.AddAttachmentSection(ctx, courseID, files)
	if err != nil {
		cleanup()
		return nil, err
	}

	logger.Info().Int64("courseID", courseID).Int64("sectionID", section.ID).
		Int("files", len(section.Files)).Msg("Attachment section appended")
	return toAttachmentSectionResponse(section), nil
}

func toAttachmentSectionResponse(section *models.AttachmentSection) *dto.AttachmentSectionResponse {
	resp := &dto.AttachmentSectionResponse{
		ID:   section.ID,
		PDF:  []dto.AttachmentFileResponse{},
		Code: []dto.AttachmentFileResponse{},
	}
	for _, f := range section.Files {
		entry := dto.AttachmentFileResponse{
			ID:       f.ID.String(),
			FileName: f.FileName,
			MimeType: f.MimeType,
		}
		if f.Kind == models.AttachmentKindPDF {
			resp.PDF = append(resp.PDF, entry)
		} else {
			resp.Code = append(resp.Code, entry)
		}
	}
	return resp
}

func toCourseResponse(course *models.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Tags:        course.Tags,
		CreatedBy:   dto.OwnerRef{ID: course.CreatedBy, Name: course.CreatedByName},
		Rating:      dto.RatingInfo{Mean: course.RatingMean(), Count: course.RatingCount},
		CreatedAt:   course.CreatedAt,
	}
}

func toCourseResponses(courses []models.Course) []dto.CourseResponse {
	responses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, toCourseResponse(&courses[i]))
	}
	return responses
}

// sanitizeFileName keeps storage keys to a single path segment.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		return "file"
	}
	return name
}
