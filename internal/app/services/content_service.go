package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	appauth "github.com/avcode/avcode-backend/internal/app/auth"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/objectstore"
)

// signingConcurrency bounds the parallel signed-URL fan-out per request.
const signingConcurrency = 8

// ContentService assembles the full content tree of a course for an enrolled
// student: metadata plus a time-limited signed URL for every video and
// attachment file.
type ContentService struct {
	courses      CourseStore
	authz        *appauth.AuthorizationService
	store        objectstore.Store
	signedURLTTL time.Duration
}

// NewContentService creates a new ContentService
func NewContentService(courses CourseStore, authz *appauth.AuthorizationService, store objectstore.Store, signedURLTTL time.Duration) *ContentService {
	return &ContentService{
		courses:      courses,
		authz:        authz,
		store:        store,
		signedURLTTL: signedURLTTL,
	}
}

// AssembleCourseContent checks enrollment, loads the stored content block and
// resolves every storage key to a signed URL concurrently. Signing failures
// fail the whole request; a partially-signed tree is never returned. The
// response preserves the stored list order.
func (s *ContentService) AssembleCourseContent(ctx context.Context, userID, courseID int64) (*dto.CourseContentResponse, error) {
	if err := s.authz.RequireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	content, err := s.courses.GetContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CourseContentResponse{
		Title:       content.Title,
		Videos:      make([]dto.ContentVideo, len(content.Videos)),
		Attachments: make([]dto.ContentAttachmentSection, len(content.Sections)),
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(signingConcurrency)

	for i := range content.Videos {
		video := content.Videos[i]
		slot := &resp.Videos[i]
		g.Go(func() error {
			url, err := s.store.SignedURL(video.StorageKey, s.signedURLTTL)
			if err != nil {
				return err
			}
			*slot = dto.ContentVideo{
				ID:          video.ID.String(),
				Title:       video.Title,
				Description: video.Description,
				URL:         url,
			}
			return nil
		})
	}

	for i := range content.Sections {
		section := content.Sections[i]
		slot := &resp.Attachments[i]

		pdf, code := splitByKind(section.Files)
		slot.PDF = make([]dto.ContentFile, len(pdf))
		slot.Code = make([]dto.ContentFile, len(code))
		s.signFiles(g, pdf, slot.PDF)
		s.signFiles(g, code, slot.Code)
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceFailure, "failed to sign content URLs")
	}
	return resp, nil
}

func splitByKind(files []models.AttachmentFile) (pdf, code []models.AttachmentFile) {
	for _, f := range files {
		if f.Kind == models.AttachmentKindPDF {
			pdf = append(pdf, f)
		} else {
			code = append(code, f)
		}
	}
	return pdf, code
}

func (s *ContentService) signFiles(g *errgroup.Group, files []models.AttachmentFile, out []dto.ContentFile) {
	for i := range files {
		file := files[i]
		slot := &out[i]
		g.Go(func() error {
			url, err := s.store.SignedURL(file.StorageKey, s.signedURLTTL)
			if err != nil {
				return err
			}
			*slot = dto.ContentFile{
				ID:       file.ID.String(),
				FileName: file.FileName,
				MimeType: file.MimeType,
				URL:      url,
			}
			return nil
		})
	}
}
