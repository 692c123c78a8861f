package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// CommentService implements the discussion operations. Any authenticated
// identity may read and write; there is no enrollment check on discussion.
type CommentService struct {
	comments CommentStore
	courses  CourseStore
}

// NewCommentService creates a new CommentService
func NewCommentService(comments CommentStore, courses CourseStore) *CommentService {
	return &CommentService{
		comments: comments,
		courses:  courses,
	}
}

// PostComment appends a top-level comment to a video's discussion. The video
// must belong to the course.
func (s *CommentService) PostComment(ctx context.Context, userID, courseID int64, videoID uuid.UUID, content string) (*dto.CommentResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("comment content is required")
	}
	exists, err := s.courses.VideoExists(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrVideoNotFound
	}

	comment, err := s.comments.Create(ctx, &models.Comment{
		CourseID: courseID,
		VideoID:  videoID,
		AuthorID: userID,
		Content:  strings.TrimSpace(content),
	})
	if err != nil {
		return nil, err
	}
	resp := toCommentResponse(comment)
	return &resp, nil
}

// PostReply appends a reply to an existing comment and returns the full
// updated comment with every reply in insertion order.
func (s *CommentService) PostReply(ctx context.Context, userID, commentID int64, content string) (*dto.CommentResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("reply content is required")
	}
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	if _, err := s.comments.AddReply(ctx, &models.Reply{
		CommentID: commentID,
		AuthorID:  userID,
		Content:   strings.TrimSpace(content),
	}); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	resp := toCommentResponse(comment)
	return &resp, nil
}

// ListComments returns a video's discussion, comments and replies both oldest
// first, with authors reduced to their display projection.
func (s *CommentService) ListComments(ctx context.Context, courseID int64, videoID uuid.UUID) ([]dto.CommentResponse, error) {
	exists, err := s.courses.VideoExists(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrVideoNotFound
	}

	comments, err := s.comments.ListByVideo(ctx, courseID, videoID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}
	return responses, nil
}

func toCommentResponse(comment *models.Comment) dto.CommentResponse {
	replies := make([]dto.ReplyResponse, 0, len(comment.Replies))
	for _, r := range comment.Replies {
		replies = append(replies, dto.ReplyResponse{
			ID:        r.ID,
			Author:    dto.AuthorRef{Name: r.AuthorName, AvatarURL: r.AuthorAvatarURL},
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return dto.CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID.String(),
		Author:    dto.AuthorRef{Name: comment.AuthorName, AvatarURL: comment.AuthorAvatarURL},
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Replies:   replies,
	}
}
