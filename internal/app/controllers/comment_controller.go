package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// DiscussionService is the comment surface the controller depends on.
type DiscussionService interface {
	PostComment(ctx context.Context, userID, courseID int64, videoID uuid.UUID, content string) (*dto.CommentResponse, error)
	PostReply(ctx context.Context, userID, commentID int64, content string) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, courseID int64, videoID uuid.UUID) ([]dto.CommentResponse, error)
}

// CommentController handles video discussions
type CommentController struct {
	commentService DiscussionService
}

// NewCommentController creates a new comment controller
func NewCommentController(commentService DiscussionService) *CommentController {
	return &CommentController{commentService: commentService}
}

// PostComment appends a top-level comment to a video's discussion.
func (c *CommentController) PostComment(ctx *gin.Context) {
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

	var req dto.PostCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	comment, err := c.commentService.PostComment(ctx.Request.Context(), userID, courseID, videoID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

// PostReply appends a reply and returns the full updated comment.
func (c *CommentController) PostReply(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	commentID, err := strconv.ParseInt(ctx.Param("commentId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "comment ID must be a valid number"})
		return
	}

	var req dto.PostCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	comment, err := c.commentService.PostReply(ctx.Request.Context(), userID, commentID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comment)
}

// ListComments returns a video's discussion in creation order.
func (c *CommentController) ListComments(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
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

	comments, err := c.commentService.ListComments(ctx.Request.Context(), courseID, videoID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}
