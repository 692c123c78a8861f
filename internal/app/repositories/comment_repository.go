package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// CommentRepository handles comment and reply database operations
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a top-level comment and returns it with its author profile.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	created := *comment
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (course_id, video_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at,
			(SELECT name FROM users WHERE id = $3),
			(SELECT avatar_url FROM users WHERE id = $3)`,
		comment.CourseID, comment.VideoID.String(), comment.AuthorID, comment.Content).
		Scan(&created.ID, &created.CreatedAt, &created.AuthorName, &created.AuthorAvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	created.Replies = []models.Reply{}
	return &created, nil
}

// GetByID retrieves a comment with its author profile and ordered replies.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	var rawVideoID string
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.course_id, c.video_id, c.author_id, u.name, u.avatar_url, c.content, c.created_at
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.id = $1`, id).
		Scan(&c.ID, &c.CourseID, &rawVideoID, &c.AuthorID, &c.AuthorName, &c.AuthorAvatarURL, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to fetch comment: %w", err)
	}
	if c.VideoID, err = uuid.Parse(rawVideoID); err != nil {
		return nil, fmt.Errorf("failed to parse video id: %w", err)
	}

	replies, err := r.loadReplies(ctx, []int64{c.ID})
	if err != nil {
		return nil, err
	}
	c.Replies = replies[c.ID]
	if c.Replies == nil {
		c.Replies = []models.Reply{}
	}
	return &c, nil
}

// AddReply appends a reply to an existing comment.
func (r *CommentRepository) AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	created := *reply
	err := r.db.QueryRow(ctx, `
		INSERT INTO comment_replies (comment_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at,
			(SELECT name FROM users WHERE id = $2),
			(SELECT avatar_url FROM users WHERE id = $2)`,
		reply.CommentID, reply.AuthorID, reply.Content).
		Scan(&created.ID, &created.CreatedAt, &created.AuthorName, &created.AuthorAvatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}
	return &created, nil
}

// ListByVideo returns a video's comments oldest first, each with its replies
// oldest first.
func (r *CommentRepository) ListByVideo(ctx context.Context, courseID int64, videoID uuid.UUID) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.course_id, c.video_id, c.author_id, u.name, u.avatar_url, c.content, c.created_at
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.course_id = $1 AND c.video_id = $2
		ORDER BY c.created_at, c.id`, courseID, videoID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	var ids []int64
	index := map[int64]int{}
	for rows.Next() {
		var c models.Comment
		var rawVideoID string
		if err := rows.Scan(&c.ID, &c.CourseID, &rawVideoID, &c.AuthorID, &c.AuthorName, &c.AuthorAvatarURL, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if c.VideoID, err = uuid.Parse(rawVideoID); err != nil {
			return nil, fmt.Errorf("failed to parse video id: %w", err)
		}
		c.Replies = []models.Reply{}
		index[c.ID] = len(comments)
		ids = append(ids, c.ID)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	if len(comments) == 0 {
		return comments, nil
	}

	replies, err := r.loadReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	for commentID, group := range replies {
		comments[index[commentID]].Replies = group
	}
	return comments, nil
}

func (r *CommentRepository) loadReplies(ctx context.Context, commentIDs []int64) (map[int64][]models.Reply, error) {
	rows, err := r.db.Query(ctx, `
		SELECT rp.id, rp.comment_id, rp.author_id, u.name, u.avatar_url, rp.content, rp.created_at
		FROM comment_replies rp
		JOIN users u ON rp.author_id = u.id
		WHERE rp.comment_id = ANY($1)
		ORDER BY rp.created_at, rp.id`, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	grouped := map[int64][]models.Reply{}
	for rows.Next() {
		var rep models.Reply
		if err := rows.Scan(&rep.ID, &rep.CommentID, &rep.AuthorID, &rep.AuthorName, &rep.AuthorAvatarURL, &rep.Content, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		grouped[rep.CommentID] = append(grouped[rep.CommentID], rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate replies: %w", err)
	}
	return grouped, nil
}
