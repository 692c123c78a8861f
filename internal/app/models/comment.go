package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a top-level discussion entry scoped to a (course, video) pair.
// Comments are never edited or deleted.
type Comment struct {
	ID              int64     `json:"id" db:"id"`
	CourseID        int64     `json:"courseId" db:"course_id"`
	VideoID         uuid.UUID `json:"videoId" db:"video_id"`
	AuthorID        int64     `json:"-" db:"author_id"`
	AuthorName      string    `json:"authorName" db:"author_name"`
	AuthorAvatarURL string    `json:"authorAvatarUrl" db:"author_avatar_url"`
	Content         string    `json:"content" db:"content"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	Replies         []Reply   `json:"replies"`
}

// Reply is an append-only entry on a comment, kept in insertion order.
type Reply struct {
	ID              int64     `json:"id" db:"id"`
	CommentID       int64     `json:"-" db:"comment_id"`
	AuthorID        int64     `json:"-" db:"author_id"`
	AuthorName      string    `json:"authorName" db:"author_name"`
	AuthorAvatarURL string    `json:"authorAvatarUrl" db:"author_avatar_url"`
	Content         string    `json:"content" db:"content"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
