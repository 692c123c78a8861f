package dto

import "time"

// PostCommentRequest is the body of comment and reply submissions.
type PostCommentRequest struct {
	Content string `json:"content"`
}

// AuthorRef is the author projection: display name and avatar only.
type AuthorRef struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// ReplyResponse is a single reply in insertion order.
type ReplyResponse struct {
	ID        int64     `json:"id"`
	Author    AuthorRef `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentResponse is a comment with its full reply list.
type CommentResponse struct {
	ID        int64           `json:"id"`
	VideoID   string          `json:"videoId"`
	Author    AuthorRef       `json:"author"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	Replies   []ReplyResponse `json:"replies"`
}
