package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is a container for all repositories
type Repositories struct {
	UserRepository    *UserRepository
	CourseRepository  *CourseRepository
	CommentRepository *CommentRepository
}

// NewRepositories creates all repositories over a shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		CourseRepository:  NewCourseRepository(db),
		CommentRepository: NewCommentRepository(db),
	}
}
