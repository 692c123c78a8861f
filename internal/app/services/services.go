// Package services implements the application's use cases over narrow store
// interfaces so each service can be exercised against in-memory fakes.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	appauth "github.com/avcode/avcode-backend/internal/app/auth"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/repositories"
	pkgauth "github.com/avcode/avcode-backend/internal/pkg/auth"
	"github.com/avcode/avcode-backend/internal/pkg/objectstore"
)

// UserStore is the account persistence surface used by the auth service.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name, avatarURL string) error
}

// CourseStore is the course persistence surface used by the course, student
// and content services.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Course, error)
	ListEnrolled(ctx context.Context, userID int64) ([]models.Course, error)
	ListEnrollable(ctx context.Context, userID int64) ([]models.Course, error)
	Enroll(ctx context.Context, userID, courseID int64) error
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	AddRating(ctx context.Context, courseID int64, rating int) (sum, count int64, err error)
	AddVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	GetVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (*models.Video, error)
	VideoExists(ctx context.Context, courseID int64, videoID uuid.UUID) (bool, error)
	RemoveVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (string, error)
	AddAttachmentSection(ctx context.Context, courseID int64, files []models.AttachmentFile) (*models.AttachmentSection, error)
	GetContent(ctx context.Context, courseID int64) (*models.CourseContent, error)
}

// CommentStore is the discussion persistence surface used by the comment
// service.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error)
	ListByVideo(ctx context.Context, courseID int64, videoID uuid.UUID) ([]models.Comment, error)
}

// Services is a container for all services
type Services struct {
	AuthService    *AuthService
	CourseService  *CourseService
	StudentService *StudentService
	CommentService *CommentService
	ContentService *ContentService
}

// NewServices wires all services over shared repositories and collaborators.
func NewServices(
	repos *repositories.Repositories,
	jwtService *pkgauth.JWTService,
	verifier GoogleTokenVerifier,
	store objectstore.Store,
	signedURLTTL time.Duration,
) *Services {
	authz := appauth.NewAuthorizationService(repos.CourseRepository)
	return &Services{
		AuthService:    NewAuthService(repos.UserRepository, jwtService, verifier),
		CourseService:  NewCourseService(repos.CourseRepository, authz, store, signedURLTTL),
		StudentService: NewStudentService(repos.CourseRepository),
		CommentService: NewCommentService(repos.CommentRepository, repos.CourseRepository),
		ContentService: NewContentService(repos.CourseRepository, authz, store, signedURLTTL),
	}
}
