package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avcode/avcode-backend/internal/app/controllers"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/app/services"
	"github.com/avcode/avcode-backend/internal/middleware"
	"github.com/avcode/avcode-backend/internal/pkg/auth"
)

// stubServices implements every controller-facing service interface with
// canned responses so the route table can be exercised end to end.
type stubServices struct{}

func (stubServices) LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{Token: "stub-token", ExpiresIn: 3600}, nil
}

func (stubServices) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID, Email: "stub@mnit.ac.in"}, nil
}

func (stubServices) CreateCourse(ctx context.Context, userID int64, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: 1, Title: req.Title}, nil
}

func (stubServices) AddVideo(ctx context.Context, userID, courseID int64, title, description string, upload *services.FileUpload) (*dto.VideoResponse, error) {
	return &dto.VideoResponse{ID: uuid.NewString(), Title: title}, nil
}

func (stubServices) RemoveVideo(ctx context.Context, userID, courseID int64, videoID uuid.UUID) error {
	return nil
}

func (stubServices) VideoPlaybackURL(ctx context.Context, userID, courseID int64, videoID uuid.UUID) (*dto.VideoURLResponse, error) {
	return &dto.VideoURLResponse{URL: "https://storage.example/signed"}, nil
}

func (stubServices) AddAttachmentSection(ctx context.Context, userID, courseID int64, uploads []*services.FileUpload) (*dto.AttachmentSectionResponse, error) {
	return &dto.AttachmentSectionResponse{ID: 1}, nil
}

func (stubServices) ListCreated(ctx context.Context, ownerID int64) ([]dto.CourseResponse, error) {
	return []dto.CourseResponse{}, nil
}

func (stubServices) GetOwnedCourse(ctx context.Context, userID, courseID int64) (*dto.CourseResponse, error) {
	return &dto.CourseResponse{ID: courseID}, nil
}

func (stubServices) ListEnrolled(ctx context.Context, userID int64) ([]dto.CourseResponse, error) {
	return []dto.CourseResponse{}, nil
}

func (stubServices) ListEnrollable(ctx context.Context, userID int64) ([]dto.CourseResponse, error) {
	return []dto.CourseResponse{}, nil
}

func (stubServices) Enroll(ctx context.Context, userID, courseID int64) error {
	return nil
}

func (stubServices) RateCourse(ctx context.Context, courseID int64, rating int) (*dto.RateCourseResponse, error) {
	return &dto.RateCourseResponse{Rating: float64(rating)}, nil
}

func (stubServices) AssembleCourseContent(ctx context.Context, userID, courseID int64) (*dto.CourseContentResponse, error) {
	return &dto.CourseContentResponse{Title: "stub"}, nil
}

func (stubServices) PostComment(ctx context.Context, userID, courseID int64, videoID uuid.UUID, content string) (*dto.CommentResponse, error) {
	return &dto.CommentResponse{ID: 1, Content: content}, nil
}

func (stubServices) PostReply(ctx context.Context, userID, commentID int64, content string) (*dto.CommentResponse, error) {
	return &dto.CommentResponse{ID: commentID}, nil
}

func (stubServices) ListComments(ctx context.Context, courseID int64, videoID uuid.UUID) ([]dto.CommentResponse, error) {
	return []dto.CommentResponse{}, nil
}

func newTestSetup() (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})

	stub := stubServices{}
	ctrl := &controllers.Controllers{
		AuthController:       controllers.NewAuthController(stub),
		CourseController:     controllers.NewCourseController(stub),
		InstructorController: controllers.NewInstructorController(stub),
		StudentController:    controllers.NewStudentController(stub, stub),
		CommentController:    controllers.NewCommentController(stub),
	}

	router := gin.New()
	SetupRouter(router, ctrl, middleware.NewAuthMiddleware(jwtService))
	return router, jwtService
}

func token(t *testing.T, svc *auth.JWTService, roles ...string) string {
	t.Helper()
	signed, _, err := svc.GenerateToken(&models.User{ID: 9, Email: "t@mnit.ac.in", Roles: roles})
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(router *gin.Engine, method, path, authHeader string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPingIsPublic(t *testing.T) {
	router, _ := newTestSetup()
	w := doRequest(router, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestGoogleLoginIsPublic(t *testing.T) {
	router, _ := newTestSetup()
	w := doRequest(router, http.MethodPost, "/auth/google", "", `{"idToken":"x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stub-token")
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	router, _ := newTestSetup()
	for _, path := range []string{"/auth/me", "/instructor/courses", "/student/enrolled"} {
		w := doRequest(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestInstructorRoutesRequireInstructorRole(t *testing.T) {
	router, jwtService := newTestSetup()

	w := doRequest(router, http.MethodPost, "/course/createcourse",
		token(t, jwtService, models.RoleStudent), `{"title":"Go"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/course/createcourse",
		token(t, jwtService, models.RoleStudent, models.RoleInstructor), `{"title":"Go"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStudentRoutesRequireStudentRole(t *testing.T) {
	router, jwtService := newTestSetup()

	w := doRequest(router, http.MethodPost, "/student/enroll/3",
		token(t, jwtService, models.RoleStudent), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/student/course/3/rate",
		token(t, jwtService, models.RoleStudent), `{"rating":5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":5`)
}

func TestCommentRoutesOpenToAnyAuthenticatedRole(t *testing.T) {
	router, jwtService := newTestSetup()
	videoID := uuid.NewString()

	w := doRequest(router, http.MethodPost, "/comment/course/3/video/"+videoID+"/comment",
		token(t, jwtService, models.RoleStudent), `{"content":"hi"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, "/comment/course/3/video/"+videoID+"/comments",
		token(t, jwtService, models.RoleInstructor), "")
	assert.Equal(t, http.StatusOK, w.Code)
}
