package services

import (
	"context"
	"strings"
	"time"

	appauth "github.com/avcode/avcode-backend/internal/app/auth"
	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
)

// testEnv wires the services over the shared in-memory fakes.
type testEnv struct {
	store   *memStore
	objects *fakeObjectStore

	courseSvc  *CourseService
	studentSvc *StudentService
	commentSvc *CommentService
	contentSvc *ContentService

	instructor *models.User
	student    *models.User
}

func newTestEnv() *testEnv {
	store := newMemStore()
	objects := newFakeObjectStore()
	courses := fakeCourses{m: store}
	authz := appauth.NewAuthorizationService(courses)

	return &testEnv{
		store:      store,
		objects:    objects,
		courseSvc:  NewCourseService(courses, authz, objects, 5*time.Minute),
		studentSvc: NewStudentService(courses),
		commentSvc: NewCommentService(fakeComments{m: store}, courses),
		contentSvc: NewContentService(courses, authz, objects, 5*time.Minute),
		instructor: store.addUser("Asha", "asha@mnit.ac.in", models.RoleStudent, models.RoleInstructor),
		student:    store.addUser("Ravi", "ravi@mnit.ac.in", models.RoleStudent),
	}
}

func (e *testEnv) createCourse(ctx context.Context, title string) *dto.CourseResponse {
	course, err := e.courseSvc.CreateCourse(ctx, e.instructor.ID, &dto.CreateCourseRequest{
		Title:       title,
		Description: "Learn " + title + " from scratch",
		Tags:        []string{"programming"},
	})
	if err != nil {
		panic(err)
	}
	return course
}

func (e *testEnv) addVideo(ctx context.Context, courseID int64, title string) *dto.VideoResponse {
	video, err := e.courseSvc.AddVideo(ctx, e.instructor.ID, courseID, title, "", &FileUpload{
		FileName:    strings.ReplaceAll(title, " ", "_") + ".mp4",
		ContentType: "video/mp4",
		Reader:      strings.NewReader("frames"),
	})
	if err != nil {
		panic(err)
	}
	return video
}
