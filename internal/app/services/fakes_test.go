package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// memStore is an in-memory implementation of UserStore, CourseStore and
// CommentStore shared by the service tests.
type memStore struct {
	mu sync.Mutex

	nextUserID    int64
	nextCourseID  int64
	nextSectionID int64
	nextCommentID int64
	nextReplyID   int64
	clock         time.Time

	users       map[int64]*models.User
	courses     map[int64]*models.Course
	enrollments []enrollment
	videos      map[int64][]models.Video
	sections    map[int64][]models.AttachmentSection
	comments    []models.Comment
	replies     []models.Reply
}

type enrollment struct {
	userID   int64
	courseID int64
	at       time.Time
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[int64]*models.User{},
		courses:  map[int64]*models.Course{},
		videos:   map[int64][]models.Video{},
		sections: map[int64][]models.AttachmentSection{},
	}
}

// tick returns a strictly increasing timestamp so insertion order is always
// observable through CreatedAt.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addUser(name, email string, roles ...string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	user := &models.User{
		ID:        m.nextUserID,
		Email:     email,
		Name:      name,
		AvatarURL: "https://avatars.example/" + name,
		Roles:     roles,
		CreatedAt: m.tick(),
	}
	m.users[user.ID] = user
	return user
}

// --- UserStore ---

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	created := *user
	created.ID = m.nextUserID
	created.CreatedAt = m.tick()
	m.users[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) UpdateProfile(ctx context.Context, id int64, name, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Name = name
	user.AvatarURL = avatarURL
	return nil
}

// --- CourseStore ---

func (m *memStore) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCourseID++
	created := *course
	created.ID = m.nextCourseID
	created.CreatedAt = m.tick()
	m.courses[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	if owner, ok := m.users[course.CreatedBy]; ok {
		copied.CreatedByName = owner.Name
	}
	return &copied, nil
}

func (m *memStore) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return 0, apperrors.ErrCourseNotFound
	}
	return course.CreatedBy, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID int64) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for id := int64(1); id <= m.nextCourseID; id++ {
		if course, ok := m.courses[id]; ok && course.CreatedBy == ownerID {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *memStore) ListEnrolled(ctx context.Context, userID int64) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for _, e := range m.enrollments {
		if e.userID == userID {
			if course, ok := m.courses[e.courseID]; ok {
				out = append(out, *course)
			}
		}
	}
	return out, nil
}

func (m *memStore) ListEnrollable(ctx context.Context, userID int64) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Course
	for id := int64(1); id <= m.nextCourseID; id++ {
		course, ok := m.courses[id]
		if !ok {
			continue
		}
		enrolled := false
		for _, e := range m.enrollments {
			if e.userID == userID && e.courseID == id {
				enrolled = true
				break
			}
		}
		if !enrolled {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *memStore) Enroll(ctx context.Context, userID, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.userID == userID && e.courseID == courseID {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	m.enrollments = append(m.enrollments, enrollment{userID: userID, courseID: courseID, at: m.tick()})
	return nil
}

func (m *memStore) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.userID == userID && e.courseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) AddRating(ctx context.Context, courseID int64, rating int) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[courseID]
	if !ok {
		return 0, 0, apperrors.ErrCourseNotFound
	}
	course.RatingSum += int64(rating)
	course.RatingCount++
	return course.RatingSum, course.RatingCount, nil
}

func (m *memStore) AddVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := *video
	added.Position = len(m.videos[video.CourseID])
	added.CreatedAt = m.tick()
	m.videos[video.CourseID] = append(m.videos[video.CourseID], added)
	copied := added
	return &copied, nil
}

func (m *memStore) GetVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.videos[courseID] {
		if v.ID == videoID {
			copied := v
			return &copied, nil
		}
	}
	return nil, apperrors.ErrVideoNotFound
}

func (m *memStore) VideoExists(ctx context.Context, courseID int64, videoID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.videos[courseID] {
		if v.ID == videoID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) RemoveVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.videos[courseID]
	for i, v := range list {
		if v.ID == videoID {
			key := v.StorageKey
			list = append(list[:i], list[i+1:]...)
			for j := range list {
				list[j].Position = j
			}
			m.videos[courseID] = list
			return key, nil
		}
	}
	return "", apperrors.ErrVideoNotFound
}

func (m *memStore) AddAttachmentSection(ctx context.Context, courseID int64, files []models.AttachmentFile) (*models.AttachmentSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSectionID++
	section := models.AttachmentSection{
		ID:        m.nextSectionID,
		CourseID:  courseID,
		Position:  len(m.sections[courseID]),
		CreatedAt: m.tick(),
	}
	for i, f := range files {
		f.SectionID = section.ID
		f.Position = i
		section.Files = append(section.Files, f)
	}
	m.sections[courseID] = append(m.sections[courseID], section)
	copied := section
	return &copied, nil
}

func (m *memStore) GetContent(ctx context.Context, courseID int64) (*models.CourseContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	content := &models.CourseContent{
		CourseID: courseID,
		Title:    course.Title,
		Videos:   append([]models.Video(nil), m.videos[courseID]...),
		Sections: append([]models.AttachmentSection(nil), m.sections[courseID]...),
	}
	return content, nil
}

// --- CommentStore ---

func (m *memStore) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCommentID++
	created := *comment
	created.ID = m.nextCommentID
	created.CreatedAt = m.tick()
	if author, ok := m.users[comment.AuthorID]; ok {
		created.AuthorName = author.Name
		created.AuthorAvatarURL = author.AvatarURL
	}
	created.Replies = []models.Reply{}
	m.comments = append(m.comments, created)
	copied := created
	return &copied, nil
}

func (m *memStore) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			copied := c
			copied.Replies = m.repliesFor(id)
			return &copied, nil
		}
	}
	return nil, apperrors.ErrCommentNotFound
}

func (m *memStore) AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReplyID++
	created := *reply
	created.ID = m.nextReplyID
	created.CreatedAt = m.tick()
	if author, ok := m.users[reply.AuthorID]; ok {
		created.AuthorName = author.Name
		created.AuthorAvatarURL = author.AvatarURL
	}
	m.replies = append(m.replies, created)
	copied := created
	return &copied, nil
}

func (m *memStore) ListByVideo(ctx context.Context, courseID int64, videoID uuid.UUID) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.CourseID == courseID && c.VideoID == videoID {
			copied := c
			copied.Replies = m.repliesFor(c.ID)
			out = append(out, copied)
		}
	}
	return out, nil
}

func (m *memStore) repliesFor(commentID int64) []models.Reply {
	out := []models.Reply{}
	for _, r := range m.replies {
		if r.CommentID == commentID {
			out = append(out, r)
		}
	}
	return out
}

// fakeCourses adapts memStore to the CourseStore interface. The adapter is
// needed because the user and course stores both name their lookup methods
// Create and GetByID.
type fakeCourses struct{ m *memStore }

func (f fakeCourses) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	return f.m.CreateCourse(ctx, course)
}

func (f fakeCourses) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return f.m.GetCourseByID(ctx, id)
}

func (f fakeCourses) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return f.m.GetOwnerID(ctx, id)
}

func (f fakeCourses) ListByOwner(ctx context.Context, ownerID int64) ([]models.Course, error) {
	return f.m.ListByOwner(ctx, ownerID)
}

func (f fakeCourses) ListEnrolled(ctx context.Context, userID int64) ([]models.Course, error) {
	return f.m.ListEnrolled(ctx, userID)
}

func (f fakeCourses) ListEnrollable(ctx context.Context, userID int64) ([]models.Course, error) {
	return f.m.ListEnrollable(ctx, userID)
}

func (f fakeCourses) Enroll(ctx context.Context, userID, courseID int64) error {
	return f.m.Enroll(ctx, userID, courseID)
}

func (f fakeCourses) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	return f.m.IsEnrolled(ctx, userID, courseID)
}

func (f fakeCourses) AddRating(ctx context.Context, courseID int64, rating int) (int64, int64, error) {
	return f.m.AddRating(ctx, courseID, rating)
}

func (f fakeCourses) AddVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	return f.m.AddVideo(ctx, video)
}

func (f fakeCourses) GetVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (*models.Video, error) {
	return f.m.GetVideo(ctx, courseID, videoID)
}

func (f fakeCourses) VideoExists(ctx context.Context, courseID int64, videoID uuid.UUID) (bool, error) {
	return f.m.VideoExists(ctx, courseID, videoID)
}

func (f fakeCourses) RemoveVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (string, error) {
	return f.m.RemoveVideo(ctx, courseID, videoID)
}

func (f fakeCourses) AddAttachmentSection(ctx context.Context, courseID int64, files []models.AttachmentFile) (*models.AttachmentSection, error) {
	return f.m.AddAttachmentSection(ctx, courseID, files)
}

func (f fakeCourses) GetContent(ctx context.Context, courseID int64) (*models.CourseContent, error) {
	return f.m.GetContent(ctx, courseID)
}

// fakeComments adapts memStore to the CommentStore interface.
type fakeComments struct{ m *memStore }

func (f fakeComments) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	return f.m.CreateComment(ctx, comment)
}

func (f fakeComments) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return f.m.GetCommentByID(ctx, id)
}

func (f fakeComments) AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	return f.m.AddReply(ctx, reply)
}

func (f fakeComments) ListByVideo(ctx context.Context, courseID int64, videoID uuid.UUID) ([]models.Comment, error) {
	return f.m.ListByVideo(ctx, courseID, videoID)
}

// fakeObjectStore is an in-memory objectstore.Store that records uploads and
// deletes and mints deterministic signed URLs.
type fakeObjectStore struct {
	mu        sync.Mutex
	objects   map[string]string
	deleted   []string
	signCalls int
	signErr   error
	uploadErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]string{}}
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	f.objects[key] = contentType
	return nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) SignedURL(key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://storage.example/%s?expires=%d", key, int(ttl.Seconds())), nil
}
