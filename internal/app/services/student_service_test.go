package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

func TestListEnrolledEmptyIsNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.studentSvc.ListEnrolled(ctx, env.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEnrollMovesCourseBetweenLists(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	courseA := env.createCourse(ctx, "Calculus")
	courseB := env.createCourse(ctx, "Linear Algebra")

	all, err := env.studentSvc.ListEnrollable(ctx, env.student.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, env.studentSvc.Enroll(ctx, env.student.ID, courseA.ID))

	enrolled, err := env.studentSvc.ListEnrolled(ctx, env.student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, courseA.ID, enrolled[0].ID)

	remaining, err := env.studentSvc.ListEnrollable(ctx, env.student.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, courseB.ID, remaining[0].ID)
}

func TestEnrollTwiceFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	course := env.createCourse(ctx, "Statistics")

	require.NoError(t, env.studentSvc.Enroll(ctx, env.student.ID, course.ID))
	err := env.studentSvc.Enroll(ctx, env.student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// The enrolled set is unchanged.
	enrolled, err := env.studentSvc.ListEnrolled(ctx, env.student.ID)
	require.NoError(t, err)
	assert.Len(t, enrolled, 1)
}

func TestEnrollMissingCourse(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.studentSvc.Enroll(ctx, env.student.ID, 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestRateCourseValidatesRange(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	course := env.createCourse(ctx, "Physics")

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := env.studentSvc.RateCourse(ctx, course.ID, rating)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "rating %d must be rejected", rating)
	}
}

func TestRateCourseReturnsNewMean(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	course := env.createCourse(ctx, "Chemistry")

	resp, err := env.studentSvc.RateCourse(ctx, course.ID, 4)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, resp.Rating, 1e-9)

	resp, err = env.studentSvc.RateCourse(ctx, course.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, resp.Rating, 1e-9)

	course2, err := env.courseSvc.GetOwnedCourse(ctx, env.instructor.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), course2.Rating.Count)
	assert.InDelta(t, 3.0, course2.Rating.Mean, 1e-9)
}

func TestRateCourseMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.studentSvc.RateCourse(ctx, 404, 5)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestConcurrentRatingsLoseNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	course := env.createCourse(ctx, "Concurrency")

	const raters = 20
	var wg sync.WaitGroup
	wg.Add(raters)
	for i := 0; i < raters; i++ {
		rating := i%5 + 1
		go func() {
			defer wg.Done()
			_, err := env.studentSvc.RateCourse(ctx, course.ID, rating)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	result, err := env.courseSvc.GetOwnedCourse(ctx, env.instructor.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(raters), result.Rating.Count, "every concurrent rating must be counted")
}
