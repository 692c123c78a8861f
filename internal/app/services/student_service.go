package services

import (
	"context"
	"errors"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/logger"
)

// StudentService implements the student-facing catalog operations: browsing,
// enrollment and rating.
type StudentService struct {
	courses CourseStore
}

// NewStudentService creates a new StudentService
func NewStudentService(courses CourseStore) *StudentService {
	return &StudentService{courses: courses}
}

// ListEnrolled returns the caller's enrolled courses. An empty set is a
// not-found condition, matching the browse contract.
func (s *StudentService) ListEnrolled(ctx context.Context, userID int64) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListEnrolled(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, apperrors.NewNotFoundError("you are not enrolled in any course")
	}
	return toCourseResponses(courses), nil
}

// ListEnrollable returns every course the caller is not yet enrolled in.
func (s *StudentService) ListEnrollable(ctx context.Context, userID int64) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListEnrollable(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// Enroll adds the course to the caller's enrolled set. Enrolling twice fails
// with a validation error.
func (s *StudentService) Enroll(ctx context.Context, userID, courseID int64) error {
	if _, err := s.courses.GetOwnerID(ctx, courseID); err != nil {
		return err
	}
	if err := s.courses.Enroll(ctx, userID, courseID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			return apperrors.NewValidationError("you are already enrolled in this course")
		}
		return err
	}
	logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Enrolled in course")
	return nil
}

// RateCourse applies one rating submission and returns the new mean. The
// aggregate update is a single atomic statement, so concurrent submissions
// never lose a rating.
func (s *StudentService) RateCourse(ctx context.Context, courseID int64, rating int) (*dto.RateCourseResponse, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	sum, count, err := s.courses.AddRating(ctx, courseID, rating)
	if err != nil {
		return nil, err
	}
	return &dto.RateCourseResponse{Rating: float64(sum) / float64(count)}, nil
}
