// Package auth holds the resource-level authorization checks shared by the
// service layer. Role checks gate route groups in middleware; the checks here
// gate individual courses by ownership or enrollment.
package auth

import (
	"context"

	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// CourseAccessor is the course lookup surface authorization depends on.
type CourseAccessor interface {
	GetOwnerID(ctx context.Context, courseID int64) (int64, error)
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
}

// AuthorizationService evaluates per-course access rules.
type AuthorizationService struct {
	courses CourseAccessor
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courses CourseAccessor) *AuthorizationService {
	return &AuthorizationService{courses: courses}
}

// RequireOwnership fails with a not-found error when the course does not
// exist and a permission error when the caller is not its owner. Mutating a
// course's content always passes through this check first.
func (s *AuthorizationService) RequireOwnership(ctx context.Context, userID, courseID int64) error {
	ownerID, err := s.courses.GetOwnerID(ctx, courseID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return apperrors.NewForbiddenError("you do not own this course")
	}
	return nil
}

// RequireEnrollment fails with a permission error when the caller is not
// enrolled in the course. Content assembly and playback-URL minting never
// reach the signing collaborator for callers that fail this check.
func (s *AuthorizationService) RequireEnrollment(ctx context.Context, userID, courseID int64) error {
	enrolled, err := s.courses.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.NewForbiddenError("you are not enrolled in this course")
	}
	return nil
}

// HasAnyRole reports whether the two role sets intersect.
func HasAnyRole(roles []string, allowed ...string) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
