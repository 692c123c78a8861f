package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/dberrors"
	"github.com/avcode/avcode-backend/internal/pkg/logger"
)

// CourseRepository handles course, enrollment and content database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CourseRepository) courseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.title", "c.description", "c.tags", "c.created_by",
		"u.name AS created_by_name", "c.rating_sum", "c.rating_count", "c.created_at",
	).
		From("courses c").
		Join("users u ON c.created_by = u.id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Tags, &c.CreatedBy,
		&c.CreatedByName, &c.RatingSum, &c.RatingCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, qb squirrel.SelectBuilder) ([]models.Course, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return courses, nil
}

// Create inserts a new course. Ownership is a column of the course row, so
// creation and owner linkage commit atomically.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, tags, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, rating_sum, rating_count, created_at`,
		course.Title, course.Description, course.Tags, course.CreatedBy)

	created := *course
	if err := row.Scan(&created.ID, &created.RatingSum, &created.RatingCount, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return &created, nil
}

// GetByID retrieves a course with its owner name.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.courseSelect().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}
	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// GetOwnerID returns the owning account of a course.
func (r *CourseRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.db.QueryRow(ctx, `SELECT created_by FROM courses WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrCourseNotFound
		}
		return 0, fmt.Errorf("failed to fetch course owner: %w", err)
	}
	return ownerID, nil
}

// ListByOwner returns the courses created by an account, oldest first.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Course, error) {
	return r.queryCourses(ctx, r.courseSelect().
		Where(squirrel.Eq{"c.created_by": ownerID}).
		OrderBy("c.id"))
}

// ListEnrolled returns the courses an account is enrolled in, in enrollment
// order.
func (r *CourseRepository) ListEnrolled(ctx context.Context, userID int64) ([]models.Course, error) {
	return r.queryCourses(ctx, r.courseSelect().
		Join("enrollments e ON e.course_id = c.id").
		Where(squirrel.Eq{"e.user_id": userID}).
		OrderBy("e.created_at"))
}

// ListEnrollable returns all courses minus the account's enrolled set.
func (r *CourseRepository) ListEnrollable(ctx context.Context, userID int64) ([]models.Course, error) {
	return r.queryCourses(ctx, r.courseSelect().
		Where(squirrel.Expr(
			"c.id NOT IN (SELECT course_id FROM enrollments WHERE user_id = ?)", userID)).
		OrderBy("c.id"))
}

// Enroll records an enrollment. A duplicate enrollment maps to
// apperrors.ErrAlreadyEnrolled via the primary-key constraint.
func (r *CourseRepository) Enroll(ctx context.Context, userID, courseID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2)`, userID, courseID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_pkey") {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// IsEnrolled reports whether an account is enrolled in a course.
func (r *CourseRepository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var enrolled bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID).Scan(&enrolled)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrolled, nil
}

// AddRating applies one rating submission as a single atomic update so
// concurrent raters cannot lose updates. Returns the new aggregate.
func (r *CourseRepository) AddRating(ctx context.Context, courseID int64, rating int) (sum, count int64, err error) {
	err = r.db.QueryRow(ctx, `
		UPDATE courses
		SET rating_sum = rating_sum + $1, rating_count = rating_count + 1
		WHERE id = $2
		RETURNING rating_sum, rating_count`,
		rating, courseID).Scan(&sum, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, apperrors.ErrCourseNotFound
		}
		return 0, 0, fmt.Errorf("failed to apply rating: %w", err)
	}
	return sum, count, nil
}

// AddVideo appends a video at the next position of the course's ordered list.
// The course row is locked for the duration of the transaction so concurrent
// appends cannot compute the same position.
func (r *CourseRepository) AddVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error().Err(rbErr).Msg("Failed to rollback video insert")
			}
		}
	}()

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`,
		video.CourseID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to lock course: %w", err)
	}

	added := *video
	err = tx.QueryRow(ctx, `
		INSERT INTO course_videos (id, course_id, title, description, storage_key, position)
		SELECT $1, $2, $3, $4, $5, COALESCE(MAX(position) + 1, 0)
		FROM course_videos WHERE course_id = $2
		RETURNING position, created_at`,
		video.ID.String(), video.CourseID, video.Title, video.Description, video.StorageKey).
		Scan(&added.Position, &added.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert video: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit video insert: %w", err)
	}
	return &added, nil
}

// GetVideo retrieves a single video entry of a course.
func (r *CourseRepository) GetVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (*models.Video, error) {
	var v models.Video
	var id string
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, description, storage_key, position, created_at
		FROM course_videos WHERE course_id = $1 AND id = $2`,
		courseID, videoID.String()).
		Scan(&id, &v.CourseID, &v.Title, &v.Description, &v.StorageKey, &v.Position, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	v.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse video id: %w", err)
	}
	return &v, nil
}

// VideoExists reports whether the video belongs to the course.
func (r *CourseRepository) VideoExists(ctx context.Context, courseID int64, videoID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_videos WHERE course_id = $1 AND id = $2)`,
		courseID, videoID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return exists, nil
}

// RemoveVideo splices a video out of the ordered list: entries after it shift
// down one position in the same transaction. Returns the storage key of the
// removed video so the caller can clean up the stored object.
func (r *CourseRepository) RemoveVideo(ctx context.Context, courseID int64, videoID uuid.UUID) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error().Err(rbErr).Msg("Failed to rollback video removal")
			}
		}
	}()

	var storageKey string
	var position int
	err = tx.QueryRow(ctx, `
		DELETE FROM course_videos WHERE course_id = $1 AND id = $2
		RETURNING storage_key, position`,
		courseID, videoID.String()).Scan(&storageKey, &position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrVideoNotFound
		}
		return "", fmt.Errorf("failed to delete video: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE course_videos SET position = position - 1
		WHERE course_id = $1 AND position > $2`,
		courseID, position)
	if err != nil {
		return "", fmt.Errorf("failed to shift video positions: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit video removal: %w", err)
	}
	return storageKey, nil
}

// AddAttachmentSection appends a section with its files in one transaction.
func (r *CourseRepository) AddAttachmentSection(ctx context.Context, courseID int64, files []models.AttachmentFile) (*models.AttachmentSection, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error().Err(rbErr).Msg("Failed to rollback attachment insert")
			}
		}
	}()

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`,
		courseID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to lock course: %w", err)
	}

	section := models.AttachmentSection{CourseID: courseID}
	err = tx.QueryRow(ctx, `
		INSERT INTO attachment_sections (course_id, position)
		SELECT $1, COALESCE(MAX(position) + 1, 0)
		FROM attachment_sections WHERE course_id = $1
		RETURNING id, position, created_at`,
		courseID).Scan(&section.ID, &section.Position, &section.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert attachment section: %w", err)
	}

	for i := range files {
		f := files[i]
		f.SectionID = section.ID
		f.Position = i
		_, err = tx.Exec(ctx, `
			INSERT INTO attachment_files (id, section_id, kind, file_name, mime_type, storage_key, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.ID.String(), f.SectionID, f.Kind, f.FileName, f.MimeType, f.StorageKey, f.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to insert attachment file: %w", err)
		}
		section.Files = append(section.Files, f)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attachment insert: %w", err)
	}
	return &section, nil
}

// GetContent loads the full content block of a course: ordered videos plus
// ordered attachment sections with their files. Storage keys stay internal to
// the returned models.
func (r *CourseRepository) GetContent(ctx context.Context, courseID int64) (*models.CourseContent, error) {
	content := &models.CourseContent{CourseID: courseID}

	err := r.db.QueryRow(ctx, `SELECT title FROM courses WHERE id = $1`, courseID).Scan(&content.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, description, storage_key, position, created_at
		FROM course_videos WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v models.Video
		var id string
		if err := rows.Scan(&id, &v.CourseID, &v.Title, &v.Description, &v.StorageKey, &v.Position, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		if v.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse video id: %w", err)
		}
		content.Videos = append(content.Videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	sections, err := r.loadAttachmentSections(ctx, courseID)
	if err != nil {
		return nil, err
	}
	content.Sections = sections
	return content, nil
}

func (r *CourseRepository) loadAttachmentSections(ctx context.Context, courseID int64) ([]models.AttachmentSection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, position, created_at
		FROM attachment_sections WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment sections: %w", err)
	}
	defer rows.Close()

	var sections []models.AttachmentSection
	index := map[int64]int{}
	for rows.Next() {
		var s models.AttachmentSection
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Position, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment section: %w", err)
		}
		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment sections: %w", err)
	}
	if len(sections) == 0 {
		return sections, nil
	}

	ids := make([]int64, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}

	fileRows, err := r.db.Query(ctx, `
		SELECT id, section_id, kind, file_name, mime_type, storage_key, position
		FROM attachment_files WHERE section_id = ANY($1) ORDER BY section_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment files: %w", err)
	}
	defer fileRows.Close()

	for fileRows.Next() {
		var f models.AttachmentFile
		var id string
		if err := fileRows.Scan(&id, &f.SectionID, &f.Kind, &f.FileName, &f.MimeType, &f.StorageKey, &f.Position); err != nil {
			return nil, fmt.Errorf("failed to scan attachment file: %w", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse attachment file id: %w", err)
		}
		i := index[f.SectionID]
		sections[i].Files = append(sections[i].Files, f)
	}
	if err := fileRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment files: %w", err)
	}
	return sections, nil
}
