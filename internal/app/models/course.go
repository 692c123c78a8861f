package models

import (
	"time"

	"github.com/google/uuid"
)

// Course defines the course model based on the 'courses' table. The rating
// aggregate (sum, count) is mutated with a single atomic update per rating
// submission; the mean is always derived.
type Course struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	Tags          []string  `json:"tags" db:"tags"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"`
	CreatedByName string    `json:"createdByName,omitempty" db:"created_by_name"`
	RatingSum     int64     `json:"-" db:"rating_sum"`
	RatingCount   int64     `json:"ratingCount" db:"rating_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// RatingMean derives the mean rating, 0 when the course is unrated.
func (c *Course) RatingMean() float64 {
	if c.RatingCount == 0 {
		return 0
	}
	return float64(c.RatingSum) / float64(c.RatingCount)
}

// Video is an entry of a course's ordered video list. The storage key is a
// server-internal object locator and must never be serialized to clients.
type Video struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StorageKey  string    `json:"-" db:"storage_key"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Attachment file kinds
const (
	AttachmentKindPDF  = "pdf"
	AttachmentKindCode = "code"
)

// AttachmentSection groups the document and code files uploaded together.
type AttachmentSection struct {
	ID        int64            `json:"id" db:"id"`
	CourseID  int64            `json:"courseId" db:"course_id"`
	Position  int              `json:"position" db:"position"`
	Files     []AttachmentFile `json:"files"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// AttachmentFile is a single stored document or code file within a section.
type AttachmentFile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SectionID  int64     `json:"sectionId" db:"section_id"`
	Kind       string    `json:"kind" db:"kind"`
	FileName   string    `json:"fileName" db:"file_name"`
	MimeType   string    `json:"mimeType" db:"mime_type"`
	StorageKey string    `json:"-" db:"storage_key"`
	Position   int       `json:"position" db:"position"`
}

// CourseContent is the stored content block of a course: the ordered video
// list plus the ordered attachment sections.
type CourseContent struct {
	CourseID int64
	Title    string
	Videos   []Video
	Sections []AttachmentSection
}
