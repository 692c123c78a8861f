package dto

import "time"

// CreateCourseRequest is the body of POST /course/createcourse.
type CreateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// OwnerRef is the owning-account projection embedded in course responses.
type OwnerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RatingInfo is the derived rating aggregate of a course.
type RatingInfo struct {
	Mean  float64 `json:"mean"`
	Count int64   `json:"count"`
}

// CourseResponse is the course metadata projection. It never carries content
// storage keys.
type CourseResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	CreatedBy   OwnerRef   `json:"createdBy"`
	Rating      RatingInfo `json:"rating"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// VideoResponse is returned after a video upload.
type VideoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// AttachmentFileResponse describes one stored attachment file.
type AttachmentFileResponse struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// AttachmentSectionResponse is returned after an attachment upload.
type AttachmentSectionResponse struct {
	ID   int64                    `json:"id"`
	PDF  []AttachmentFileResponse `json:"pdf"`
	Code []AttachmentFileResponse `json:"code"`
}

// VideoURLResponse carries a time-limited playback URL.
type VideoURLResponse struct {
	URL string `json:"url"`
}

// RateCourseRequest is the body of POST /student/course/:courseId/rate.
type RateCourseRequest struct {
	Rating int `json:"rating"`
}

// RateCourseResponse returns the new mean after a rating submission.
type RateCourseResponse struct {
	Rating float64 `json:"rating"`
}
