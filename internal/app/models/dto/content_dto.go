package dto

// ContentVideo is a video entry of the assembled content tree. URL is a
// time-limited signed link, never a storage key.
type ContentVideo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ContentFile is a resolved attachment file.
type ContentFile struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url"`
}

// ContentAttachmentSection groups resolved files by kind, in stored order.
type ContentAttachmentSection struct {
	PDF  []ContentFile `json:"pdf"`
	Code []ContentFile `json:"code"`
}

// CourseContentResponse is the assembled content tree returned to an enrolled
// student.
type CourseContentResponse struct {
	Title       string                     `json:"title"`
	Videos      []ContentVideo             `json:"videos"`
	Attachments []ContentAttachmentSection `json:"attachments"`
}
