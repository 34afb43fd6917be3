package domain

// AbstractStatus is the review state of an abstract.
type AbstractStatus string

const (
	StatusPending        AbstractStatus = "pending"
	StatusApproved       AbstractStatus = "approved"
	StatusRejected       AbstractStatus = "rejected"
	StatusFinalSubmitted AbstractStatus = "final_submitted"
)

// ValidAbstractStatuses lists every status an abstract row may hold.
var ValidAbstractStatuses = map[AbstractStatus]bool{
	StatusPending:        true,
	StatusApproved:       true,
	StatusRejected:       true,
	StatusFinalSubmitted: true,
}

// ReviewTargetStatuses lists the statuses a review transition may target.
// final_submitted is reached only through the final upload path.
var ReviewTargetStatuses = map[AbstractStatus]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// IsReviewTarget reports whether s is a valid target for a review transition.
func (s AbstractStatus) IsReviewTarget() bool {
	return ReviewTargetStatuses[s]
}

// Category is the presentation category chosen at submission.
type Category string

const (
	CategoryFreePaper  Category = "Free Paper"
	CategoryPoster     Category = "Poster"
	CategoryEPoster    Category = "E-Poster"
	CategoryAwardPaper Category = "Award Paper"
)

// Categories is the fixed category vocabulary in display order.
var Categories = []Category{
	CategoryFreePaper,
	CategoryPoster,
	CategoryEPoster,
	CategoryAwardPaper,
}

// ValidCategories is the set form of Categories.
var ValidCategories = map[Category]bool{
	CategoryFreePaper:  true,
	CategoryPoster:     true,
	CategoryEPoster:    true,
	CategoryAwardPaper: true,
}

// UserRole defines what an authenticated user may do.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleDelegate UserRole = "delegate"
)

// ValidUserRoles maps valid role strings for validation.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:    true,
	RoleDelegate: true,
}

// EmailType selects the notification flow of the email endpoint.
type EmailType string

const (
	EmailTypeStatusUpdate     EmailType = "status_update"
	EmailTypeBulkStatusUpdate EmailType = "bulk_status_update"
	EmailTypeTest             EmailType = "test"
)

// FileType represents the allowed file types for final uploads.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypePPT  FileType = "ppt"
	FileTypePPTX FileType = "pptx"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"ppt":  FileTypePPT,
	"pptx": FileTypePPTX,
}

// ContentTypes maps FileType to the MIME type stored with the object.
var ContentTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypePPT:  "application/vnd.ms-powerpoint",
	FileTypePPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}
