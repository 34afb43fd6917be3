package domain

import (
	"time"
)

// User is a registered delegate or an administrator.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FullName       string    `db:"full_name" json:"full_name"`
	Institution    string    `db:"institution" json:"institution"`
	Phone          string    `db:"phone" json:"phone"`
	RegistrationID string    `db:"registration_id" json:"registration_id"`
	Role           UserRole  `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Abstract is a submitted research summary under review.
type Abstract struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	AbstractNumber   string         `db:"abstract_number" json:"abstract_number"`
	Title            string         `db:"title" json:"title"`
	PresenterName    string         `db:"presenter_name" json:"presenter_name"`
	InstitutionName  string         `db:"institution_name" json:"institution_name"`
	Category         Category       `db:"category" json:"category"`
	Content          string         `db:"abstract_content" json:"abstract_content"`
	CoAuthors        string         `db:"co_authors" json:"co_authors"`
	Status           AbstractStatus `db:"status" json:"status"`
	ReviewerComments *string        `db:"reviewer_comments" json:"reviewer_comments"`
	RegistrationID   string         `db:"registration_id" json:"registration_id"`
	FinalFileKey     *string        `db:"final_file_key" json:"-"`
	FinalFileName    *string        `db:"final_file_name" json:"final_file_name"`
	FinalFileSize    *int64         `db:"final_file_size" json:"final_file_size"`
	SubmissionDate   time.Time      `db:"submission_date" json:"submission_date"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// AbstractWithOwner is an abstract joined to its submitting user's contact fields.
type AbstractWithOwner struct {
	Abstract
	Email         string `db:"email" json:"email"`
	Phone         string `db:"phone" json:"phone"`
	OwnerFullName string `db:"owner_full_name" json:"owner_full_name"`
}

// AbstractFilter narrows admin listings and exports.
type AbstractFilter struct {
	Status   AbstractStatus
	Category Category
}

// StatusChange is a single review transition applied by the store.
type StatusChange struct {
	AbstractID int64
	Status     AbstractStatus
	Comments   *string
	ActorID    *int64
	At         time.Time
}

// BulkStatusChange is a batch transition applied in one transaction.
type BulkStatusChange struct {
	IDs      []int64
	Status   AbstractStatus
	Comments *string
	ActorID  *int64
	At       time.Time
}

// StatusUpdate is a row affected by a bulk transition.
type StatusUpdate struct {
	ID            int64          `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	PresenterName string         `db:"presenter_name" json:"presenter_name"`
	OldStatus     AbstractStatus `db:"old_status" json:"old_status"`
	Status        AbstractStatus `db:"status" json:"status"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// StatusHistoryEntry records one status mutation.
type StatusHistoryEntry struct {
	ID         int64          `db:"id" json:"id"`
	AbstractID int64          `db:"abstract_id" json:"abstract_id"`
	OldStatus  AbstractStatus `db:"old_status" json:"old_status"`
	NewStatus  AbstractStatus `db:"new_status" json:"new_status"`
	Comments   *string        `db:"comments" json:"comments"`
	ChangedBy  *int64         `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time      `db:"changed_at" json:"changed_at"`
}

// FinalSubmission carries the stored object for an approved abstract.
type FinalSubmission struct {
	AbstractID int64
	UserID     int64
	FileKey    string
	FileName   string
	FileSize   int64
	At         time.Time
}

// StatusCounts holds per-status tallies.
type StatusCounts struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Approved       int `json:"approved"`
	Rejected       int `json:"rejected"`
	FinalSubmitted int `json:"final_submitted"`
}

// Stats is the aggregate view over all abstracts.
type Stats struct {
	StatusCounts
	ByCategory map[Category]StatusCounts `json:"by_category"`
}
