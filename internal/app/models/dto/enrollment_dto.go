package dto

import "time"

// CreateEnrollmentRequest enrolls a student into a course
type CreateEnrollmentRequest struct {
	CourseID         int64      `json:"courseId" binding:"required"`
	StudentID        int64      `json:"studentId" binding:"required"`
	Semester         *string    `json:"semester" binding:"omitempty,max=10"`
	Year             *int64     `json:"year"`
	Grade            *int64     `json:"grade"`
	SeminalURL       *string    `json:"seminalUrl" binding:"omitempty,max=255"`
	ProjectURL       *string    `json:"projectUrl" binding:"omitempty,max=255"`
	ExamPoints       *int64     `json:"examPoints"`
	SeminalPoints    *int64     `json:"seminalPoints"`
	ProjectPoints    *int64     `json:"projectPoints"`
	AdditionalPoints *int64     `json:"additionalPoints"`
	FinishDate       *time.Time `json:"finishDate"`
}

// UpdateEnrollmentRequest rewrites an enrollment's grading data
type UpdateEnrollmentRequest struct {
	CourseID         int64      `json:"courseId" binding:"required"`
	StudentID        int64      `json:"studentId" binding:"required"`
	Semester         *string    `json:"semester" binding:"omitempty,max=10"`
	Year             *int64     `json:"year"`
	Grade            *int64     `json:"grade"`
	SeminalURL       *string    `json:"seminalUrl" binding:"omitempty,max=255"`
	ProjectURL       *string    `json:"projectUrl" binding:"omitempty,max=255"`
	ExamPoints       *int64     `json:"examPoints"`
	SeminalPoints    *int64     `json:"seminalPoints"`
	ProjectPoints    *int64     `json:"projectPoints"`
	AdditionalPoints *int64     `json:"additionalPoints"`
	FinishDate       *time.Time `json:"finishDate"`
	RowVersion       int64      `json:"rowVersion"`
}

// EnrollmentFilter narrows an enrollment listing; StudentID also carries the
// authorization scope for student callers
type EnrollmentFilter struct {
	CourseID  *int64
	StudentID *int64
	Year      *int64
}

// EnrollmentFeedItem is one row of the legacy read-only enrollment feed.
// Field names and nullability are part of the wire contract and must not
// change; nullable fields serialize as JSON null, never as absent keys.
type EnrollmentFeedItem struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Semester   *string    `json:"semester"`
	Year       *int64     `json:"year"`
	Grade      *int64     `json:"grade"`
	FinishDate *time.Time `json:"finishDate"`
}
