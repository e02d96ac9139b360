package models

import "time"

// Enrollment links one student to one course for one academic term and
// carries the grading data. The (StudentID, CourseID) pair is unique.
type Enrollment struct {
	ID               int64      `json:"id" db:"id"`
	CourseID         int64      `json:"courseId" db:"course_id"`
	StudentID        int64      `json:"studentId" db:"student_id"`
	Semester         *string    `json:"semester,omitempty" db:"semester"`
	Year             *int64     `json:"year,omitempty" db:"year"`
	Grade            *int64     `json:"grade,omitempty" db:"grade"`
	SeminalURL       *string    `json:"seminalUrl,omitempty" db:"seminal_url"`
	ProjectURL       *string    `json:"projectUrl,omitempty" db:"project_url"`
	ExamPoints       *int64     `json:"examPoints,omitempty" db:"exam_points"`
	SeminalPoints    *int64     `json:"seminalPoints,omitempty" db:"seminal_points"`
	ProjectPoints    *int64     `json:"projectPoints,omitempty" db:"project_points"`
	AdditionalPoints *int64     `json:"additionalPoints,omitempty" db:"additional_points"`
	FinishDate       *time.Time `json:"finishDate,omitempty" db:"finish_date"`
	RowVersion       int64      `json:"rowVersion" db:"row_version"`

	// Relations (populated when needed)
	Course  *Course  `json:"course,omitempty"`
	Student *Student `json:"student,omitempty"`
}
