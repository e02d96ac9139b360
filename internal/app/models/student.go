package models

import "time"

// Student defines the student profile based on the 'students' table.
// UserID is unique: a user owns at most one student row.
type Student struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"userId" db:"user_id"`
	StudentNumber   string     `json:"studentNumber" db:"student_number"`
	EnrollmentDate  *time.Time `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	AcquiredCredits *int64     `json:"acquiredCredits,omitempty" db:"acquired_credits"`
	CurrentSemester *int64     `json:"currentSemester,omitempty" db:"current_semester"`
	EducationLevel  *string    `json:"educationLevel,omitempty" db:"education_level"`
	RowVersion      int64      `json:"rowVersion" db:"row_version"`

	// Relation (populated when needed)
	User *User `json:"user,omitempty"`
}
