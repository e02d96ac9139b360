package models

import "time"

// Teacher defines the teacher profile based on the 'teachers' table.
// UserID is unique: a user owns at most one teacher row.
type Teacher struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Degree       *string    `json:"degree,omitempty" db:"degree"`
	AcademicRank *string    `json:"academicRank,omitempty" db:"academic_rank"`
	OfficeNumber *string    `json:"officeNumber,omitempty" db:"office_number"`
	HireDate     *time.Time `json:"hireDate,omitempty" db:"hire_date"`
	RowVersion   int64      `json:"rowVersion" db:"row_version"`

	// Relation (populated when needed)
	User *User `json:"user,omitempty"`
}
