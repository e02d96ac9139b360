package dto

import "time"

// CreateTeacherRequest creates a user identity and its teacher profile in one
// operation
type CreateTeacherRequest struct {
	User         NewUserInput `json:"user" binding:"required"`
	Degree       *string      `json:"degree" binding:"omitempty,max=50"`
	AcademicRank *string      `json:"academicRank" binding:"omitempty,max=25"`
	OfficeNumber *string      `json:"officeNumber" binding:"omitempty,max=10"`
	HireDate     *time.Time   `json:"hireDate"`
}

// UpdateTeacherRequest updates a teacher profile and the owned user's names
type UpdateTeacherRequest struct {
	FirstName    string     `json:"firstName" binding:"required,max=30"`
	LastName     string     `json:"lastName" binding:"required,max=50"`
	Degree       *string    `json:"degree" binding:"omitempty,max=50"`
	AcademicRank *string    `json:"academicRank" binding:"omitempty,max=25"`
	OfficeNumber *string    `json:"officeNumber" binding:"omitempty,max=10"`
	HireDate     *time.Time `json:"hireDate"`
	RowVersion   int64      `json:"rowVersion"`
}

// TeacherFilter narrows an admin teacher listing
type TeacherFilter struct {
	Name   *string
	Degree *string
	Rank   *string
}
