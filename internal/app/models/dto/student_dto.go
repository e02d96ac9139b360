package dto

import "time"

// NewUserInput is the identity part of a profile creation request
type NewUserInput struct {
	FirstName string `json:"firstName" binding:"required,max=30"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// CreateStudentRequest creates a user identity and its student profile in one
// operation
type CreateStudentRequest struct {
	User            NewUserInput `json:"user" binding:"required"`
	StudentNumber   string       `json:"studentNumber" binding:"required,studentnumber"`
	EnrollmentDate  *time.Time   `json:"enrollmentDate"`
	AcquiredCredits *int64       `json:"acquiredCredits"`
	CurrentSemester *int64       `json:"currentSemester"`
	EducationLevel  *string      `json:"educationLevel" binding:"omitempty,max=25"`
}

// UpdateStudentRequest updates a student profile and the owned user's names
type UpdateStudentRequest struct {
	FirstName       string     `json:"firstName" binding:"required,max=30"`
	LastName        string     `json:"lastName" binding:"required,max=50"`
	ProfilePicture  *string    `json:"profilePicture"`
	StudentNumber   string     `json:"studentNumber" binding:"required,studentnumber"`
	EnrollmentDate  *time.Time `json:"enrollmentDate"`
	AcquiredCredits *int64     `json:"acquiredCredits"`
	CurrentSemester *int64     `json:"currentSemester"`
	EducationLevel  *string    `json:"educationLevel" binding:"omitempty,max=25"`
	RowVersion      int64      `json:"rowVersion"`
}

// StudentFilter narrows an admin student listing
type StudentFilter struct {
	Name          *string
	StudentNumber *string
}
