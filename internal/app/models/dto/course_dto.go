package dto

// CreateCourseRequest creates a course
type CreateCourseRequest struct {
	Title           string  `json:"title" binding:"required,max=100"`
	Credits         int64   `json:"credits"`
	Semester        int64   `json:"semester"`
	Programme       *string `json:"programme" binding:"omitempty,max=100"`
	EducationLevel  *string `json:"educationLevel" binding:"omitempty,max=25"`
	FirstTeacherID  *int64  `json:"firstTeacherId"`
	SecondTeacherID *int64  `json:"secondTeacherId"`
}

// UpdateCourseRequest updates course fields and optionally reconciles the
// roster. A nil Students slice leaves the roster untouched; a non-empty
// slice is treated as the full target set of enrolled student ids.
type UpdateCourseRequest struct {
	Title           string  `json:"title" binding:"required,max=100"`
	Credits         int64   `json:"credits"`
	Semester        int64   `json:"semester"`
	Programme       *string `json:"programme" binding:"omitempty,max=100"`
	EducationLevel  *string `json:"educationLevel" binding:"omitempty,max=25"`
	FirstTeacherID  *int64  `json:"firstTeacherId"`
	SecondTeacherID *int64  `json:"secondTeacherId"`
	Students        []int64 `json:"students"`
	RowVersion      int64   `json:"rowVersion"`
}

// CourseFilter narrows a course listing; TeacherID also carries the
// authorization scope for teacher callers
type CourseFilter struct {
	Title     *string
	Semester  *int64
	Programme *string
	TeacherID *int64
}
