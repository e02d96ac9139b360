package models

// Course represents a taught course. A course has exactly two optional
// teacher slots, not a teacher collection; both slots are independent and
// nullable.
type Course struct {
	ID              int64   `json:"id" db:"id"`
	Title           string  `json:"title" db:"title"`
	Credits         int64   `json:"credits" db:"credits"`
	Semester        int64   `json:"semester" db:"semester"`
	Programme       *string `json:"programme,omitempty" db:"programme"`
	EducationLevel  *string `json:"educationLevel,omitempty" db:"education_level"`
	FirstTeacherID  *int64  `json:"firstTeacherId,omitempty" db:"first_teacher_id"`
	SecondTeacherID *int64  `json:"secondTeacherId,omitempty" db:"second_teacher_id"`
	RowVersion      int64   `json:"rowVersion" db:"row_version"`

	// Relations (populated when needed)
	FirstTeacher  *Teacher `json:"firstTeacher,omitempty"`
	SecondTeacher *Teacher `json:"secondTeacher,omitempty"`
}

// HasTeacher reports whether the teacher occupies either slot.
func (c *Course) HasTeacher(teacherID int64) bool {
	if c.FirstTeacherID != nil && *c.FirstTeacherID == teacherID {
		return true
	}
	if c.SecondTeacherID != nil && *c.SecondTeacherID == teacherID {
		return true
	}
	return false
}
