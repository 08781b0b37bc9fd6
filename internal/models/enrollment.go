package models

import "time"

// Enrollment links one student to one course.
type Enrollment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	CourseID       uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course;index" json:"course_id"`
	EnrollmentDate time.Time `gorm:"not null;autoCreateTime" json:"enrollment_date"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	Student        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student,omitempty"`
	Course         *Course   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
	Grades         []Grade   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Grade is a score recorded against an enrollment for one assignment.
type Grade struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	EnrollmentID uint        `gorm:"not null;uniqueIndex:idx_grade_enrollment_assignment" json:"enrollment_id"`
	AssignmentID *uint       `gorm:"uniqueIndex:idx_grade_enrollment_assignment;index" json:"assignment_id"`
	Score        float64     `gorm:"type:decimal(5,2);not null" json:"score"`
	SubmittedAt  time.Time   `gorm:"not null;autoCreateTime" json:"submitted_at"`
	Assignment   *Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment,omitempty"`
}

// MaxScore returns the maximum score of the referenced assignment, if loaded.
func (g Grade) MaxScore() (float64, bool) {
	if g.Assignment == nil {
		return 0, false
	}
	return g.Assignment.MaxScore, true
}
