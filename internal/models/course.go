package models

import "time"

// Course is a unit of study offered in the catalog.
type Course struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Code         string       `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string       `gorm:"size:200;not null" json:"name"`
	Description  *string      `gorm:"type:text" json:"description"`
	InstructorID *uint        `gorm:"index" json:"instructor_id"`
	IsActive     bool         `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Instructor   *User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"instructor,omitempty"`
	Assignments  []Assignment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Label renders the course as "CODE - Name".
func (c Course) Label() string {
	return c.Code + " - " + c.Name
}

// IsTaughtBy reports whether the given user instructs the course.
func (c Course) IsTaughtBy(userID uint) bool {
	return c.InstructorID != nil && *c.InstructorID == userID
}

// Assignment is graded work belonging to a course.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null;index" json:"due_date"`
	MaxScore    float64   `gorm:"type:decimal(5,2);not null" json:"max_score"`
	Weight      float64   `gorm:"type:decimal(5,2);not null" json:"weight"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Course      *Course   `json:"course,omitempty"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
