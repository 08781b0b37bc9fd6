package models

import "time"

// Announcement is an instructor-authored notice scoped to a course.
type Announcement struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CourseID     uint       `gorm:"not null;index" json:"course_id"`
	InstructorID uint       `gorm:"not null;index" json:"instructor_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	Course       *Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course,omitempty"`
	Instructor   *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"instructor,omitempty"`
}

// IsExpired reports whether the announcement expired at or before the reference time.
func (a Announcement) IsExpired(reference time.Time) bool {
	return a.ExpiresAt != nil && !reference.Before(*a.ExpiresAt)
}

// AnnouncementRead records that a user has read an announcement.
type AnnouncementRead struct {
	AnnouncementID uint      `gorm:"primaryKey;autoIncrement:false" json:"announcement_id"`
	UserID         uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	ReadAt         time.Time `gorm:"not null;autoCreateTime" json:"read_at"`
}
