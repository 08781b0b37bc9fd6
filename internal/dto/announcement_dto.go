package dto

import (
	"time"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// AnnouncementCreateRequest describes an instructor announcement.
type AnnouncementCreateRequest struct {
	CourseID  uint       `json:"course_id" validate:"required"`
	Title     string     `json:"title" validate:"required,max=200"`
	Content   string     `json:"content" validate:"required,max=10000"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AnnouncementResponse represents an announcement as seen by a viewer.
type AnnouncementResponse struct {
	ID           uint       `json:"id"`
	CourseID     uint       `json:"course_id"`
	CourseCode   string     `json:"course_code,omitempty"`
	CourseName   string     `json:"course_name,omitempty"`
	InstructorID uint       `json:"instructor_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	IsActive     bool       `json:"is_active"`
	IsRead       bool       `json:"is_read"`
}

// NewAnnouncementResponse converts a model into a DTO.
func NewAnnouncementResponse(item models.Announcement, isRead bool) AnnouncementResponse {
	response := AnnouncementResponse{
		ID:           item.ID,
		CourseID:     item.CourseID,
		InstructorID: item.InstructorID,
		Title:        item.Title,
		Content:      item.Content,
		CreatedAt:    item.CreatedAt,
		ExpiresAt:    item.ExpiresAt,
		IsActive:     item.IsActive,
		IsRead:       isRead,
	}
	if item.Course != nil {
		response.CourseCode = item.Course.Code
		response.CourseName = item.Course.Name
	}
	return response
}
