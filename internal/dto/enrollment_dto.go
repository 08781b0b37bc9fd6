package dto

import (
	"time"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// EnrollmentResponse is the serialized representation of an enrollment.
type EnrollmentResponse struct {
	ID             uint            `json:"id"`
	StudentID      uint            `json:"student_id"`
	CourseID       uint            `json:"course_id"`
	Course         *CourseResponse `json:"course,omitempty"`
	EnrollmentDate time.Time       `json:"enrollment_date"`
	IsActive       bool            `json:"is_active"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(enrollment models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:             enrollment.ID,
		StudentID:      enrollment.StudentID,
		CourseID:       enrollment.CourseID,
		EnrollmentDate: enrollment.EnrollmentDate,
		IsActive:       enrollment.IsActive,
	}
	if enrollment.Course != nil {
		course := NewCourseResponse(*enrollment.Course)
		response.Course = &course
	}
	return response
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		out = append(out, NewEnrollmentResponse(enrollment))
	}
	return out
}
