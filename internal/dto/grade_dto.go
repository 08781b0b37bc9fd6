package dto

import (
	"time"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// GradeCreateRequest records a score for an enrollment against an assignment.
// Score bounds are checked by the grade book so that out-of-range values
// surface as a domain error rather than a validation failure.
type GradeCreateRequest struct {
	EnrollmentID uint    `json:"enrollment_id" validate:"required"`
	AssignmentID uint    `json:"assignment_id" validate:"required"`
	Score        float64 `json:"score"`
}

// GradeResponse is the serialized representation of a grade.
type GradeResponse struct {
	ID              uint      `json:"id"`
	EnrollmentID    uint      `json:"enrollment_id"`
	AssignmentID    *uint     `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title,omitempty"`
	Score           float64   `json:"score"`
	MaxScore        *float64  `json:"max_score"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// EnrollmentPercentageResponse reports the derived percentage of an enrollment.
// Percentage is null when there is no data to compute it from.
type EnrollmentPercentageResponse struct {
	EnrollmentID uint     `json:"enrollment_id"`
	StudentID    uint     `json:"student_id"`
	CourseID     uint     `json:"course_id"`
	Percentage   *float64 `json:"percentage"`
	HasData      bool     `json:"has_data"`
	GradedCount  int      `json:"graded_count"`
	Policy       string   `json:"policy"`
}

// EnrollmentGrades groups the grades of a single enrollment.
type EnrollmentGrades struct {
	Enrollment EnrollmentResponse `json:"enrollment"`
	Grades     []GradeResponse    `json:"grades"`
	Percentage *float64           `json:"percentage"`
}

// StudentGradesResponse lists a student's grades with per-course averages.
type StudentGradesResponse struct {
	Enrollments    []EnrollmentGrades `json:"enrollments"`
	CourseAverages map[uint]*float64  `json:"course_averages"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(grade models.Grade) GradeResponse {
	response := GradeResponse{
		ID:           grade.ID,
		EnrollmentID: grade.EnrollmentID,
		AssignmentID: grade.AssignmentID,
		Score:        grade.Score,
		SubmittedAt:  grade.SubmittedAt,
	}
	if grade.Assignment != nil {
		response.AssignmentTitle = grade.Assignment.Title
		maxScore := grade.Assignment.MaxScore
		response.MaxScore = &maxScore
	}
	return response
}

// NewGradeResponseSlice converts a slice of models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	out := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		out = append(out, NewGradeResponse(grade))
	}
	return out
}
