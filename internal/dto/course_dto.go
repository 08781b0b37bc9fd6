package dto

import (
	"time"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Code         string  `json:"code" validate:"required,max=20"`
	Name         string  `json:"name" validate:"required,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	InstructorID *uint   `json:"instructor_id"`
	IsActive     *bool   `json:"is_active"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Code            *string `json:"code" validate:"omitempty,max=20"`
	Name            *string `json:"name" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	InstructorID    *uint   `json:"instructor_id"`
	ClearInstructor bool    `json:"clear_instructor"`
	IsActive        *bool   `json:"is_active"`
}

// CourseListRequest filters the administrator course listing.
type CourseListRequest struct {
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}

// CourseResponse is the serialized representation of a course.
type CourseResponse struct {
	ID           uint         `json:"id"`
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Description  *string      `json:"description"`
	InstructorID *uint        `json:"instructor_id"`
	Instructor   *UserSummary `json:"instructor,omitempty"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CourseListResponse wraps a paginated course listing.
type CourseListResponse struct {
	Items      []CourseResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID,
		Code:         course.Code,
		Name:         course.Name,
		Description:  course.Description,
		InstructorID: course.InstructorID,
		Instructor:   NewUserSummary(course.Instructor),
		IsActive:     course.IsActive,
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, NewCourseResponse(course))
	}
	return out
}

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxScore    float64   `json:"max_score" validate:"gte=0,lte=999.99"`
	Weight      *float64  `json:"weight" validate:"omitempty,gte=0,lte=999.99"`
	IsActive    *bool     `json:"is_active"`
}

// AssignmentUpdateRequest describes a partial assignment update.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    *float64   `json:"max_score" validate:"omitempty,gte=0,lte=999.99"`
	Weight      *float64   `json:"weight" validate:"omitempty,gte=0,lte=999.99"`
	IsActive    *bool      `json:"is_active"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
	MaxScore    float64   `json:"max_score"`
	Weight      float64   `json:"weight"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		MaxScore:    model.MaxScore,
		Weight:      model.Weight,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
