package dto

import (
	"time"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// UserCreateRequest registers a new portal user.
type UserCreateRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=150"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	FirstName      string  `json:"first_name" validate:"omitempty,max=150"`
	LastName       string  `json:"last_name" validate:"omitempty,max=150"`
	Role           string  `json:"role" validate:"required,oneof=student instructor admin"`
	StudentID      *string `json:"student_id" validate:"omitempty,max=20"`
	ProgramOfStudy *string `json:"program_of_study" validate:"omitempty,max=100"`
	YearOfStudy    *int    `json:"year_of_study" validate:"omitempty,min=1,max=10"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=20"`
}

// UserProfileUpdateRequest updates contact and preference fields. Role is not editable.
type UserProfileUpdateRequest struct {
	Email              *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName          *string `json:"first_name" validate:"omitempty,max=150"`
	LastName           *string `json:"last_name" validate:"omitempty,max=150"`
	ProgramOfStudy     *string `json:"program_of_study" validate:"omitempty,max=100"`
	YearOfStudy        *int    `json:"year_of_study" validate:"omitempty,min=1,max=10"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,max=20"`
	Bio                *string `json:"bio" validate:"omitempty,max=2000"`
	Language           *string `json:"language" validate:"omitempty,min=2,max=10"`
	Timezone           *string `json:"timezone" validate:"omitempty,max=50"`
	EmailNotifications *bool   `json:"email_notifications"`
}

// UserListRequest filters the administrator user listing.
type UserListRequest struct {
	Role     string `validate:"omitempty,oneof=student instructor admin"`
	Search   string
	Page     int
	PageSize int
}

// UserResponse is the serialized representation of a user.
type UserResponse struct {
	ID                 uint      `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	FullName           string    `json:"full_name"`
	Role               string    `json:"role"`
	StudentID          *string   `json:"student_id,omitempty"`
	ProgramOfStudy     *string   `json:"program_of_study,omitempty"`
	YearOfStudy        *int      `json:"year_of_study,omitempty"`
	PhoneNumber        *string   `json:"phone_number,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	Language           string    `json:"language"`
	Timezone           string    `json:"timezone"`
	EmailNotifications bool      `json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
}

// UserListResponse wraps a paginated user listing.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// UserSummary is the compact form embedded in other resources.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		FullName:           user.FullName(),
		Role:               string(user.Role),
		StudentID:          user.StudentNumber,
		ProgramOfStudy:     user.ProgramOfStudy,
		YearOfStudy:        user.YearOfStudy,
		PhoneNumber:        user.PhoneNumber,
		Bio:                user.Bio,
		Language:           user.Language,
		Timezone:           user.Timezone,
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

// NewUserSummary converts a user into its compact form, returning nil for nil input.
func NewUserSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{ID: user.ID, Username: user.Username, FullName: user.FullName()}
}
