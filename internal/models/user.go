package models

import "time"

// Role identifies which portal capabilities a user holds.
type Role string

// Supported roles.
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// VisibilityScope describes which courses a role can see content for.
type VisibilityScope int

const (
	// ScopeNone grants no course visibility.
	ScopeNone VisibilityScope = iota
	// ScopeEnrolled limits visibility to courses with an active enrollment.
	ScopeEnrolled
	// ScopeTaught limits visibility to courses the user instructs.
	ScopeTaught
	// ScopeAll grants visibility over every course.
	ScopeAll
)

// ParseRole normalises a raw role value, reporting whether it is known.
func ParseRole(value string) (Role, bool) {
	role := Role(normalize(value))
	return role, role.Valid()
}

// Valid reports whether the role is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Scope returns the course visibility granted to the role.
func (r Role) Scope() VisibilityScope {
	switch r {
	case RoleStudent:
		return ScopeEnrolled
	case RoleInstructor:
		return ScopeTaught
	case RoleAdmin:
		return ScopeAll
	default:
		return ScopeNone
	}
}

// CanEnroll reports whether the role may self-enroll into courses.
func (r Role) CanEnroll() bool {
	return r == RoleStudent
}

// CanTeach reports whether the role may manage course content.
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}

// Viewer is the authenticated user a query runs on behalf of.
type Viewer struct {
	ID   uint
	Role Role
}

// User represents a person registered in the portal.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email              string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName          string    `gorm:"size:150" json:"first_name"`
	LastName           string    `gorm:"size:150" json:"last_name"`
	Role               Role      `gorm:"size:20;not null;default:student;index" json:"role"`
	StudentNumber      *string   `gorm:"column:student_id;size:20" json:"student_id"`
	ProgramOfStudy     *string   `gorm:"size:100" json:"program_of_study"`
	YearOfStudy        *int      `json:"year_of_study"`
	PhoneNumber        *string   `gorm:"size:20" json:"phone_number"`
	Bio                *string   `gorm:"type:text" json:"bio"`
	Language           string    `gorm:"size:10;not null;default:en" json:"language"`
	Timezone           string    `gorm:"size:50;not null;default:UTC" json:"timezone"`
	EmailNotifications bool      `gorm:"not null" json:"email_notifications"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FullName returns the display name of the user, falling back to the username.
func (u User) FullName() string {
	full := normalizeSpaces(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// Viewer returns the identity used for role-scoped queries.
func (u User) Viewer() Viewer {
	return Viewer{ID: u.ID, Role: u.Role}
}
