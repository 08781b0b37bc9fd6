package dto

// DashboardResponse is the role-specific overview for the authenticated user.
type DashboardResponse struct {
	Role       string               `json:"role"`
	Student    *StudentDashboard    `json:"student,omitempty"`
	Instructor *InstructorDashboard `json:"instructor,omitempty"`
	Admin      *AdminDashboard      `json:"admin,omitempty"`
	CacheHit   bool                 `json:"cache_hit"`
}

// StudentDashboard summarises a student's current term.
type StudentDashboard struct {
	EnrolledCourses     []EnrollmentResponse   `json:"enrolled_courses"`
	AverageGrade        *float64               `json:"average_grade"`
	CompletionRate      int                    `json:"completion_rate"`
	UnreadAnnouncements int64                  `json:"unread_announcements"`
	RecentAnnouncements []AnnouncementResponse `json:"recent_announcements"`
}

// InstructorDashboard summarises an instructor's teaching load.
type InstructorDashboard struct {
	TeachingCourses     []CourseResponse       `json:"teaching_courses"`
	TotalStudents       int64                  `json:"total_students"`
	RecentAnnouncements []AnnouncementResponse `json:"recent_announcements"`
}

// AdminDashboard summarises portal-wide totals.
type AdminDashboard struct {
	UsersByRole   map[string]int64 `json:"users_by_role"`
	ActiveCourses int64            `json:"active_courses"`
	Enrollments   int64            `json:"enrollments"`
}
