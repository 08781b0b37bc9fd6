package repository

import (
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// visibleCourseIDs returns a subquery selecting the course ids the viewer may see.
// A nil result means the viewer sees every course.
func visibleCourseIDs(db *gorm.DB, viewer models.Viewer) (*gorm.DB, bool) {
	switch viewer.Role.Scope() {
	case models.ScopeEnrolled:
		return db.Model(&models.Enrollment{}).
			Select("course_id").
			Where("student_id = ? AND is_active = ?", viewer.ID, true), true
	case models.ScopeTaught:
		return db.Model(&models.Course{}).
			Select("id").
			Where("instructor_id = ?", viewer.ID), true
	case models.ScopeAll:
		return nil, false
	default:
		return db.Model(&models.Course{}).Select("id").Where("1 = 0"), true
	}
}
