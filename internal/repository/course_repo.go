package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// CourseFilter describes catalog listing options.
type CourseFilter struct {
	ActiveOnly   bool
	InstructorID *uint
	Search       string
	Page         int
	PageSize     int
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	ListVisible(ctx context.Context, viewer models.Viewer) ([]models.Course, error)
	ListAvailable(ctx context.Context, studentID uint) ([]models.Course, error)
	CountActive(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Course{}).Preload("Instructor")
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.baseQuery(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Instructor", "Assignments").Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit("Instructor", "Assignments").Save(course).Error
}

// Delete removes the course together with everything it owns.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Select("id").First(&course, id).Error; err != nil {
			return err
		}

		enrollmentIDs := tx.Model(&models.Enrollment{}).Select("id").Where("course_id = ?", id)
		assignmentIDs := tx.Model(&models.Assignment{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("enrollment_id IN (?) OR assignment_id IN (?)", enrollmentIDs, assignmentIDs).
			Delete(&models.Grade{}).Error; err != nil {
			return err
		}

		announcementIDs := tx.Model(&models.Announcement{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("announcement_id IN (?)", announcementIDs).Delete(&models.AnnouncementRead{}).Error; err != nil {
			return err
		}

		for _, owned := range []interface{}{&models.Announcement{}, &models.Enrollment{}, &models.Assignment{}} {
			if err := tx.Where("course_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if filter.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filter.InstructorID)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []models.Course
	if err := paginate(query, filter.Page, filter.PageSize).
		Preload("Instructor").
		Order("created_at DESC, id DESC").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) ListVisible(ctx context.Context, viewer models.Viewer) ([]models.Course, error) {
	query := r.baseQuery(ctx).Where("is_active = ?", true)
	if ids, scoped := visibleCourseIDs(r.db, viewer); scoped {
		query = query.Where("id IN (?)", ids)
	}

	var courses []models.Course
	if err := query.Order("code ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListAvailable(ctx context.Context, studentID uint) ([]models.Course, error) {
	enrolled := r.db.Model(&models.Enrollment{}).
		Select("course_id").
		Where("student_id = ? AND is_active = ?", studentID, true)

	var courses []models.Course
	if err := r.baseQuery(ctx).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", enrolled).
		Order("code ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}
