package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// EnrollmentRepository defines persistence operations for the enrollment ledger.
type EnrollmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	SetActive(ctx context.Context, id uint, active bool) error
	ListByStudent(ctx context.Context, studentID uint, activeOnly bool) ([]models.Enrollment, error)
	ListStudents(ctx context.Context, courseID uint) ([]models.User, error)
	CountActiveForCourses(ctx context.Context, courseIDs []uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Enrollment{}).Preload("Course")
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.baseQuery(ctx).First(&enrollment, id).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.baseQuery(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

// Create inserts the enrollment. A second row for the same student and course
// violates idx_enrollment_student_course and surfaces as gorm.ErrDuplicatedKey.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Student", "Course", "Grades").Create(enrollment).Error
}

func (r *enrollmentRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint, activeOnly bool) ([]models.Enrollment, error) {
	query := r.baseQuery(ctx).Where("student_id = ?", studentID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var enrollments []models.Enrollment
	if err := query.Order("enrollment_date ASC, id ASC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ListStudents(ctx context.Context, courseID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ? AND enrollments.is_active = ?", courseID, true).
		Order("users.last_name ASC, users.first_name ASC, users.id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *enrollmentRepository) CountActiveForCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Count(&total).Error
	return total, err
}

func (r *enrollmentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Count(&total).Error
	return total, err
}
