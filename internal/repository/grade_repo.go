package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// GradeRepository defines data operations for grades.
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uint) (models.Grade, error)
	ListByEnrollments(ctx context.Context, enrollmentIDs []uint) ([]models.Grade, error)
	HighestScore(ctx context.Context, assignmentID uint) (float64, bool, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

// Create inserts the grade. A second grade for the same enrollment and
// assignment violates idx_grade_enrollment_assignment and surfaces as
// gorm.ErrDuplicatedKey.
func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Omit("Assignment").Create(grade).Error
}

func (r *gradeRepository) GetByID(ctx context.Context, id uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).Preload("Assignment").First(&grade, id).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) ListByEnrollments(ctx context.Context, enrollmentIDs []uint) ([]models.Grade, error) {
	if len(enrollmentIDs) == 0 {
		return []models.Grade{}, nil
	}

	var grades []models.Grade
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Joins("LEFT JOIN assignments ON assignments.id = grades.assignment_id").
		Where("grades.enrollment_id IN ?", enrollmentIDs).
		Order("assignments.due_date ASC, grades.id ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

// HighestScore returns the best score recorded for the assignment. The boolean
// is false when nothing has been graded yet.
func (r *gradeRepository) HighestScore(ctx context.Context, assignmentID uint) (float64, bool, error) {
	var row struct {
		Highest *float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Select("MAX(score) AS highest").
		Where("assignment_id = ?", assignmentID).
		Scan(&row).Error; err != nil {
		return 0, false, err
	}

	if row.Highest == nil {
		return 0, false, nil
	}
	return *row.Highest, true, nil
}
