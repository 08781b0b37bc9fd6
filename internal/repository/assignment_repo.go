package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	ListByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]models.Assignment, error)
	CountActiveForCourses(ctx context.Context, courseIDs []uint) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Omit("Course").Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Omit("Course").Save(assignment).Error
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint, activeOnly bool) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var assignments []models.Assignment
	if err := query.Order("due_date ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) CountActiveForCourses(ctx context.Context, courseIDs []uint) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Count(&total).Error
	return total, err
}
