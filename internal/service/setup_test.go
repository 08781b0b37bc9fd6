package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/database"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.ConnectSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

type testRepos struct {
	db            *gorm.DB
	users         repository.UserRepository
	courses       repository.CourseRepository
	assignments   repository.AssignmentRepository
	enrollments   repository.EnrollmentRepository
	grades        repository.GradeRepository
	announcements repository.AnnouncementRepository
	activity      repository.ActivityLogRepository
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		db:            db,
		users:         repository.NewUserRepository(db),
		courses:       repository.NewCourseRepository(db),
		assignments:   repository.NewAssignmentRepository(db),
		enrollments:   repository.NewEnrollmentRepository(db),
		grades:        repository.NewGradeRepository(db),
		announcements: repository.NewAnnouncementRepository(db),
		activity:      repository.NewActivityLogRepository(db),
	}
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()

	user := models.User{
		Username:           username,
		Email:              username + "@campus.test",
		FirstName:          username,
		Role:               role,
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, code string, instructor *models.User) models.Course {
	t.Helper()

	course := models.Course{Code: code, Name: "Course " + code, IsActive: true}
	if instructor != nil {
		course.InstructorID = &instructor.ID
	}
	require.NoError(t, db.Omit("Instructor", "Assignments").Create(&course).Error)
	return course
}

func createAssignment(t *testing.T, db *gorm.DB, course models.Course, title string, maxScore, weight float64, due time.Time) models.Assignment {
	t.Helper()

	assignment := models.Assignment{
		CourseID: course.ID,
		Title:    title,
		DueDate:  due,
		MaxScore: maxScore,
		Weight:   weight,
		IsActive: true,
	}
	require.NoError(t, db.Omit("Course").Create(&assignment).Error)
	return assignment
}

func createEnrollment(t *testing.T, db *gorm.DB, student models.User, course models.Course) models.Enrollment {
	t.Helper()

	enrollment := models.Enrollment{StudentID: student.ID, CourseID: course.ID, IsActive: true}
	require.NoError(t, db.Omit("Student", "Course", "Grades").Create(&enrollment).Error)
	return enrollment
}

func createGrade(t *testing.T, db *gorm.DB, enrollment models.Enrollment, assignment models.Assignment, score float64) models.Grade {
	t.Helper()

	grade := models.Grade{EnrollmentID: enrollment.ID, AssignmentID: &assignment.ID, Score: score}
	require.NoError(t, db.Omit("Assignment").Create(&grade).Error)
	return grade
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []uint
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, userIDs ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userIDs...)
}

func (r *recordingInvalidator) Users() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.calls...)
}
