package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/observability"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

// EnrollmentService manages the student/course ledger.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error)
	Drop(ctx context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error)
	ListAvailableCourses(ctx context.Context, studentID uint) ([]dto.CourseResponse, error)
	ListCoursesFor(ctx context.Context, viewer models.Viewer) ([]dto.CourseResponse, error)
	Roster(ctx context.Context, courseID uint) ([]dto.UserResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	recorder    ActivityRecorder
	publisher   events.Publisher
	dashboards  DashboardInvalidator
	logger      zerolog.Logger
}

// NewEnrollmentService wires the enrollment ledger.
func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	recorder ActivityRecorder,
	publisher events.Publisher,
	dashboards DashboardInvalidator,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		recorder:    recorder,
		publisher:   publisher,
		dashboards:  dashboards,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/campus-portal-api/internal/service/enrollment")
	ctx, span := tracer.Start(ctx, "enrollment.enroll")
	span.SetAttributes(
		attribute.Int("enrollment.student_id", int(studentID)),
		attribute.Int("enrollment.course_id", int(courseID)),
	)
	defer span.End()

	fail := func(result string, err error) (dto.EnrollmentResponse, error) {
		observability.Enrollments().WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		return dto.EnrollmentResponse{}, err
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return fail("student_lookup_failed", translateLookup(err, ErrUserNotFound))
	}
	if !student.Role.CanEnroll() {
		return fail("not_a_student", ErrNotAStudent)
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return fail("course_lookup_failed", translateLookup(err, ErrCourseNotFound))
	}

	enrollment := models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		IsActive:  true,
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if isDuplicate(err) {
			return fail("duplicate", ErrAlreadyEnrolled)
		}
		return fail("error", err)
	}
	enrollment.Course = &course

	observability.Enrollments().WithLabelValues("created").Inc()
	s.logger.Info().
		Uint("student_id", student.ID).
		Uint("course_id", course.ID).
		Msg("student enrolled")

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      student.Viewer(),
		Action:     "enrollment.created",
		EntityType: "enrollment",
		EntityID:   &enrollment.ID,
		Metadata:   map[string]interface{}{"course_id": course.ID},
	})
	publishEvent(ctx, s.publisher, s.logger, events.EnrollmentCreated, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    student.ID,
		"course_id":     course.ID,
	})
	s.invalidate(ctx, student.ID, course)

	return dto.NewEnrollmentResponse(enrollment), nil
}

// Drop deactivates the enrollment. The row is kept, so the pair stays taken.
func (s *enrollmentService) Drop(ctx context.Context, studentID, courseID uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return dto.EnrollmentResponse{}, translateLookup(err, ErrEnrollmentNotFound)
	}

	if enrollment.IsActive {
		if err := s.enrollments.SetActive(ctx, enrollment.ID, false); err != nil {
			return dto.EnrollmentResponse{}, translateLookup(err, ErrEnrollmentNotFound)
		}
		enrollment.IsActive = false

		observability.Enrollments().WithLabelValues("dropped").Inc()
		recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
			Actor:      models.Viewer{ID: studentID, Role: models.RoleStudent},
			Action:     "enrollment.dropped",
			EntityType: "enrollment",
			EntityID:   &enrollment.ID,
			Metadata:   map[string]interface{}{"course_id": courseID},
		})
		publishEvent(ctx, s.publisher, s.logger, events.EnrollmentDropped, map[string]interface{}{
			"enrollment_id": enrollment.ID,
			"student_id":    studentID,
			"course_id":     courseID,
		})
		course := models.Course{ID: courseID}
		if enrollment.Course != nil {
			course = *enrollment.Course
		}
		s.invalidate(ctx, studentID, course)
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListAvailableCourses(ctx context.Context, studentID uint) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListAvailable(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *enrollmentService) ListCoursesFor(ctx context.Context, viewer models.Viewer) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListVisible(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *enrollmentService) Roster(ctx context.Context, courseID uint) ([]dto.UserResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, translateLookup(err, ErrCourseNotFound)
	}

	students, err := s.enrollments.ListStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(students), nil
}

func (s *enrollmentService) invalidate(ctx context.Context, studentID uint, course models.Course) {
	ids := []uint{studentID}
	if course.InstructorID != nil {
		ids = append(ids, *course.InstructorID)
	}
	invalidateDashboards(ctx, s.dashboards, ids...)
}
