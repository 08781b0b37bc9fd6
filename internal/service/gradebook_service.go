package service

import (
	"context"

	"github.com/go-playground/validator/v10"
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

// GradeBookService records grades and derives enrollment percentages.
type GradeBookService interface {
	RecordGrade(ctx context.Context, actor models.Viewer, payload dto.GradeCreateRequest) (dto.GradeResponse, error)
	EnrollmentPercentage(ctx context.Context, enrollmentID uint) (dto.EnrollmentPercentageResponse, error)
	CourseAverages(ctx context.Context, studentID uint) (map[uint]*float64, error)
	ListGrades(ctx context.Context, enrollmentID uint) ([]dto.GradeResponse, error)
	ListStudentGrades(ctx context.Context, studentID uint) (dto.StudentGradesResponse, error)
}

type gradeBookService struct {
	grades      repository.GradeRepository
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	policy      GradingPolicy
	validator   *validator.Validate
	recorder    ActivityRecorder
	publisher   events.Publisher
	dashboards  DashboardInvalidator
	logger      zerolog.Logger
}

// GradeBookDependencies groups the collaborators of the grade book.
type GradeBookDependencies struct {
	Grades      repository.GradeRepository
	Enrollments repository.EnrollmentRepository
	Assignments repository.AssignmentRepository
	Policy      GradingPolicy
	Validator   *validator.Validate
	Recorder    ActivityRecorder
	Publisher   events.Publisher
	Dashboards  DashboardInvalidator
}

// NewGradeBookService constructs the grade book.
func NewGradeBookService(deps GradeBookDependencies, logger zerolog.Logger) GradeBookService {
	policy := deps.Policy
	if policy == "" {
		policy = PolicyUnweighted
	}
	return &gradeBookService{
		grades:      deps.Grades,
		enrollments: deps.Enrollments,
		assignments: deps.Assignments,
		policy:      policy,
		validator:   deps.Validator,
		recorder:    deps.Recorder,
		publisher:   deps.Publisher,
		dashboards:  deps.Dashboards,
		logger:      logger.With().Str("component", "gradebook_service").Logger(),
	}
}

func (s *gradeBookService) RecordGrade(ctx context.Context, actor models.Viewer, payload dto.GradeCreateRequest) (dto.GradeResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/campus-portal-api/internal/service/gradebook")
	ctx, span := tracer.Start(ctx, "gradebook.record")
	span.SetAttributes(
		attribute.Int("grade.enrollment_id", int(payload.EnrollmentID)),
		attribute.Int("grade.assignment_id", int(payload.AssignmentID)),
	)
	defer span.End()

	fail := func(result string, err error) (dto.GradeResponse, error) {
		observability.GradesRecorded().WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		return dto.GradeResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return fail("validation_failed", err)
	}

	enrollment, err := s.enrollments.GetByID(ctx, payload.EnrollmentID)
	if err != nil {
		return fail("enrollment_lookup_failed", translateLookup(err, ErrEnrollmentNotFound))
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		return fail("assignment_lookup_failed", translateLookup(err, ErrAssignmentNotFound))
	}

	if assignment.CourseID != enrollment.CourseID {
		return fail("course_mismatch", ErrAssignmentCourseMismatch)
	}

	if enrollment.Course != nil && !canManageCourse(actor, *enrollment.Course) {
		return fail("forbidden", ErrNotCourseInstructor)
	}

	if payload.Score < 0 || payload.Score > assignment.MaxScore {
		return fail("out_of_range", ErrScoreOutOfRange)
	}

	grade := models.Grade{
		EnrollmentID: enrollment.ID,
		AssignmentID: &assignment.ID,
		Score:        payload.Score,
	}
	if err := s.grades.Create(ctx, &grade); err != nil {
		if isDuplicate(err) {
			return fail("duplicate", ErrDuplicateGrade)
		}
		return fail("error", err)
	}
	grade.Assignment = &assignment

	observability.GradesRecorded().WithLabelValues("recorded").Inc()
	s.logger.Info().
		Uint("grade_id", grade.ID).
		Uint("enrollment_id", enrollment.ID).
		Uint("assignment_id", assignment.ID).
		Float64("score", grade.Score).
		Msg("grade recorded")

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "grade.recorded",
		EntityType: "grade",
		EntityID:   &grade.ID,
		Metadata: map[string]interface{}{
			"enrollment_id": enrollment.ID,
			"assignment_id": assignment.ID,
			"score":         grade.Score,
		},
	})
	publishEvent(ctx, s.publisher, s.logger, events.GradeRecorded, map[string]interface{}{
		"grade_id":      grade.ID,
		"enrollment_id": enrollment.ID,
		"student_id":    enrollment.StudentID,
		"course_id":     enrollment.CourseID,
		"assignment_id": assignment.ID,
		"score":         grade.Score,
		"max_score":     assignment.MaxScore,
	})
	invalidateDashboards(ctx, s.dashboards, enrollment.StudentID)

	return dto.NewGradeResponse(grade), nil
}

func (s *gradeBookService) EnrollmentPercentage(ctx context.Context, enrollmentID uint) (dto.EnrollmentPercentageResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return dto.EnrollmentPercentageResponse{}, translateLookup(err, ErrEnrollmentNotFound)
	}

	grades, err := s.grades.ListByEnrollments(ctx, []uint{enrollment.ID})
	if err != nil {
		return dto.EnrollmentPercentageResponse{}, err
	}

	percentage, ok := EnrollmentPercentage(grades, s.policy)
	return dto.EnrollmentPercentageResponse{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		Percentage:   percentagePtr(percentage, ok),
		HasData:      ok,
		GradedCount:  countGraded(grades),
		Policy:       string(s.policy),
	}, nil
}

func (s *gradeBookService) CourseAverages(ctx context.Context, studentID uint) (map[uint]*float64, error) {
	enrollments, byEnrollment, err := s.studentGrades(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.courseAverages(enrollments, byEnrollment), nil
}

func (s *gradeBookService) ListGrades(ctx context.Context, enrollmentID uint) ([]dto.GradeResponse, error) {
	if _, err := s.enrollments.GetByID(ctx, enrollmentID); err != nil {
		return nil, translateLookup(err, ErrEnrollmentNotFound)
	}

	grades, err := s.grades.ListByEnrollments(ctx, []uint{enrollmentID})
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponseSlice(grades), nil
}

func (s *gradeBookService) ListStudentGrades(ctx context.Context, studentID uint) (dto.StudentGradesResponse, error) {
	enrollments, byEnrollment, err := s.studentGrades(ctx, studentID)
	if err != nil {
		return dto.StudentGradesResponse{}, err
	}

	response := dto.StudentGradesResponse{
		Enrollments:    make([]dto.EnrollmentGrades, 0, len(enrollments)),
		CourseAverages: s.courseAverages(enrollments, byEnrollment),
	}
	for _, enrollment := range enrollments {
		grades := byEnrollment[enrollment.ID]
		response.Enrollments = append(response.Enrollments, dto.EnrollmentGrades{
			Enrollment: dto.NewEnrollmentResponse(enrollment),
			Grades:     dto.NewGradeResponseSlice(grades),
			Percentage: response.CourseAverages[enrollment.CourseID],
		})
	}

	return response, nil
}

// studentGrades loads the active enrollments of a student with their grades grouped by enrollment.
func (s *gradeBookService) studentGrades(ctx context.Context, studentID uint) ([]models.Enrollment, map[uint][]models.Grade, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID, true)
	if err != nil {
		return nil, nil, err
	}

	byEnrollment, err := s.gradesByEnrollment(ctx, enrollments)
	if err != nil {
		return nil, nil, err
	}
	return enrollments, byEnrollment, nil
}

// courseAverages keys each enrollment percentage by course. A student holds at
// most one enrollment per course.
func (s *gradeBookService) courseAverages(enrollments []models.Enrollment, byEnrollment map[uint][]models.Grade) map[uint]*float64 {
	averages := make(map[uint]*float64, len(enrollments))
	for _, enrollment := range enrollments {
		averages[enrollment.CourseID] = percentagePtr(EnrollmentPercentage(byEnrollment[enrollment.ID], s.policy))
	}
	return averages
}

func (s *gradeBookService) gradesByEnrollment(ctx context.Context, enrollments []models.Enrollment) (map[uint][]models.Grade, error) {
	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.ID)
	}

	grades, err := s.grades.ListByEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint][]models.Grade, len(enrollments))
	for _, grade := range grades {
		grouped[grade.EnrollmentID] = append(grouped[grade.EnrollmentID], grade)
	}
	return grouped, nil
}

func countGraded(grades []models.Grade) int {
	count := 0
	for _, grade := range grades {
		if grade.Assignment != nil {
			count++
		}
	}
	return count
}
