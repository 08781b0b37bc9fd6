package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

// CatalogService manages courses and their assignments.
type CatalogService interface {
	CreateCourse(ctx context.Context, actor models.Viewer, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, actor models.Viewer, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, actor models.Viewer, id uint) error
	GetCourse(ctx context.Context, id uint) (dto.CourseResponse, error)
	ListCourses(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error)
	CreateAssignment(ctx context.Context, actor models.Viewer, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	UpdateAssignment(ctx context.Context, actor models.Viewer, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, viewer models.Viewer, courseID uint) ([]dto.AssignmentResponse, error)
}

type catalogService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	grades      repository.GradeRepository
	validator   *validator.Validate
	recorder    ActivityRecorder
	publisher   events.Publisher
	dashboards  DashboardInvalidator
	logger      zerolog.Logger
}

// CatalogDependencies groups the collaborators of the catalog.
type CatalogDependencies struct {
	Courses     repository.CourseRepository
	Assignments repository.AssignmentRepository
	Users       repository.UserRepository
	Enrollments repository.EnrollmentRepository
	Grades      repository.GradeRepository
	Validator   *validator.Validate
	Recorder    ActivityRecorder
	Publisher   events.Publisher
	Dashboards  DashboardInvalidator
}

// NewCatalogService wires the catalog service.
func NewCatalogService(deps CatalogDependencies, logger zerolog.Logger) CatalogService {
	return &catalogService{
		courses:     deps.Courses,
		assignments: deps.Assignments,
		users:       deps.Users,
		enrollments: deps.Enrollments,
		grades:      deps.Grades,
		validator:   deps.Validator,
		recorder:    deps.Recorder,
		publisher:   deps.Publisher,
		dashboards:  deps.Dashboards,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) CreateCourse(ctx context.Context, actor models.Viewer, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Code:        strings.ToUpper(strings.TrimSpace(payload.Code)),
		Name:        strings.TrimSpace(payload.Name),
		Description: trimmedPtr(payload.Description),
		IsActive:    true,
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if payload.InstructorID != nil {
		instructor, err := s.loadInstructor(ctx, *payload.InstructorID)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.InstructorID = &instructor.ID
		course.Instructor = &instructor
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		if isDuplicate(err) {
			return dto.CourseResponse{}, ErrCourseCodeTaken
		}
		return dto.CourseResponse{}, err
	}

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "course.created",
		EntityType: "course",
		EntityID:   &course.ID,
		Metadata:   map[string]interface{}{"code": course.Code},
	})
	s.invalidateCourse(ctx, actor, course)

	return dto.NewCourseResponse(course), nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, actor models.Viewer, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, translateLookup(err, ErrCourseNotFound)
	}
	previousInstructor := course.InstructorID

	if payload.Code != nil {
		course.Code = strings.ToUpper(strings.TrimSpace(*payload.Code))
	}
	if payload.Name != nil {
		course.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		course.Description = trimmedPtr(payload.Description)
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	switch {
	case payload.ClearInstructor:
		course.InstructorID = nil
		course.Instructor = nil
	case payload.InstructorID != nil:
		instructor, err := s.loadInstructor(ctx, *payload.InstructorID)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.InstructorID = &instructor.ID
		course.Instructor = &instructor
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		if isDuplicate(err) {
			return dto.CourseResponse{}, ErrCourseCodeTaken
		}
		return dto.CourseResponse{}, err
	}

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "course.updated",
		EntityType: "course",
		EntityID:   &course.ID,
	})
	s.invalidateCourse(ctx, actor, course)
	if previousInstructor != nil && !course.IsTaughtBy(*previousInstructor) {
		invalidateDashboards(ctx, s.dashboards, *previousInstructor)
	}

	return dto.NewCourseResponse(course), nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, actor models.Viewer, id uint) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return translateLookup(err, ErrCourseNotFound)
	}
	audience := append(s.audience(ctx, course), actor.ID)

	if err := s.courses.Delete(ctx, id); err != nil {
		return translateLookup(err, ErrCourseNotFound)
	}

	s.logger.Info().Uint("course_id", id).Uint("actor_id", actor.ID).Msg("course deleted")

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "course.deleted",
		EntityType: "course",
		EntityID:   &id,
	})
	publishEvent(ctx, s.publisher, s.logger, events.CourseDeleted, map[string]interface{}{
		"course_id": id,
	})
	invalidateDashboards(ctx, s.dashboards, audience...)

	return nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, translateLookup(err, ErrCourseNotFound)
	}
	return dto.NewCourseResponse(course), nil
}

func (s *catalogService) ListCourses(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error) {
	page := maxInt(req.Page, 1)
	pageSize := clampPageSize(req.PageSize)

	courses, total, err := s.courses.List(ctx, repository.CourseFilter{
		ActiveOnly: req.ActiveOnly,
		Search:     req.Search,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	return dto.CourseListResponse{
		Items:      dto.NewCourseResponseSlice(courses),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *catalogService) CreateAssignment(ctx context.Context, actor models.Viewer, courseID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.authorizeCourse(ctx, actor, courseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:    courseID,
		Title:       strings.TrimSpace(payload.Title),
		Description: trimmedPtr(payload.Description),
		DueDate:     payload.DueDate.UTC(),
		MaxScore:    payload.MaxScore,
		Weight:      1,
		IsActive:    true,
	}
	if payload.Weight != nil {
		assignment.Weight = *payload.Weight
	}
	if payload.IsActive != nil {
		assignment.IsActive = *payload.IsActive
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "assignment.created",
		EntityType: "assignment",
		EntityID:   &assignment.ID,
		Metadata:   map[string]interface{}{"course_id": courseID},
	})
	invalidateDashboards(ctx, s.dashboards, s.audience(ctx, course)...)

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *catalogService) UpdateAssignment(ctx context.Context, actor models.Viewer, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, translateLookup(err, ErrAssignmentNotFound)
	}

	course, err := s.authorizeCourse(ctx, actor, assignment.CourseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = trimmedPtr(payload.Description)
	}
	if payload.DueDate != nil {
		assignment.DueDate = payload.DueDate.UTC()
	}
	if payload.MaxScore != nil {
		if *payload.MaxScore < assignment.MaxScore {
			if err := s.ensureScoresFit(ctx, assignment.ID, *payload.MaxScore); err != nil {
				return dto.AssignmentResponse{}, err
			}
		}
		assignment.MaxScore = *payload.MaxScore
	}
	if payload.Weight != nil {
		assignment.Weight = *payload.Weight
	}
	if payload.IsActive != nil {
		assignment.IsActive = *payload.IsActive
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "assignment.updated",
		EntityType: "assignment",
		EntityID:   &assignment.ID,
	})
	invalidateDashboards(ctx, s.dashboards, s.audience(ctx, course)...)

	return dto.NewAssignmentResponse(assignment), nil
}

// ListAssignments returns the course assignments by ascending due date.
// Students only see active assignments.
func (s *catalogService) ListAssignments(ctx context.Context, viewer models.Viewer, courseID uint) ([]dto.AssignmentResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, translateLookup(err, ErrCourseNotFound)
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID, !viewer.Role.CanTeach())
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *catalogService) loadInstructor(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, translateLookup(err, ErrUserNotFound)
	}
	if user.Role != models.RoleInstructor {
		return models.User{}, ErrNotAnInstructor
	}
	return user, nil
}

// ensureScoresFit rejects a maximum lower than a score already recorded for the assignment.
func (s *catalogService) ensureScoresFit(ctx context.Context, assignmentID uint, maxScore float64) error {
	highest, graded, err := s.grades.HighestScore(ctx, assignmentID)
	if err != nil {
		return err
	}
	if graded && highest > maxScore {
		return ErrMaxBelowRecordedScore
	}
	return nil
}

func (s *catalogService) audience(ctx context.Context, course models.Course) []uint {
	if s.dashboards == nil {
		return nil
	}
	return courseAudience(ctx, s.enrollments, s.logger, course)
}

// invalidateCourse drops the dashboards of the course audience and of the acting
// administrator, whose dashboard counts courses.
func (s *catalogService) invalidateCourse(ctx context.Context, actor models.Viewer, course models.Course) {
	if s.dashboards == nil {
		return
	}
	invalidateDashboards(ctx, s.dashboards, append(s.audience(ctx, course), actor.ID)...)
}

// authorizeCourse loads the course and checks the actor may manage its content.
func (s *catalogService) authorizeCourse(ctx context.Context, actor models.Viewer, courseID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return models.Course{}, translateLookup(err, ErrCourseNotFound)
	}
	if !canManageCourse(actor, course) {
		return models.Course{}, ErrNotCourseInstructor
	}
	return course, nil
}

func canManageCourse(actor models.Viewer, course models.Course) bool {
	switch actor.Role.Scope() {
	case models.ScopeAll:
		return true
	case models.ScopeTaught:
		return course.IsTaughtBy(actor.ID)
	default:
		return false
	}
}

