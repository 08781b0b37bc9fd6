package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/observability"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

// AnnouncementService exposes the course announcement board.
type AnnouncementService interface {
	Create(ctx context.Context, actor models.Viewer, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	MarkRead(ctx context.Context, announcementID, userID uint) error
	Get(ctx context.Context, viewer models.Viewer, id uint) (dto.AnnouncementResponse, error)
	ListVisible(ctx context.Context, viewer models.Viewer) ([]dto.AnnouncementResponse, error)
	ListRecent(ctx context.Context, viewer models.Viewer, limit int) ([]dto.AnnouncementResponse, error)
	UnreadCount(ctx context.Context, viewer models.Viewer) (int64, error)
}

// AnnouncementOptions tunes announcement visibility.
type AnnouncementOptions struct {
	// HideExpired drops announcements whose expiry is at or before now.
	HideExpired bool
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	courses       repository.CourseRepository
	enrollments   repository.EnrollmentRepository
	validator     *validator.Validate
	recorder      ActivityRecorder
	publisher     events.Publisher
	dashboards    DashboardInvalidator
	options       AnnouncementOptions
	policy        *bluemonday.Policy
	logger        zerolog.Logger
	now           func() time.Time
}

// AnnouncementDependencies groups the collaborators of the announcement board.
type AnnouncementDependencies struct {
	Announcements repository.AnnouncementRepository
	Courses       repository.CourseRepository
	Enrollments   repository.EnrollmentRepository
	Validator     *validator.Validate
	Recorder      ActivityRecorder
	Publisher     events.Publisher
	Dashboards    DashboardInvalidator
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(deps AnnouncementDependencies, options AnnouncementOptions, logger zerolog.Logger) AnnouncementService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &announcementService{
		announcements: deps.Announcements,
		courses:       deps.Courses,
		enrollments:   deps.Enrollments,
		validator:     deps.Validator,
		recorder:      deps.Recorder,
		publisher:     deps.Publisher,
		dashboards:    deps.Dashboards,
		options:       options,
		policy:        policy,
		logger:        logger.With().Str("component", "announcement_service").Logger(),
		now:           time.Now,
	}
}

func (s *announcementService) Create(ctx context.Context, actor models.Viewer, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		return dto.AnnouncementResponse{}, translateLookup(err, ErrCourseNotFound)
	}
	if !canManageCourse(actor, course) {
		return dto.AnnouncementResponse{}, ErrNotCourseInstructor
	}

	content := strings.TrimSpace(s.policy.Sanitize(payload.Content))
	if content == "" {
		return dto.AnnouncementResponse{}, ErrEmptyContent
	}

	announcement := models.Announcement{
		CourseID:     course.ID,
		InstructorID: actor.ID,
		Title:        strings.TrimSpace(payload.Title),
		Content:      content,
		IsActive:     true,
	}
	if payload.ExpiresAt != nil {
		expires := payload.ExpiresAt.UTC()
		announcement.ExpiresAt = &expires
	}

	if err := s.announcements.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	announcement.Course = &course

	s.logger.Info().
		Uint("announcement_id", announcement.ID).
		Uint("course_id", course.ID).
		Msg("announcement created")

	recordActivity(ctx, s.recorder, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "announcement.created",
		EntityType: "announcement",
		EntityID:   &announcement.ID,
		Metadata:   map[string]interface{}{"course_id": course.ID},
	})
	publishEvent(ctx, s.publisher, s.logger, events.AnnouncementCreated, map[string]interface{}{
		"announcement_id": announcement.ID,
		"course_id":       course.ID,
		"instructor_id":   actor.ID,
		"title":           announcement.Title,
	})
	s.invalidateAudience(ctx, course)

	return dto.NewAnnouncementResponse(announcement, false), nil
}

// MarkRead adds the user to the read set. Marking twice is a no-op.
func (s *announcementService) MarkRead(ctx context.Context, announcementID, userID uint) error {
	if _, err := s.announcements.GetByID(ctx, announcementID); err != nil {
		return translateLookup(err, ErrAnnouncementNotFound)
	}

	inserted, err := s.announcements.MarkRead(ctx, announcementID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	observability.AnnouncementReads().Inc()
	invalidateDashboards(ctx, s.dashboards, userID)
	return nil
}

// Get returns a visible announcement. Students reading it are added to the read set.
func (s *announcementService) Get(ctx context.Context, viewer models.Viewer, id uint) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return dto.AnnouncementResponse{}, translateLookup(err, ErrAnnouncementNotFound)
	}

	visible, err := s.canView(ctx, viewer, announcement)
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if !visible {
		return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
	}

	if viewer.Role == models.RoleStudent {
		if err := s.MarkRead(ctx, announcement.ID, viewer.ID); err != nil {
			return dto.AnnouncementResponse{}, err
		}
		return dto.NewAnnouncementResponse(announcement, true), nil
	}

	readSet, err := s.announcements.ReadSet(ctx, viewer.ID, []uint{announcement.ID})
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}
	return dto.NewAnnouncementResponse(announcement, readSet[announcement.ID]), nil
}

func (s *announcementService) ListVisible(ctx context.Context, viewer models.Viewer) ([]dto.AnnouncementResponse, error) {
	return s.ListRecent(ctx, viewer, 0)
}

// ListRecent returns visible announcements newest first. A limit of zero means no limit.
func (s *announcementService) ListRecent(ctx context.Context, viewer models.Viewer, limit int) ([]dto.AnnouncementResponse, error) {
	if viewer.Role.Scope() == models.ScopeNone {
		return []dto.AnnouncementResponse{}, nil
	}

	filter := s.filter(viewer)
	filter.Limit = limit

	items, err := s.announcements.ListVisible(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	readSet, err := s.announcements.ReadSet(ctx, viewer.ID, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewAnnouncementResponse(item, readSet[item.ID]))
	}
	return responses, nil
}

func (s *announcementService) UnreadCount(ctx context.Context, viewer models.Viewer) (int64, error) {
	if viewer.Role.Scope() == models.ScopeNone {
		return 0, nil
	}
	return s.announcements.CountUnread(ctx, s.filter(viewer))
}

func (s *announcementService) filter(viewer models.Viewer) repository.AnnouncementFilter {
	filter := repository.AnnouncementFilter{Viewer: viewer}
	if s.options.HideExpired {
		now := s.now().UTC()
		filter.ActiveAt = &now
	}
	return filter
}

func (s *announcementService) canView(ctx context.Context, viewer models.Viewer, announcement models.Announcement) (bool, error) {
	switch viewer.Role.Scope() {
	case models.ScopeAll:
		return true, nil
	case models.ScopeNone:
		return false, nil
	}

	if !announcement.IsActive {
		return false, nil
	}
	if s.options.HideExpired && announcement.IsExpired(s.now()) {
		return false, nil
	}

	switch viewer.Role.Scope() {
	case models.ScopeTaught:
		return announcement.Course != nil && announcement.Course.IsTaughtBy(viewer.ID), nil
	case models.ScopeEnrolled:
		enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, viewer.ID, announcement.CourseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return enrollment.IsActive, nil
	default:
		return false, nil
	}
}

func (s *announcementService) invalidateAudience(ctx context.Context, course models.Course) {
	if s.dashboards == nil {
		return
	}
	invalidateDashboards(ctx, s.dashboards, courseAudience(ctx, s.enrollments, s.logger, course)...)
}
