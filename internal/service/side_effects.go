package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/repository"
)

// DashboardInvalidator drops cached dashboards after their inputs change.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...uint)
}

func publishEvent(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, eventType, data); err != nil {
		logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func invalidateDashboards(ctx context.Context, invalidator DashboardInvalidator, userIDs ...uint) {
	if invalidator == nil || len(userIDs) == 0 {
		return
	}
	invalidator.Invalidate(ctx, userIDs...)
}

// courseAudience lists the users whose dashboards show the course: its active
// students and its instructor.
func courseAudience(ctx context.Context, enrollments repository.EnrollmentRepository, logger zerolog.Logger, course models.Course) []uint {
	ids := make([]uint, 0, 8)
	if course.InstructorID != nil {
		ids = append(ids, *course.InstructorID)
	}
	if enrollments == nil {
		return ids
	}

	students, err := enrollments.ListStudents(ctx, course.ID)
	if err != nil {
		logger.Warn().Err(err).Uint("course_id", course.ID).Msg("failed to resolve course audience")
		return ids
	}
	for _, student := range students {
		ids = append(ids, student.ID)
	}
	return ids
}
