// Package app assembles repositories, services and handlers into a running portal.
package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/config"
	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/handler"
	"github.com/noah-isme/campus-portal-api/internal/repository"
	"github.com/noah-isme/campus-portal-api/internal/router"
	"github.com/noah-isme/campus-portal-api/internal/service"
)

// Infrastructure holds the external connections services are built on.
// Redis and Publisher are optional.
type Infrastructure struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher events.Publisher
}

// Services exposes every domain service of the portal.
type Services struct {
	Users         service.UserService
	Catalog       service.CatalogService
	Enrollments   service.EnrollmentService
	Grades        service.GradeBookService
	Announcements service.AnnouncementService
	Dashboard     service.DashboardService
	Activity      service.ActivityService
}

// NewServices wires repositories into services according to configuration.
func NewServices(cfg config.Config, infra Infrastructure, logger zerolog.Logger) Services {
	publisher := infra.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(infra.DB)
	courseRepo := repository.NewCourseRepository(infra.DB)
	assignmentRepo := repository.NewAssignmentRepository(infra.DB)
	enrollmentRepo := repository.NewEnrollmentRepository(infra.DB)
	gradeRepo := repository.NewGradeRepository(infra.DB)
	announcementRepo := repository.NewAnnouncementRepository(infra.DB)
	activityRepo := repository.NewActivityLogRepository(infra.DB)

	activity := service.NewActivityService(activityRepo, logger)
	dashboards := service.NewDashboardInvalidator(infra.Redis, logger)

	announcements := service.NewAnnouncementService(service.AnnouncementDependencies{
		Announcements: announcementRepo,
		Courses:       courseRepo,
		Enrollments:   enrollmentRepo,
		Validator:     validate,
		Recorder:      activity,
		Publisher:     publisher,
		Dashboards:    dashboards,
	}, service.AnnouncementOptions{HideExpired: cfg.HideExpired}, logger)

	return Services{
		Users:   service.NewUserService(userRepo, validate, logger),
		Catalog: service.NewCatalogService(service.CatalogDependencies{
			Courses:     courseRepo,
			Assignments: assignmentRepo,
			Users:       userRepo,
			Enrollments: enrollmentRepo,
			Grades:      gradeRepo,
			Validator:   validate,
			Recorder:    activity,
			Publisher:   publisher,
			Dashboards:  dashboards,
		}, logger),
		Enrollments: service.NewEnrollmentService(
			enrollmentRepo, courseRepo, userRepo, activity, publisher, dashboards, logger,
		),
		Grades: service.NewGradeBookService(service.GradeBookDependencies{
			Grades:      gradeRepo,
			Enrollments: enrollmentRepo,
			Assignments: assignmentRepo,
			Policy:      service.PolicyFor(cfg.WeightedGrading),
			Validator:   validate,
			Recorder:    activity,
			Publisher:   publisher,
			Dashboards:  dashboards,
		}, logger),
		Announcements: announcements,
		Dashboard: service.NewDashboardService(service.DashboardDependencies{
			Users:         userRepo,
			Courses:       courseRepo,
			Assignments:   assignmentRepo,
			Enrollments:   enrollmentRepo,
			Grades:        gradeRepo,
			Announcements: announcements,
			Cache:         infra.Redis,
			CacheTTL:      cfg.DashboardCacheTTL,
		}, logger),
		Activity: activity,
	}
}

// RouterDependencies builds the HTTP handlers for the given services.
func RouterDependencies(services Services, infra Infrastructure, logger zerolog.Logger) router.Dependencies {
	return router.Dependencies{
		Health:               handler.HealthDependencies{DB: infra.DB, Redis: infra.Redis},
		CourseHandler:        handler.NewCourseHandler(services.Catalog, services.Enrollments, logger),
		GradeHandler:         handler.NewGradeHandler(services.Grades, services.Catalog, logger),
		AnnouncementHandler:  handler.NewAnnouncementHandler(services.Announcements, logger),
		ProfileHandler:       handler.NewProfileHandler(services.Users, logger),
		ActivityFeedHandler:  handler.NewActivityFeedHandler(services.Activity, logger),
		DashboardHandler:     handler.NewDashboardHandler(services.Dashboard, logger),
		AdminCourseHandler:   handler.NewAdminCourseHandler(services.Catalog, logger),
		AdminUserHandler:     handler.NewAdminUserHandler(services.Users, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(services.Activity, logger),
	}
}
