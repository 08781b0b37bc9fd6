package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/dto"
	"github.com/noah-isme/campus-portal-api/internal/events"
	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/observability"
)

type announcementFixture struct {
	db         *gorm.DB
	service    *announcementService
	publisher  *recordingPublisher
	dashboards *recordingInvalidator
	instructor models.User
	student    models.User
	outsider   models.User
	admin      models.User
	course     models.Course
	other      models.Course
	now        time.Time
}

func newAnnouncementFixture(t *testing.T, hideExpired bool) announcementFixture {
	t.Helper()

	db := setupTestDB(t)
	repos := newTestRepos(db)

	instructor := createUser(t, db, "prof", models.RoleInstructor)
	student := createUser(t, db, "alice", models.RoleStudent)
	outsider := createUser(t, db, "bob", models.RoleStudent)
	admin := createUser(t, db, "root", models.RoleAdmin)
	course := createCourse(t, db, "CS101", &instructor)
	other := createCourse(t, db, "ART100", nil)
	createEnrollment(t, db, student, course)
	createEnrollment(t, db, outsider, other)

	publisher := &recordingPublisher{}
	dashboards := &recordingInvalidator{}
	svc := NewAnnouncementService(AnnouncementDependencies{
		Announcements: repos.announcements,
		Courses:       repos.courses,
		Enrollments:   repos.enrollments,
		Validator:     testValidator(),
		Recorder:      NewActivityService(repos.activity, testLogger()),
		Publisher:     publisher,
		Dashboards:    dashboards,
	}, AnnouncementOptions{HideExpired: hideExpired}, testLogger()).(*announcementService)

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return announcementFixture{
		db:         db,
		service:    svc,
		publisher:  publisher,
		dashboards: dashboards,
		instructor: instructor,
		student:    student,
		outsider:   outsider,
		admin:      admin,
		course:     course,
		other:      other,
		now:        now,
	}
}

func (f announcementFixture) seed(t *testing.T, course models.Course, title string, created time.Time, expires *time.Time) models.Announcement {
	t.Helper()

	instructorID := f.instructor.ID
	if course.InstructorID != nil {
		instructorID = *course.InstructorID
	}
	announcement := models.Announcement{
		CourseID:     course.ID,
		InstructorID: instructorID,
		Title:        title,
		Content:      title + " body",
		CreatedAt:    created,
		ExpiresAt:    expires,
		IsActive:     true,
	}
	require.NoError(t, f.db.Omit("Course", "Instructor").Create(&announcement).Error)
	return announcement
}

func titles(items []dto.AnnouncementResponse) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestCreateAnnouncementSanitizesContent(t *testing.T) {
	f := newAnnouncementFixture(t, true)

	created, err := f.service.Create(context.Background(), f.instructor.Viewer(), dto.AnnouncementCreateRequest{
		CourseID: f.course.ID,
		Title:    "  Midterm  ",
		Content:  `<p>Room 4</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "Midterm", created.Title)
	require.Equal(t, "<p>Room 4</p>", created.Content)
	require.Equal(t, "CS101", created.CourseCode)
	require.Equal(t, []string{events.AnnouncementCreated}, f.publisher.Types())
}

func TestCreateAnnouncementRequiresCourseInstructor(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	request := dto.AnnouncementCreateRequest{CourseID: f.other.ID, Title: "Hi", Content: "hello"}

	_, err := f.service.Create(context.Background(), f.instructor.Viewer(), request)
	require.ErrorIs(t, err, ErrNotCourseInstructor)

	_, err = f.service.Create(context.Background(), f.instructor.Viewer(), dto.AnnouncementCreateRequest{CourseID: 999, Title: "Hi", Content: "hello"})
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = f.service.Create(context.Background(), f.instructor.Viewer(), dto.AnnouncementCreateRequest{CourseID: f.course.ID, Title: "Hi", Content: "<script></script>"})
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	item := f.seed(t, f.course, "Welcome", f.now.Add(-time.Hour), nil)
	ctx := context.Background()

	reads := testutil.ToFloat64(observability.AnnouncementReads())

	require.NoError(t, f.service.MarkRead(ctx, item.ID, f.student.ID))
	require.NoError(t, f.service.MarkRead(ctx, item.ID, f.student.ID))
	_, err := f.service.Get(ctx, f.student.Viewer(), item.ID)
	require.NoError(t, err)

	readers, err := f.service.announcements.CountReaders(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), readers)
	require.Equal(t, reads+1, testutil.ToFloat64(observability.AnnouncementReads()))
	require.Equal(t, []uint{f.student.ID}, f.dashboards.Users())

	require.ErrorIs(t, f.service.MarkRead(ctx, 999, f.student.ID), ErrAnnouncementNotFound)
}

func TestListVisibleIsRoleScopedAndNewestFirst(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	f.seed(t, f.course, "Older", f.now.Add(-2*time.Hour), nil)
	f.seed(t, f.course, "Newer", f.now.Add(-time.Hour), nil)
	f.seed(t, f.other, "Art news", f.now.Add(-30*time.Minute), nil)
	ctx := context.Background()

	studentItems, err := f.service.ListVisible(ctx, f.student.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Newer", "Older"}, titles(studentItems))

	instructorItems, err := f.service.ListVisible(ctx, f.instructor.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Newer", "Older"}, titles(instructorItems))

	adminItems, err := f.service.ListVisible(ctx, f.admin.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Art news", "Newer", "Older"}, titles(adminItems))

	outsiderItems, err := f.service.ListVisible(ctx, f.outsider.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Art news"}, titles(outsiderItems))
}

func TestListVisibleHidesInactiveAndExpired(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	past := f.now.Add(-time.Minute)
	future := f.now.Add(time.Hour)
	f.seed(t, f.course, "Expired", f.now.Add(-2*time.Hour), &past)
	f.seed(t, f.course, "Expiring", f.now.Add(-90*time.Minute), &future)
	hidden := f.seed(t, f.course, "Hidden", f.now.Add(-time.Hour), nil)
	require.NoError(t, f.db.Model(&hidden).Update("is_active", false).Error)

	items, err := f.service.ListVisible(context.Background(), f.student.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Expiring"}, titles(items))
}

func TestListVisibleCanShowExpired(t *testing.T) {
	f := newAnnouncementFixture(t, false)
	past := f.now.Add(-time.Minute)
	f.seed(t, f.course, "Expired", f.now.Add(-2*time.Hour), &past)

	items, err := f.service.ListVisible(context.Background(), f.student.Viewer())
	require.NoError(t, err)
	require.Equal(t, []string{"Expired"}, titles(items))
}

func TestGetMarksReadForStudents(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	item := f.seed(t, f.course, "Welcome", f.now.Add(-time.Hour), nil)
	ctx := context.Background()

	unread, err := f.service.UnreadCount(ctx, f.student.Viewer())
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	got, err := f.service.Get(ctx, f.student.Viewer(), item.ID)
	require.NoError(t, err)
	require.True(t, got.IsRead)

	unread, err = f.service.UnreadCount(ctx, f.student.Viewer())
	require.NoError(t, err)
	require.Zero(t, unread)

	items, err := f.service.ListVisible(ctx, f.student.Viewer())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].IsRead)

	viewed, err := f.service.Get(ctx, f.instructor.Viewer(), item.ID)
	require.NoError(t, err)
	require.False(t, viewed.IsRead)

	readers, err := f.service.announcements.CountReaders(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), readers)
}

func TestGetHidesAnnouncementsOutsideScope(t *testing.T) {
	f := newAnnouncementFixture(t, true)
	item := f.seed(t, f.other, "Art news", f.now.Add(-time.Hour), nil)

	_, err := f.service.Get(context.Background(), f.student.Viewer(), item.ID)
	require.ErrorIs(t, err, ErrAnnouncementNotFound)

	_, err = f.service.Get(context.Background(), f.admin.Viewer(), item.ID)
	require.NoError(t, err)
}
