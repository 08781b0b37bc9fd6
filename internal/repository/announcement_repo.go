package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// AnnouncementFilter filters announcement list queries.
type AnnouncementFilter struct {
	Viewer models.Viewer
	// ActiveAt excludes announcements that expired at or before the given time.
	ActiveAt *time.Time
	Limit    int
}

// AnnouncementRepository exposes persistence helpers for announcements.
type AnnouncementRepository interface {
	GetByID(ctx context.Context, id uint) (models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	ListVisible(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, error)
	CountUnread(ctx context.Context, filter AnnouncementFilter) (int64, error)
	MarkRead(ctx context.Context, announcementID, userID uint) (bool, error)
	ReadSet(ctx context.Context, userID uint, announcementIDs []uint) (map[uint]bool, error)
	CountReaders(ctx context.Context, announcementID uint) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs the repository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Preload("Course").First(&announcement, id).Error; err != nil {
		return models.Announcement{}, err
	}

	return announcement, nil
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.db.WithContext(ctx).Omit("Course", "Instructor").Create(announcement).Error
}

func (r *announcementRepository) visibleQuery(ctx context.Context, filter AnnouncementFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Announcement{}).Where("announcements.is_active = ?", true)

	if ids, scoped := visibleCourseIDs(r.db, filter.Viewer); scoped {
		query = query.Where("announcements.course_id IN (?)", ids)
	}

	if filter.ActiveAt != nil {
		query = query.Where("announcements.expires_at IS NULL OR announcements.expires_at > ?", *filter.ActiveAt)
	}

	return query
}

func (r *announcementRepository) ListVisible(ctx context.Context, filter AnnouncementFilter) ([]models.Announcement, error) {
	query := r.visibleQuery(ctx, filter).Preload("Course")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var items []models.Announcement
	if err := query.Order("announcements.created_at DESC, announcements.id DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *announcementRepository) CountUnread(ctx context.Context, filter AnnouncementFilter) (int64, error) {
	read := r.db.Model(&models.AnnouncementRead{}).
		Select("announcement_id").
		Where("user_id = ?", filter.Viewer.ID)

	var total int64
	err := r.visibleQuery(ctx, filter).
		Where("announcements.id NOT IN (?)", read).
		Count(&total).Error
	return total, err
}

// MarkRead adds the user to the announcement's read set and reports whether a
// row was inserted. Repeated calls are no-ops that report false.
func (r *announcementRepository) MarkRead(ctx context.Context, announcementID, userID uint) (bool, error) {
	read := models.AnnouncementRead{AnnouncementID: announcementID, UserID: userID}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&read)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *announcementRepository) ReadSet(ctx context.Context, userID uint, announcementIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(announcementIDs))
	if len(announcementIDs) == 0 {
		return result, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.AnnouncementRead{}).
		Where("user_id = ? AND announcement_id IN ?", userID, announcementIDs).
		Pluck("announcement_id", &ids).Error; err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *announcementRepository) CountReaders(ctx context.Context, announcementID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.AnnouncementRead{}).
		Where("announcement_id = ?", announcementID).
		Count(&total).Error
	return total, err
}
