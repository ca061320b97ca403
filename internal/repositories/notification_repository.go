package repositories

import (
	"time"

	"github.com/arkodeep/vibely/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	CreateNotification(notification *models.Notification) error
	// Exists reports whether the recipient already has a notification of
	// the given type for the notifiable. This is the mention dedup key.
	Exists(notifiable models.Ref, recipientID uint, notificationType models.NotificationType) (bool, error)
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	// GetGrouped buckets the recipient's notifications by age for the
	// inbox view: today, yesterday, the rest of the last week, older.
	GetGrouped(recipientID uint) (today, yesterday, thisWeek, older []models.Notification, retErr error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: tx}
}

func (r *gormNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *gormNotificationRepository) Exists(notifiable models.Ref, recipientID uint, notificationType models.NotificationType) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("notifiable_kind = ? AND notifiable_id = ? AND recipient_id = ? AND notification_type = ?",
			notifiable.Kind, notifiable.ID, recipientID, notificationType).
		Count(&count).Error
	return count > 0, err
}

func (r *gormNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *gormNotificationRepository) GetGrouped(recipientID uint) (today, yesterday, thisWeek, older []models.Notification, retErr error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	bucket := func(dst *[]models.Notification, conds string, args ...any) error {
		return r.db.Where("recipient_id = ?", recipientID).
			Where(conds, args...).
			Order("created_at DESC, id DESC").
			Find(dst).Error
	}

	if err := bucket(&today, "created_at >= ?", todayStart); err != nil {
		return nil, nil, nil, nil, err
	}
	if err := bucket(&yesterday, "created_at >= ? AND created_at < ?", yesterdayStart, todayStart); err != nil {
		return nil, nil, nil, nil, err
	}
	if err := bucket(&thisWeek, "created_at >= ? AND created_at < ?", weekStart, yesterdayStart); err != nil {
		return nil, nil, nil, nil, err
	}

	// The older bucket is capped so an ancient inbox stays bounded.
	err := r.db.Where("recipient_id = ? AND created_at < ?", recipientID, weekStart).
		Order("created_at DESC, id DESC").
		Limit(50).
		Find(&older).Error
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return today, yesterday, thisWeek, older, nil
}

func (r *gormNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}

// MarkAsRead stamps read_at on an unread notification. Scoped to the
// recipient so one user cannot mark another user's notification.
func (r *gormNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, recipientID).
		Update("read_at", &now).Error
}

func (r *gormNotificationRepository) MarkAllAsRead(recipientID uint) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", &now).Error
}
