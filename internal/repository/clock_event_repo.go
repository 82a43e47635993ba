package repository

import (
	"errors"
	"time"

	"ponto-bot/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidEvent  = errors.New("invalid clock event")
	ErrEventNotFound = errors.New("clock event not found")
)

type ClockEventRepository interface {
	Create(event *models.ClockEvent) error
	Update(event *models.ClockEvent) error
	Delete(id uuid.UUID) error
	GetByID(id uuid.UUID) (*models.ClockEvent, error)
	FindByShortID(userID uint, prefix string) (*models.ClockEvent, error)
	ListByUser(userID uint) ([]*models.ClockEvent, error)
	ListByUserBetween(userID uint, from, to time.Time) ([]*models.ClockEvent, error)
	LastByUser(userID uint) (*models.ClockEvent, error)
	DeleteByUserID(userID uint) error
}

type GormClockEventRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormClockEventRepository(db *gorm.DB, logger *logrus.Logger) (*GormClockEventRepository, error) {
	// Автомиграция
	if err := db.AutoMigrate(&models.ClockEvent{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate clock_events table")
		return nil, err
	}

	logger.Debug("Clock event repository initialized")

	return &GormClockEventRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormClockEventRepository) Create(event *models.ClockEvent) error {
	if !event.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"user_id": event.UserID,
			"type":    event.Type,
		}).Warn("Invalid clock event data")
		return ErrInvalidEvent
	}

	result := r.db.Create(event)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create clock event")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":        event.ID,
		"user_id":   event.UserID,
		"type":      event.Type,
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}).Info("Clock event created")

	return nil
}

func (r *GormClockEventRepository) Update(event *models.ClockEvent) error {
	if !event.IsValid() {
		r.logger.WithField("id", event.ID).Warn("Invalid clock event data for update")
		return ErrInvalidEvent
	}

	// Проверяем существование
	existing, err := r.GetByID(event.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		r.logger.WithField("id", event.ID).Warn("Clock event not found for update")
		return ErrEventNotFound
	}

	result := r.db.Save(event)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update clock event")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":        event.ID,
		"user_id":   event.UserID,
		"timestamp": event.Timestamp.Format(time.RFC3339),
	}).Info("Clock event updated")

	return nil
}

func (r *GormClockEventRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.ClockEvent{}, "id = ?", id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete clock event")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Clock event not found for deletion")
		return ErrEventNotFound
	}

	r.logger.WithField("id", id).Info("Clock event deleted")
	return nil
}

func (r *GormClockEventRepository) GetByID(id uuid.UUID) (*models.ClockEvent, error) {
	var event models.ClockEvent
	result := r.db.First(&event, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get clock event by ID")
		return nil, result.Error
	}

	return &event, nil
}

// FindByShortID ищет отметку сотрудника по началу идентификатора
func (r *GormClockEventRepository) FindByShortID(userID uint, prefix string) (*models.ClockEvent, error) {
	var events []models.ClockEvent
	result := r.db.Where("user_id = ? AND id LIKE ?", userID, prefix+"%").Limit(2).Find(&events)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to find clock event by short ID")
		return nil, result.Error
	}

	// Неоднозначный префикс считаем ненайденным
	if len(events) != 1 {
		return nil, nil
	}

	return &events[0], nil
}

func (r *GormClockEventRepository) ListByUser(userID uint) ([]*models.ClockEvent, error) {
	var events []*models.ClockEvent
	result := r.db.Where("user_id = ?", userID).Order("timestamp ASC").Find(&events)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list clock events by user")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(events),
	}).Debug("Retrieved clock events by user")

	return events, nil
}

// ListByUserBetween отметки в полуинтервале [from, to)
func (r *GormClockEventRepository) ListByUserBetween(userID uint, from, to time.Time) ([]*models.ClockEvent, error) {
	var events []*models.ClockEvent
	result := r.db.Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from.UTC(), to.UTC()).
		Order("timestamp ASC").
		Find(&events)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list clock events by user and range")
		return nil, result.Error
	}

	return events, nil
}

func (r *GormClockEventRepository) LastByUser(userID uint) (*models.ClockEvent, error) {
	var event models.ClockEvent
	result := r.db.Where("user_id = ?", userID).Order("timestamp DESC").First(&event)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get last clock event")
		return nil, result.Error
	}

	return &event, nil
}

func (r *GormClockEventRepository) DeleteByUserID(userID uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.ClockEvent{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete user clock events")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":       userID,
		"rows_affected": result.RowsAffected,
	}).Info("User clock events deleted")

	return nil
}
