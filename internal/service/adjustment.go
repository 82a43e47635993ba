package service

import (
	"fmt"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// AdjustmentService ручные правки отметок менеджером или RH
type AdjustmentService struct {
	eventRepo repository.ClockEventRepository
	userRepo  repository.UserRepository
	notifier  ChangeNotifier
	logger    *logrus.Logger
}

func NewAdjustmentService(
	eventRepo repository.ClockEventRepository,
	userRepo repository.UserRepository,
	notifier ChangeNotifier,
	logger *logrus.Logger,
) *AdjustmentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &AdjustmentService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// EventEdit изменения отметки; nil - поле не меняется
type EventEdit struct {
	Timestamp   *time.Time
	Observation *string
}

// InsertEvent вставляет отметку за сотрудника
func (s *AdjustmentService) InsertEvent(sess Session, targetUserID uint, eventType ledger.EventType, at time.Time, observation string) (*models.ClockEvent, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	if !eventType.Known() {
		return nil, fmt.Errorf("%w: tipo de ponto %q", ErrInvalidInput, eventType)
	}

	target, err := s.userRepo.GetByID(targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	editor := sess.User.ID
	event := &models.ClockEvent{
		UserID:      target.ID,
		Type:        string(eventType),
		Timestamp:   at,
		Observation: observation,
		EditedBy:    &editor,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"editor_id": editor,
		"user_id":   target.ID,
		"event_id":  event.ID,
		"type":      event.Type,
	}).Info("Clock event inserted by manager")

	s.notifier.Notify(target.ID)
	return event, nil
}

// EditEvent меняет время и/или комментарий отметки
func (s *AdjustmentService) EditEvent(sess Session, targetUserID uint, shortID string, edit EventEdit) (*models.ClockEvent, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	if edit.Timestamp == nil && edit.Observation == nil {
		return nil, fmt.Errorf("%w: nada para alterar", ErrInvalidInput)
	}

	event, err := s.findEvent(targetUserID, shortID)
	if err != nil {
		return nil, err
	}

	if edit.Timestamp != nil {
		event.Timestamp = *edit.Timestamp
	}
	if edit.Observation != nil {
		event.Observation = *edit.Observation
	}
	editor := sess.User.ID
	event.EditedBy = &editor

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"editor_id": editor,
		"user_id":   event.UserID,
		"event_id":  event.ID,
	}).Info("Clock event edited by manager")

	s.notifier.Notify(event.UserID)
	return event, nil
}

// DeleteEvent удаляет отметку сотрудника
func (s *AdjustmentService) DeleteEvent(sess Session, targetUserID uint, shortID string) error {
	if err := sess.requireManager(); err != nil {
		return err
	}

	event, err := s.findEvent(targetUserID, shortID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(event.ID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"editor_id": sess.User.ID,
		"user_id":   event.UserID,
		"event_id":  event.ID,
	}).Info("Clock event deleted by manager")

	s.notifier.Notify(event.UserID)
	return nil
}

// DayEvents отметки сотрудника за день (для выбора, что править)
func (s *AdjustmentService) DayEvents(sess Session, targetUserID uint, day time.Time) ([]*models.ClockEvent, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}

	from := ledger.StartOfDay(day.In(sess.Location))
	return s.eventRepo.ListByUserBetween(targetUserID, from, from.AddDate(0, 0, 1))
}

// FindEvent отметка сотрудника по короткому ID
func (s *AdjustmentService) FindEvent(sess Session, targetUserID uint, shortID string) (*models.ClockEvent, error) {
	if err := sess.requireManager(); err != nil {
		return nil, err
	}
	return s.findEvent(targetUserID, shortID)
}

func (s *AdjustmentService) findEvent(targetUserID uint, shortID string) (*models.ClockEvent, error) {
	if len(shortID) < 4 {
		return nil, fmt.Errorf("%w: identificador curto demais", ErrInvalidInput)
	}

	event, err := s.eventRepo.FindByShortID(targetUserID, shortID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}
