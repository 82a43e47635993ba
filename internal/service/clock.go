package service

import (
	"fmt"
	"time"

	"ponto-bot/internal/ledger"
	"ponto-bot/internal/metrics"
	"ponto-bot/internal/models"
	"ponto-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// Допуск на расхождение часов клиента и сервера
const futureTolerance = time.Minute

type ClockService struct {
	eventRepo repository.ClockEventRepository
	notifier  ChangeNotifier
	recorder  metrics.Recorder
	logger    *logrus.Logger
}

func NewClockService(
	eventRepo repository.ClockEventRepository,
	notifier ChangeNotifier,
	recorder metrics.Recorder,
	logger *logrus.Logger,
) *ClockService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ClockService{
		eventRepo: eventRepo,
		notifier:  notifier,
		recorder:  recorder,
		logger:    logger,
	}
}

// Register записывает отметку сотрудника. Последовательность типов не проверяется:
// странная последовательность только логируется, расчет баланса ее переварит.
func (s *ClockService) Register(sess Session, eventType ledger.EventType, at time.Time, observation string) (*models.ClockEvent, error) {
	if sess.User == nil {
		return nil, ErrForbidden
	}
	if !eventType.Known() {
		return nil, fmt.Errorf("%w: tipo de ponto %q", ErrInvalidInput, eventType)
	}
	if at.After(sess.Now.Add(futureTolerance)) {
		return nil, ErrFutureEvent
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": sess.User.ID,
		"type":    eventType,
		"at":      at.In(sess.Location).Format("2006-01-02 15:04"),
	}).Info("User registering clock event")

	if expected := s.expectedTypes(sess, at); !containsType(expected, eventType) {
		s.logger.WithFields(logrus.Fields{
			"user_id":  sess.User.ID,
			"type":     eventType,
			"expected": expected,
		}).Warn("Unusual clock event sequence, accepting anyway")
	}

	event := &models.ClockEvent{
		UserID:      sess.User.ID,
		Type:        string(eventType),
		Timestamp:   at,
		Observation: observation,
	}

	if err := s.eventRepo.Create(event); err != nil {
		s.logger.WithError(err).Error("Failed to register clock event")
		return nil, err
	}

	s.recorder.RecordEventRegistered(event.Type)
	s.notifier.Notify(sess.User.ID)

	return event, nil
}

// NextSuggestedTypes какие отметки ожидаются следующими по сегодняшнему дню
func (s *ClockService) NextSuggestedTypes(sess Session) []ledger.EventType {
	return s.expectedTypes(sess, sess.Now)
}

func (s *ClockService) expectedTypes(sess Session, at time.Time) []ledger.EventType {
	dayStart := ledger.StartOfDay(at.In(sess.Location))
	events, err := s.eventRepo.ListByUserBetween(sess.User.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load day events for suggestion")
		return ledger.EventTypes()
	}

	// последняя известная отметка до момента at
	var last ledger.EventType
	for _, e := range events {
		if e.Timestamp.After(at) {
			break
		}
		if t := ledger.EventType(e.Type); t.Known() {
			last = t
		}
	}

	return SuggestAfter(last)
}

// SuggestAfter ожидаемые отметки после указанной ("" - день еще не начат)
func SuggestAfter(last ledger.EventType) []ledger.EventType {
	switch last {
	case ledger.EventEntrada, ledger.EventVolta:
		return []ledger.EventType{ledger.EventPausa, ledger.EventSaida}
	case ledger.EventPausa:
		return []ledger.EventType{ledger.EventVolta}
	default:
		return []ledger.EventType{ledger.EventEntrada}
	}
}

func containsType(types []ledger.EventType, t ledger.EventType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
