package service

import (
	"errors"
	"time"

	"ponto-bot/internal/models"
)

var (
	ErrForbidden    = errors.New("acesso negado")
	ErrNotFound     = errors.New("registro não encontrado")
	ErrInvalidInput = errors.New("dados inválidos")
	ErrFutureEvent  = errors.New("não é possível registrar ponto no futuro")
)

// Session неизменяемый контекст одного запроса: кто действует, в какой зоне и когда.
// Передается в сервисы явно вместо глобального состояния.
type Session struct {
	User     *models.User
	Location *time.Location
	Now      time.Time
}

// NewSession фиксирует текущий момент в зоне пользователя
func NewSession(user *models.User, loc *time.Location, now time.Time) Session {
	if loc == nil {
		loc = time.Local
	}
	return Session{User: user, Location: loc, Now: now.In(loc)}
}

// Today полночь текущего дня в зоне сессии
func (s Session) Today() time.Time {
	return time.Date(s.Now.Year(), s.Now.Month(), s.Now.Day(), 0, 0, 0, 0, s.Location)
}

// At момент сегодняшнего дня с указанными часами и минутами
func (s Session) At(hour, minute int) time.Time {
	return s.Today().Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (s Session) requireManager() error {
	if s.User == nil || !s.User.CanManage() {
		return ErrForbidden
	}
	return nil
}

// ChangeNotifier получает уведомления об изменении отметок сотрудника
type ChangeNotifier interface {
	Notify(personID uint)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uint) {}
