// Package ledger считает отработанное время и баланс по отметкам сотрудника.
// Пакет чистый: никакого I/O, никаких ошибок, один и тот же вход даёт один и тот же выход.
package ledger

import "time"

// EventType тип отметки
type EventType string

const (
	EventEntrada EventType = "entrada" // приход
	EventPausa   EventType = "pausa"   // начало перерыва
	EventVolta   EventType = "volta"   // конец перерыва
	EventSaida   EventType = "saida"   // уход
)

// EventTypes возвращает известные типы в порядке рабочего дня
func EventTypes() []EventType {
	return []EventType{EventEntrada, EventPausa, EventVolta, EventSaida}
}

// Known проверяет, что тип входит в четыре известных
func (t EventType) Known() bool {
	switch t {
	case EventEntrada, EventPausa, EventVolta, EventSaida:
		return true
	}
	return false
}

// Opens - entrada и volta открывают рабочий отрезок
func (t EventType) Opens() bool {
	return t == EventEntrada || t == EventVolta
}

// Closes - pausa и saida закрывают рабочий отрезок
func (t EventType) Closes() bool {
	return t == EventPausa || t == EventSaida
}

// Event одна отметка сотрудника
type Event struct {
	Type        EventType
	Timestamp   time.Time
	PersonID    uint
	Observation string
}

// DaySummary итог одного календарного дня. Никогда не хранится, всегда пересчитывается.
type DaySummary struct {
	DateKey     string
	Events      []Event // по времени
	TotalWorked time.Duration
	Balance     time.Duration
	Finalized   bool // последняя отметка дня - saida
	Open        bool // отрезок остался открытым
}

// Ledger результат расчета по всем дням одного человека
type Ledger struct {
	Days         map[string]DaySummary
	TotalBalance time.Duration
}
