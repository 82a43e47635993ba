package models

import (
	"fmt"
	"time"

	"ponto-bot/internal/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClockEvent отметка сотрудника (entrada, pausa, volta, saida)
type ClockEvent struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_clock_events_user_ts,priority:1" json:"user_id"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Timestamp   time.Time `gorm:"not null;index:idx_clock_events_user_ts,priority:2" json:"timestamp"`
	Observation string    `json:"observation"`

	// Кто вставил или правил отметку вручную (nil - отметка самого сотрудника)
	EditedBy *uint `json:"edited_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClockEvent) TableName() string {
	return "clock_events"
}

// BeforeCreate хук для генерации идентификатора
func (e *ClockEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// BeforeSave хранит время в UTC, чтобы строки в SQLite сравнивались корректно
func (e *ClockEvent) BeforeSave(tx *gorm.DB) error {
	e.Timestamp = e.Timestamp.UTC()
	return nil
}

// IsValid проверяет валидность данных
func (e *ClockEvent) IsValid() bool {
	if e.UserID == 0 {
		return false
	}
	if e.Timestamp.IsZero() {
		return false
	}
	if !ledger.EventType(e.Type).Known() {
		return false
	}
	return true
}

// IsManual проверяет, вставлена ли отметка администратором
func (e *ClockEvent) IsManual() bool {
	return e.EditedBy != nil
}

// ToLedgerEvent переводит запись в событие для расчета баланса
func (e *ClockEvent) ToLedgerEvent() ledger.Event {
	return ledger.Event{
		Type:        ledger.EventType(e.Type),
		Timestamp:   e.Timestamp,
		PersonID:    e.UserID,
		Observation: e.Observation,
	}
}

// ToLedgerEvents переводит список записей
func ToLedgerEvents(events []*ClockEvent) []ledger.Event {
	result := make([]ledger.Event, 0, len(events))
	for _, e := range events {
		result = append(result, e.ToLedgerEvent())
	}
	return result
}

// ShortID первые символы идентификатора для команд бота
func (e *ClockEvent) ShortID() string {
	return e.ID.String()[:8]
}

// FormatLine форматирует отметку одной строкой
func (e *ClockEvent) FormatLine(loc *time.Location) string {
	line := fmt.Sprintf("%s %s %s", e.ShortID(), e.Timestamp.In(loc).Format("15:04"), TypeLabel(e.Type))
	if e.IsManual() {
		line += " ✍️"
	}
	if e.Observation != "" {
		line += " - " + e.Observation
	}
	return line
}

// TypeLabel подпись типа отметки для пользователя
func TypeLabel(t string) string {
	switch ledger.EventType(t) {
	case ledger.EventEntrada:
		return "🟢 Entrada"
	case ledger.EventPausa:
		return "⏸ Pausa"
	case ledger.EventVolta:
		return "▶️ Volta"
	case ledger.EventSaida:
		return "🔴 Saída"
	}
	return "❔ " + t
}
