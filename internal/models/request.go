package models

import "time"

// Request заявка сотрудника: отпуск, больничный, отгул или корректировка отметки
type Request struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	// Только для корректировки: какую отметку вставить
	ProposedType string     `gorm:"type:varchar(20)" json:"proposed_type"`
	ProposedAt   *time.Time `json:"proposed_at"`

	Reason     string     `json:"reason"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID *uint      `json:"reviewer_id"`
	ReviewNote string     `json:"review_note"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (Request) TableName() string {
	return "requests"
}

const (
	RequestTypeVacation   = "ferias"
	RequestTypeSickLeave  = "atestado"
	RequestTypeDayOff     = "folga"
	RequestTypeAdjustment = "ajuste"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// IsPending проверяет, ждет ли заявка решения
func (r *Request) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsAbsence отпуск, больничный или отгул
func (r *Request) IsAbsence() bool {
	switch r.Type {
	case RequestTypeVacation, RequestTypeSickLeave, RequestTypeDayOff:
		return true
	}
	return false
}

// Days количество календарных дней периода
func (r *Request) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// IsValid проверяет валидность данных
func (r *Request) IsValid() bool {
	if r.UserID == 0 {
		return false
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() || r.EndDate.Before(r.StartDate) {
		return false
	}
	if r.Type == RequestTypeAdjustment {
		return r.ProposedAt != nil && r.ProposedType != ""
	}
	return r.IsAbsence()
}

// RequestTypeLabel подпись типа заявки
func RequestTypeLabel(t string) string {
	switch t {
	case RequestTypeVacation:
		return "🏖️ Férias"
	case RequestTypeSickLeave:
		return "🤒 Atestado"
	case RequestTypeDayOff:
		return "🌴 Folga"
	case RequestTypeAdjustment:
		return "🛠 Ajuste de ponto"
	}
	return t
}

// RequestStatusLabel подпись статуса заявки
func RequestStatusLabel(s string) string {
	switch s {
	case RequestStatusPending:
		return "⏳ pendente"
	case RequestStatusApproved:
		return "✅ aprovada"
	case RequestStatusRejected:
		return "❌ recusada"
	}
	return s
}
