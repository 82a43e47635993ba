package models

import "time"

// Broadcast рассылка от менеджера всем сотрудникам
type Broadcast struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	Text       string    `gorm:"not null" json:"text"`
	Recipients int       `gorm:"not null;default:0" json:"recipients"`
	Failed     int       `gorm:"not null;default:0" json:"failed"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}

func (Broadcast) TableName() string {
	return "broadcasts"
}
