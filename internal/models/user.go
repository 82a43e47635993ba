package models

import (
	"time"

	"ponto-bot/internal/ledger"
)

type Role string

const (
	RoleEmployee Role = "funcionario"
	RoleIntern   Role = Role(ledger.RoleIntern)
	RoleManager  Role = "gestor"
	RoleHR       Role = "rh"
	RoleAdmin    Role = "admin"
)

// Roles все допустимые роли
func Roles() []Role {
	return []Role{RoleEmployee, RoleIntern, RoleManager, RoleHR, RoleAdmin}
}

// ParseRole проверяет строку роли
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	ChatID    int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Username  string `json:"username"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `gorm:"default:'funcionario'" json:"role"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

// CanManage менеджер, RH и администратор могут править отметки и рассматривать заявки
func (u *User) CanManage() bool {
	switch Role(u.Role) {
	case RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// SetRole устанавливает роль
func (u *User) SetRole(role Role) {
	u.Role = string(role)
}

// Target дневная норма сотрудника
func (u *User) Target() time.Duration {
	return ledger.TargetDuration(ledger.Role(u.Role))
}

// FullName имя и фамилия
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TableName задает имя таблицы в БД
func (User) TableName() string {
	return "users"
}
