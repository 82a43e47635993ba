package repository

import (
	"errors"

	"ponto-bot/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserExists   = errors.New("usuário já existe")
	ErrUserNotFound = errors.New("usuário não encontrado")
)

type UserRepository interface {
	Create(user *models.User) error
	GetByChatID(chatID int64) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Update(user *models.User) error
	Delete(chatID int64) error
	Exists(chatID int64) (bool, error)
	GetAll() ([]*models.User, error)
	UpdateRole(chatID int64, role models.Role) error
	GetManagers() ([]*models.User, error)
	GetStats() (int, int, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	// Автомиграция - создает таблицы если их нет
	err := db.AutoMigrate(&models.User{})
	if err != nil {
		return nil, err
	}

	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) Create(user *models.User) error {
	// Проверяем, существует ли уже пользователь
	var existingUser models.User
	result := r.db.Where("chat_id = ?", user.ChatID).First(&existingUser)
	if result.Error == nil {
		return ErrUserExists
	}

	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByChatID(chatID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("chat_id = ?", chatID).First(&user)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	// Проверяем существование пользователя
	var existingUser models.User
	result := r.db.Where("chat_id = ?", user.ChatID).First(&existingUser)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	return r.db.Save(user).Error
}

func (r *GormUserRepository) Delete(chatID int64) error {
	result := r.db.Where("chat_id = ?", chatID).Delete(&models.User{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *GormUserRepository) Exists(chatID int64) (bool, error) {
	var count int64
	result := r.db.Model(&models.User{}).Where("chat_id = ?", chatID).Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *GormUserRepository) GetAll() ([]*models.User, error) {
	var users []*models.User
	result := r.db.Order("first_name ASC").Find(&users)

	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (r *GormUserRepository) UpdateRole(chatID int64, role models.Role) error {
	result := r.db.Model(&models.User{}).
		Where("chat_id = ?", chatID).
		Update("role", string(role))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetManagers возвращает менеджеров, RH и администраторов
func (r *GormUserRepository) GetManagers() ([]*models.User, error) {
	var managers []*models.User
	result := r.db.Where("role IN ?", []string{
		string(models.RoleManager),
		string(models.RoleHR),
		string(models.RoleAdmin),
	}).Find(&managers)

	if result.Error != nil {
		return nil, result.Error
	}

	return managers, nil
}

// GetStats возвращает общее число пользователей и число стажеров
func (r *GormUserRepository) GetStats() (int, int, error) {
	var total int64
	var interns int64

	result := r.db.Model(&models.User{}).Count(&total)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	result = r.db.Model(&models.User{}).
		Where("role = ?", string(models.RoleIntern)).
		Count(&interns)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	return int(total), int(interns), nil
}
