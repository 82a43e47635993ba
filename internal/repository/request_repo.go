package repository

import (
	"errors"
	"time"

	"ponto-bot/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("pedido não encontrado")

type RequestRepository interface {
	Create(request *models.Request) error
	GetByID(id uint) (*models.Request, error)
	ListByUser(userID uint) ([]models.Request, error)
	ListPending() ([]models.Request, error)
	Review(id uint, reviewerID uint, status, note string, at time.Time) error
	Reopen(id uint) error
	CheckPeriodConflict(userID uint, startDate, endDate time.Time) (bool, error)
	DeleteByUserID(userID uint) error
}

type GormRequestRepository struct {
	db *gorm.DB
}

func NewGormRequestRepository(db *gorm.DB) (*GormRequestRepository, error) {
	if err := db.AutoMigrate(&models.Request{}); err != nil {
		return nil, err
	}
	return &GormRequestRepository{db: db}, nil
}

func (r *GormRequestRepository) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

func (r *GormRequestRepository) GetByID(id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.Preload("User").First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormRequestRepository) ListByUser(userID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *GormRequestRepository) ListPending() ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Preload("User").
		Where("status = ?", models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

// Review меняет статус только у ожидающей заявки
func (r *GormRequestRepository) Review(id uint, reviewerID uint, status, note string, at time.Time) error {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewer_id": reviewerID,
			"review_note": note,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Reopen возвращает одобренную заявку в ожидание
func (r *GormRequestRepository) Reopen(id uint) error {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestStatusApproved).
		Updates(map[string]interface{}{
			"status":      models.RequestStatusPending,
			"reviewer_id": nil,
			"review_note": "",
			"reviewed_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// CheckPeriodConflict ищет пересечения с отпусками/больничными/отгулами, кроме отклоненных
func (r *GormRequestRepository) CheckPeriodConflict(userID uint, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Request{}).
		Where("user_id = ? AND type IN ? AND status <> ?",
			userID,
			[]string{models.RequestTypeVacation, models.RequestTypeSickLeave, models.RequestTypeDayOff},
			models.RequestStatusRejected).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRequestRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Request{}).Error
}
