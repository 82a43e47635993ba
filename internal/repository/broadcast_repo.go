package repository

import (
	"ponto-bot/internal/models"

	"gorm.io/gorm"
)

type BroadcastRepository interface {
	Create(broadcast *models.Broadcast) error
	ListRecent(limit int) ([]models.Broadcast, error)
}

type GormBroadcastRepository struct {
	db *gorm.DB
}

func NewGormBroadcastRepository(db *gorm.DB) (*GormBroadcastRepository, error) {
	if err := db.AutoMigrate(&models.Broadcast{}); err != nil {
		return nil, err
	}
	return &GormBroadcastRepository{db: db}, nil
}

func (r *GormBroadcastRepository) Create(broadcast *models.Broadcast) error {
	return r.db.Create(broadcast).Error
}

func (r *GormBroadcastRepository) ListRecent(limit int) ([]models.Broadcast, error) {
	var broadcasts []models.Broadcast
	query := r.db.Preload("Sender").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&broadcasts).Error
	return broadcasts, err
}
