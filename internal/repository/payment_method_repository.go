package repository

import (
	"github.com/ecommerce-project/backend/internal/models"
	"gorm.io/gorm"
)

type MetodoPagoRepository struct {
	db *gorm.DB
}

func NewMetodoPagoRepository(db *gorm.DB) *MetodoPagoRepository {
	return &MetodoPagoRepository{db: db}
}

func (r *MetodoPagoRepository) GetAll() ([]models.MetodoPago, error) {
	var metodos []models.MetodoPago
	if err := r.db.Find(&metodos).Error; err != nil {
		return nil, err
	}
	return metodos, nil
}

func (r *MetodoPagoRepository) Create(metodo *models.MetodoPago) error {
	return r.db.Create(metodo).Error
}
