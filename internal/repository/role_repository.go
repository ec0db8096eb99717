package repository

import (
	"errors"

	"github.com/ecommerce-project/backend/internal/models"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetOrCreate looks up a role by name and creates it with the default
// description when absent. Registration never fails because of an
// unknown role name.
func (r *RoleRepository) GetOrCreate(nombre, defaultDescripcion string) (*models.Rol, error) {
	var rol models.Rol
	err := r.db.Where("nombre = ?", nombre).First(&rol).Error

	if err == nil {
		return &rol, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rol = models.Rol{Nombre: nombre, Descripcion: defaultDescripcion}
	if err := r.db.Create(&rol).Error; err != nil {
		return nil, err
	}

	return &rol, nil
}

func (r *RoleRepository) GetByName(nombre string) (*models.Rol, error) {
	var rol models.Rol
	err := r.db.Where("nombre = ?", nombre).First(&rol).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rol, nil
}
