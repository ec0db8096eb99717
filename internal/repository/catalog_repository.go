package repository

import (
	"errors"

	"github.com/ecommerce-project/backend/internal/models"
	"gorm.io/gorm"
)

type CategoriaRepository struct {
	db *gorm.DB
}

func NewCategoriaRepository(db *gorm.DB) *CategoriaRepository {
	return &CategoriaRepository{db: db}
}

func (r *CategoriaRepository) GetAll() ([]models.Categoria, error) {
	var categorias []models.Categoria
	if err := r.db.Find(&categorias).Error; err != nil {
		return nil, err
	}
	return categorias, nil
}

func (r *CategoriaRepository) GetByID(id uint) (*models.Categoria, error) {
	var categoria models.Categoria
	err := r.db.First(&categoria, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &categoria, nil
}

func (r *CategoriaRepository) GetByName(nombre string) (*models.Categoria, error) {
	var categoria models.Categoria
	err := r.db.Where("nombre_categoria = ?", nombre).First(&categoria).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &categoria, nil
}

func (r *CategoriaRepository) Create(categoria *models.Categoria) error {
	return r.db.Create(categoria).Error
}

func (r *CategoriaRepository) Update(categoria *models.Categoria) error {
	return r.db.Save(categoria).Error
}

// Delete removes the category; products referencing it go with it
// through the FK cascade.
func (r *CategoriaRepository) Delete(id uint) error {
	return r.db.Delete(&models.Categoria{}, id).Error
}

type ProductoRepository struct {
	db *gorm.DB
}

func NewProductoRepository(db *gorm.DB) *ProductoRepository {
	return &ProductoRepository{db: db}
}

// GetAll returns every product unfiltered, matching the list contract.
func (r *ProductoRepository) GetAll() ([]models.Producto, error) {
	var productos []models.Producto
	if err := r.db.Find(&productos).Error; err != nil {
		return nil, err
	}
	return productos, nil
}

func (r *ProductoRepository) GetByID(id uint) (*models.Producto, error) {
	var producto models.Producto
	err := r.db.First(&producto, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &producto, nil
}

func (r *ProductoRepository) Create(producto *models.Producto) error {
	return r.db.Create(producto).Error
}

func (r *ProductoRepository) Update(producto *models.Producto) error {
	return r.db.Save(producto).Error
}

func (r *ProductoRepository) Delete(id uint) error {
	return r.db.Delete(&models.Producto{}, id).Error
}
