package repository

import (
	"github.com/ecommerce-project/backend/internal/models"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetByIDs resolves a set of group ids. Callers compare the result length
// against the request to detect ids that do not exist: group validation
// happens before the user row is created.
func (r *GroupRepository) GetByIDs(ids []uint) ([]models.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var groups []models.Group
	if err := r.db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}
