package repository

import (
	"errors"

	"github.com/ecommerce-project/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Rol").Preload("Groups").Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByCedula(cedula string) (*models.User, error) {
	var user models.User
	err := r.db.Where("cedula = ?", cedula).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Rol").Preload("Groups").Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Activate flips is_active. The flow guarantees it happens at most once
// per account; the storage write itself is idempotent.
func (r *UserRepository) Activate(id uuid.UUID) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", true).Error
}

func (r *UserRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

func (r *UserRepository) UpdateLastLogin(id uuid.UUID) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// EffectivePermissions merges direct grants with everything inherited
// through group membership, deduplicated by codename.
func (r *UserRepository) EffectivePermissions(id uuid.UUID) ([]string, error) {
	var user models.User
	err := r.db.
		Preload("Permissions").
		Preload("Groups.Permissions").
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var codenames []string

	for _, p := range user.Permissions {
		if !seen[p.Codename] {
			seen[p.Codename] = true
			codenames = append(codenames, p.Codename)
		}
	}
	for _, g := range user.Groups {
		for _, p := range g.Permissions {
			if !seen[p.Codename] {
				seen[p.Codename] = true
				codenames = append(codenames, p.Codename)
			}
		}
	}

	return codenames, nil
}
