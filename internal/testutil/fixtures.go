package testutil

import (
	"github.com/ecommerce-project/backend/internal/models"
	"github.com/ecommerce-project/backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTestRol inserts (or finds) a role by name.
func CreateTestRol(db *gorm.DB, nombre string) (*models.Rol, error) {
	var rol models.Rol
	if err := db.Where("nombre = ?", nombre).First(&rol).Error; err == nil {
		return &rol, nil
	}

	rol = models.Rol{Nombre: nombre, Descripcion: "Comprador"}
	if err := db.Create(&rol).Error; err != nil {
		return nil, err
	}
	return &rol, nil
}

// CreateTestUser builds a user with a hashed password and attaches the
// given role. active controls the is_active flag.
func CreateTestUser(db *gorm.DB, username, email, cedula, password string, active bool) (*models.User, error) {
	rol, err := CreateTestRol(db, "Cliente")
	if err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		Cedula:       cedula,
		PasswordHash: passwordHash,
		Direccion:    "Av. Test 123",
		Telefono:     "3001112222",
		IsActive:     active,
		RolID:        &rol.ID,
		Rol:          rol,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTestStaffUser builds an active staff user.
func CreateTestStaffUser(db *gorm.DB, username, email, cedula, password string) (*models.User, error) {
	user, err := CreateTestUser(db, username, email, cedula, password, true)
	if err != nil {
		return nil, err
	}

	if err := db.Model(user).Update("is_staff", true).Error; err != nil {
		return nil, err
	}
	user.IsStaff = true
	return user, nil
}

// CreateTestCategoria inserts a category.
func CreateTestCategoria(db *gorm.DB, nombre string) (*models.Categoria, error) {
	categoria := &models.Categoria{NombreCategoria: nombre}
	if err := db.Create(categoria).Error; err != nil {
		return nil, err
	}
	return categoria, nil
}

// GrantPermissions attaches direct permission grants to a user,
// creating the permission rows on demand.
func GrantPermissions(db *gorm.DB, user *models.User, codenames ...string) error {
	for _, codename := range codenames {
		var perm models.Permission
		if err := db.Where("codename = ?", codename).First(&perm).Error; err != nil {
			perm = models.Permission{Name: codename, Codename: codename}
			if err := db.Create(&perm).Error; err != nil {
				return err
			}
		}
		if err := db.Model(user).Association("Permissions").Append(&perm); err != nil {
			return err
		}
	}
	return nil
}

// CreateTestGroup creates a group holding the given permissions.
func CreateTestGroup(db *gorm.DB, name string, codenames ...string) (*models.Group, error) {
	var perms []models.Permission
	for _, codename := range codenames {
		var perm models.Permission
		if err := db.Where("codename = ?", codename).First(&perm).Error; err != nil {
			perm = models.Permission{Name: codename, Codename: codename}
			if err := db.Create(&perm).Error; err != nil {
				return nil, err
			}
		}
		perms = append(perms, perm)
	}

	group := &models.Group{Name: name, Permissions: perms}
	if err := db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}
