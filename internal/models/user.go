package models

import (
	"time"

	"github.com/google/uuid"
)

// Rol is a named permission tier ("Administrador", "Cliente", ...).
// It is distinct from Groups: the role name travels inside access tokens
// as a claim, groups carry model-level permissions.
type Rol struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Nombre      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"nombre"`
	Descripcion string `gorm:"type:text" json:"descripcion"`
}

func (Rol) TableName() string {
	return "roles"
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"type:varchar(50)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(50)" json:"last_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Cedula       string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"cedula"`
	Direccion    string    `gorm:"type:varchar(255)" json:"direccion"`
	Telefono     string    `gorm:"type:varchar(20)" json:"telefono"`

	// Accounts start inactive and flip to active exactly once,
	// through the email activation flow.
	IsActive bool `gorm:"not null;default:false" json:"is_active"`
	IsStaff  bool `gorm:"not null;default:false" json:"is_staff"`

	RolID *uint `json:"-"`
	Rol   *Rol  `gorm:"foreignKey:RolID" json:"rol,omitempty"`

	Groups      []Group      `gorm:"many2many:user_groups;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
	Permissions []Permission `gorm:"many2many:user_permissions;constraint:OnDelete:CASCADE" json:"-"`

	// LastLogin participates in activation-token invalidation:
	// once it changes, outstanding activation links die.
	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RolNombre returns the role name or empty when no role is attached.
func (u *User) RolNombre() string {
	if u.Rol == nil {
		return ""
	}
	return u.Rol.Nombre
}
