package models

import (
	"time"

	"github.com/google/uuid"
)

type Categoria struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	NombreCategoria string `gorm:"type:varchar(50);uniqueIndex;not null" json:"nombre_categoria"`
}

func (Categoria) TableName() string {
	return "categorias"
}

type Producto struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	NombreProducto string `gorm:"type:varchar(100);not null" json:"nombre_producto"`
	Descripcion    string `gorm:"type:text" json:"descripcion"`

	CategoriaID uint      `gorm:"not null;index" json:"categoria"`
	Categoria   Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:CASCADE" json:"-"`

	Precio float64 `gorm:"type:numeric(10,2);not null" json:"precio"`
	Stock  int     `gorm:"not null" json:"stock"`
	Ventas int     `gorm:"not null;default:0" json:"ventas"`

	// Owning seller; products disappear with their seller.
	VendedorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendedor"`
	Vendedor   User      `gorm:"foreignKey:VendedorID;constraint:OnDelete:CASCADE" json:"-"`

	// Raw image bytes; transported as a base64 data URI in JSON responses.
	Imagen []byte `gorm:"type:bytea" json:"-"`

	FechaCreacion       time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`
	FechaActualizacion  time.Time `gorm:"autoUpdateTime" json:"fecha_actualizacion"`
}

func (Producto) TableName() string {
	return "productos"
}
