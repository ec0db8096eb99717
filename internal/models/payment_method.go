package models

// MetodoPago is pure reference data: a payment type label with no
// workflow logic attached.
type MetodoPago struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TipoPago string `gorm:"type:varchar(50);not null" json:"tipo_pago"`
}

func (MetodoPago) TableName() string {
	return "metodos_pago"
}
