package models

// Permission is a model-level grant checked by the catalog endpoints.
// Codenames follow the <action>_<entity> convention, e.g. "add_producto",
// "view_categoria", "change_producto", "delete_categoria".
type Permission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Codename string `gorm:"type:varchar(100);uniqueIndex;not null" json:"codename"`
}

// Group bundles permissions; users inherit every permission of every
// group they belong to, in addition to their direct grants.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:group_permissions;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}
