package main

import (
	"log"
	"os"

	"github.com/ecommerce-project/backend/internal/config"
	"github.com/ecommerce-project/backend/internal/database"
	"github.com/ecommerce-project/backend/internal/models"
	"github.com/ecommerce-project/backend/internal/utils"
	"github.com/google/uuid"
)

// Seeds the base roles, model permissions, payment methods and a staff
// admin account. Safe to run repeatedly.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	seedRoles()
	seedPermissions()
	seedPaymentMethods()
	seedAdmin()
}

func seedRoles() {
	roles := []models.Rol{
		{Nombre: "Administrador", Descripcion: "Administrador del sistema"},
		{Nombre: "Cliente", Descripcion: "Comprador"},
	}

	for _, rol := range roles {
		var existing models.Rol
		if err := database.DB.Where("nombre = ?", rol.Nombre).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&rol).Error; err != nil {
			log.Fatal("Failed to seed role:", err)
		}
		log.Println("Created role:", rol.Nombre)
	}
}

func seedPermissions() {
	entities := []string{"categoria", "producto"}
	actions := map[string]string{
		"view":   "Puede ver",
		"add":    "Puede añadir",
		"change": "Puede cambiar",
		"delete": "Puede eliminar",
	}

	var perms []models.Permission
	for _, entity := range entities {
		for action, label := range actions {
			perms = append(perms, models.Permission{
				Name:     label + " " + entity,
				Codename: action + "_" + entity,
			})
		}
	}

	var group models.Group
	groupExists := database.DB.Where("name = ?", "vendedores").First(&group).Error == nil

	for _, perm := range perms {
		var existing models.Permission
		if err := database.DB.Where("codename = ?", perm.Codename).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&perm).Error; err != nil {
			log.Fatal("Failed to seed permission:", err)
		}
	}

	// Default "vendedores" group carries the full catalog permission set.
	if !groupExists {
		var all []models.Permission
		if err := database.DB.Find(&all).Error; err != nil {
			log.Fatal("Failed to load permissions:", err)
		}
		group = models.Group{Name: "vendedores", Permissions: all}
		if err := database.DB.Create(&group).Error; err != nil {
			log.Fatal("Failed to seed group:", err)
		}
		log.Println("Created group: vendedores")
	}
}

func seedPaymentMethods() {
	metodos := []string{"Tarjeta de crédito", "Tarjeta de débito", "Transferencia", "Efectivo"}

	for _, tipo := range metodos {
		var existing models.MetodoPago
		if err := database.DB.Where("tipo_pago = ?", tipo).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&models.MetodoPago{TipoPago: tipo}).Error; err != nil {
			log.Fatal("Failed to seed payment method:", err)
		}
	}
}

func seedAdmin() {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminCedula := os.Getenv("ADMIN_CEDULA")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" || adminCedula == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_CEDULA")
	}

	var admin models.User
	if err := database.DB.Where("email = ?", adminEmail).First(&admin).Error; err == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	var rol models.Rol
	if err := database.DB.Where("nombre = ?", "Administrador").First(&rol).Error; err != nil {
		log.Fatal("Administrador role missing:", err)
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Cedula:       adminCedula,
		IsActive:     true,
		IsStaff:      true,
		RolID:        &rol.ID,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully:", admin.Username)
}
