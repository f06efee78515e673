package config

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"p9e.in/combustibles/models"
)

// SeedAdminUser makes sure the bootstrap admin account exists. It never
// overwrites an existing admin, so a changed password survives restarts.
func SeedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", models.AdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.User{
		Username:    models.AdminUsername,
		Funcionario: "Administrador",
		Role:        models.RoleAdmin,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Admin user created (admin/admin123). Change the password after first login.")
	return nil
}
