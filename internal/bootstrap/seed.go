package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"greenmetrics.io/carbontrack/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Activity{},
	)
}

// SeedDemoUser creates a local demo account. Development only.
func SeedDemoUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "demo").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Demo user already exists, skipping seed")
		return nil
	}

	password := "demo12345"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demoUser := model.User{
		Username:     "demo",
		PasswordHash: string(hashedPasswordBytes),
	}

	if err := db.Create(&demoUser).Error; err != nil {
		return err
	}

	log.Println("Demo user seeded successfully")
	log.Println("   Username: demo")
	log.Println("   Password: demo12345")

	return nil
}
