package config

import (
	"log"

	"giftly-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds the occasion master table
func SeedMasterData(db *gorm.DB) error {
	log.Println("🌱 Running database seeders...")

	if err := seedOccasions(db); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedOccasions seeds the default gifting occasions
func seedOccasions(db *gorm.DB) error {
	var count int64
	db.Model(&models.Occasion{}).Count(&count)
	if count > 0 {
		return nil
	}

	occasions := []models.Occasion{
		{Name: "Birthday", Slug: "birthday", IsActive: true},
		{Name: "Anniversary", Slug: "anniversary", IsActive: true},
		{Name: "Congratulations", Slug: "congratulations", IsActive: true},
		{Name: "Thank You", Slug: "thank-you", IsActive: true},
		{Name: "Holidays", Slug: "holidays", IsActive: true},
		{Name: "Just Because", Slug: "just-because", IsActive: true},
	}

	if err := db.Create(&occasions).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d occasions", len(occasions))
	return nil
}
