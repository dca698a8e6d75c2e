package utils

import (
	"log"
	"mepass/src/models"
	"mepass/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var launchCities = []models.City{
	{Name: "Mumbai", State: "Maharashtra", Image: "https://images.unsplash.com/photo-1570168007204-dfb528c6958f?w=100"},
	{Name: "Delhi", State: "Delhi", Image: "https://images.unsplash.com/photo-1587474260584-136574528ed5?w=100"},
	{Name: "Bangalore", State: "Karnataka", Image: "https://images.unsplash.com/photo-1596176530529-78163a4f7af2?w=100"},
	{Name: "Ahmedabad", State: "Gujarat", Image: "https://images.unsplash.com/photo-1609948543911-7246000e4a91?w=100"},
	{Name: "Pune", State: "Maharashtra", Image: "https://images.unsplash.com/photo-1572782252655-9c8771392601?w=100"},
	{Name: "Chennai", State: "Tamil Nadu", Image: "https://images.unsplash.com/photo-1582510003544-4d00b7f74220?w=100"},
	{Name: "Hyderabad", State: "Telangana", Image: "https://images.unsplash.com/photo-1626621341517-bbf3d9990a23?w=100"},
	{Name: "Kolkata", State: "West Bengal", Image: "https://images.unsplash.com/photo-1558431382-27e303142255?w=100"},
}

// SeedLaunchData upserts the launch cities and the built-in admin and
// demo organizer accounts. Safe to call repeatedly.
func SeedLaunchData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, city := range launchCities {
			c := city
			if err := tx.
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "name"}},
					DoUpdates: clause.AssignmentColumns([]string{"state", "image"}),
				}).
				Create(&c).
				Error; err != nil {
				log.Printf("Error seeding city %s: %s\n", city.Name, err.Error())
				return err
			}
		}
		accounts := []struct {
			name     string
			email    string
			password string
			role     types.Role
		}{
			{"Admin", "admin@mepass.in", "admin123", types.ROLE_ADMIN},
			{"Demo Organizer", "organizer@mepass.in", "organizer123", types.ROLE_ORGANIZER},
		}
		for _, acc := range accounts {
			var count int64
			if err := tx.
				Model(&models.User{}).
				Where(&models.User{Email: acc.email}).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			hashed, err := HashPassword(acc.password)
			if err != nil {
				return err
			}
			user := models.User{
				Name:         acc.name,
				Email:        acc.email,
				PasswordHash: hashed,
				Role:         string(acc.role),
				UID:          uuid.NewString(),
			}
			if err := tx.Create(&user).Error; err != nil {
				log.Printf("Error seeding account %s: %s\n", acc.email, err.Error())
				return err
			}
		}
		return nil
	})
}
