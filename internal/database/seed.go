package database

import (
	"log"

	"mini-crm/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemo creates a demo admin, two demo users and a handful of
// customers with leads. Everything is create-if-absent so repeated
// startups are harmless.
func SeedDemo(db *gorm.DB) {
	admin := seedUser(db, "Admin User", "admin@dev.com", "Admin@123", models.RoleAdmin, models.KindAdmin)
	seedUser(db, "Alice", "alice@dev.com", "Alice@123", models.RoleUser, models.KindSignedUp)
	seedUser(db, "Bob", "bob@dev.com", "Bob@123", models.RoleUser, models.KindSignedUp)

	if admin == nil {
		return
	}

	var count int64
	if err := db.Model(&models.Customer{}).Count(&count).Error; err != nil {
		log.Printf("failed to check customers: %v", err)
		return
	}
	if count > 0 {
		return
	}

	customers := []models.Customer{
		{Name: "Acme Corp", Email: "contact@acme.com", Phone: "9991112222", Company: "Acme Corp", OwnerID: admin.ID},
		{Name: "Beta Solutions", Email: "hello@beta.com", Phone: "9993334444", Company: "Beta Solutions", OwnerID: admin.ID},
		{Name: "Gamma Industries", Email: "info@gamma.com", Phone: "9995556666", Company: "Gamma Industries", OwnerID: admin.ID},
	}

	for i := range customers {
		c := &customers[i]
		if err := db.Create(c).Error; err != nil {
			log.Printf("failed to create seed customer %s: %v", c.Name, err)
			continue
		}

		leads := []models.Lead{
			{
				Title:      "Initial inquiry from " + c.Name,
				Status:     models.LeadNew,
				Value:      5000,
				CustomerID: c.ID,
				OwnerID:    c.OwnerID,
			},
			{
				Title:      "Follow-up deal with " + c.Name,
				Status:     models.LeadContacted,
				Value:      12000,
				CustomerID: c.ID,
				OwnerID:    c.OwnerID,
			},
		}
		for j := range leads {
			if err := db.Create(&leads[j]).Error; err != nil {
				log.Printf("failed to create seed lead for %s: %v", c.Name, err)
			}
		}

		log.Printf("created seed customer: %s", c.Name)
	}
}

func seedUser(db *gorm.DB, name, email, password string, role models.UserRole, kind models.UserKind) *models.User {
	var existing models.User
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&existing).Error
	if err == nil {
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash password for %s: %v", email, err)
		return nil
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Kind:         kind,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("failed to create seed user %s: %v", email, err)
		return nil
	}

	log.Printf("created seed user: %s (role=%s, password=%s)", email, role, password)
	return &user
}
