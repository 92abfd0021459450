package database

import (
	"log"
	"time"

	"mini-crm/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init connects to the database, retrying while the server comes up, and
// runs the schema migration.
func Init(dsn string) *gorm.DB {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Lead{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}
