package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"fridgewise-backend/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.FoodItem{}); err != nil {
		log.Fatalf("Error migrating food item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Scan{}); err != nil {
		log.Fatalf("Error migrating scan database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MemoryProfile{}); err != nil {
		log.Fatalf("Error migrating memory profile database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MemoryHistoryEntry{}); err != nil {
		log.Fatalf("Error migrating memory history database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
