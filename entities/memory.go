package entities

import (
	"time"

	"github.com/google/uuid"
)

// MemoryProfile holds one user's accumulated food preferences. List-valued
// fields are stored as JSON arrays in text columns.
type MemoryProfile struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID                uuid.UUID `gorm:"uniqueIndex" json:"user_id"`
	DietaryRestrictions   string    `gorm:"type:text" json:"dietary_restrictions,omitempty"`
	Allergies             string    `gorm:"type:text" json:"allergies,omitempty"`
	FavoriteCuisines      string    `gorm:"type:text" json:"favorite_cuisines,omitempty"`
	DislikedIngredients   string    `gorm:"type:text" json:"disliked_ingredients,omitempty"`
	Equipment             string    `gorm:"type:text" json:"equipment,omitempty"`
	SkillLevel            string    `json:"skill_level,omitempty"`
	CalorieGoal           string    `json:"calorie_goal,omitempty"`
	CookingTimePreference string    `json:"cooking_time_preference,omitempty"`
	HouseholdSize         int       `json:"household_size,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// MemoryHistoryEntry is an append-only audit record of one applied patch.
// Rows are never updated after creation.
type MemoryHistoryEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Updates   string    `gorm:"type:text" json:"updates"`
	Before    string    `gorm:"type:text" json:"before"`
	After     string    `gorm:"type:text" json:"after"`
	Source    string    `json:"source"` // "auto", "explicit"
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User *User `gorm:"foreignKey:UserID"`
}
