package entities

import (
	"github.com/google/uuid"
)

type Scan struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Kind      string    `json:"kind"`   // "receipt", "fridge_photo"
	Status    string    `json:"status"` // "Pending", "Processed", "Failed"
	RawResult string    `json:"raw_result,omitempty" gorm:"type:text"`

	User      *User       `gorm:"foreignKey:UserID"`
	FoodItems []*FoodItem `gorm:"foreignKey:ScanID"`
	Timestamp
}
