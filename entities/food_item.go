package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceReceipt     = "receipt"
	SourceFridgePhoto = "fridge_photo"
	SourceManual      = "manual"
)

type FoodItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	ExpiryAt   time.Time  `json:"expiry_at"`
	Source     string     `json:"source"` // "receipt", "fridge_photo", "manual"
	Confidence float64    `json:"confidence"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	ScanID     *string    `json:"scan_id,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
