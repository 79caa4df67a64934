package memorystore

import (
	"context"

	"gorm.io/gorm"

	"fridgewise-backend/entities"
)

type (
	MemoryRepository interface {
		GetProfile(ctx context.Context, userID string) (*entities.MemoryProfile, error)
		// SaveProfileWithHistory persists the new profile state and appends
		// the audit entry in one transaction; neither lands without the other.
		SaveProfileWithHistory(ctx context.Context, profile *entities.MemoryProfile, history *entities.MemoryHistoryEntry) error
		GetHistory(ctx context.Context, userID string, page, limit int) ([]*entities.MemoryHistoryEntry, int64, error)
	}

	memoryRepository struct {
		db *gorm.DB
	}
)

func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) GetProfile(ctx context.Context, userID string) (*entities.MemoryProfile, error) {
	var profile entities.MemoryProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *memoryRepository) SaveProfileWithHistory(ctx context.Context, profile *entities.MemoryProfile, history *entities.MemoryHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return tx.Create(history).Error
	})
}

func (r *memoryRepository) GetHistory(ctx context.Context, userID string, page, limit int) ([]*entities.MemoryHistoryEntry, int64, error) {
	var entries []*entities.MemoryHistoryEntry
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if err := query.Model(&entities.MemoryHistoryEntry{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}
