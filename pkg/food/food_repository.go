package food

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fridgewise-backend/entities"
	"fridgewise-backend/pkg/inventory"
)

type (
	FoodRepository interface {
		AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error)
		// GetActiveItems returns a user's non-consumed records ordered by
		// expiry ascending; this ordering decides restock match priority.
		GetActiveItems(ctx context.Context, userID string) ([]*entities.FoodItem, error)
		GetExpiringItems(ctx context.Context, userID string, before time.Time) ([]*entities.FoodItem, error)
		ApplyMutations(ctx context.Context, mutations []inventory.Mutation) error
		ConsumeItems(ctx context.Context, userID string, itemIDs []string, consumedAt time.Time) error
		ClearItems(ctx context.Context, userID string) error
		CountConsumed(ctx context.Context, userID string) (int64, error)

		CreateScan(ctx context.Context, scan *entities.Scan) error
		GetScanByID(ctx context.Context, id string) (*entities.Scan, error)
		UpdateScan(ctx context.Context, scan *entities.Scan) error
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return r.db.WithContext(ctx).Create(foodItem).Error
}

func (r *foodRepository) GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	var foodItem entities.FoodItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&foodItem).Error; err != nil {
		return nil, err
	}
	return &foodItem, nil
}

func (r *foodRepository) GetActiveItems(ctx context.Context, userID string) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND consumed_at IS NULL", userID).
		Order("expiry_at asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}
	return foodItems, nil
}

func (r *foodRepository) GetExpiringItems(ctx context.Context, userID string, before time.Time) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND consumed_at IS NULL AND expiry_at <= ?", userID, before).
		Order("expiry_at asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}
	return foodItems, nil
}

// ApplyMutations commits a restock batch in a single transaction so a
// partially-applied restock never reaches storage.
func (r *foodRepository) ApplyMutations(ctx context.Context, mutations []inventory.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range mutations {
			switch m.Op {
			case inventory.OpInsert:
				if err := tx.Create(m.Insert).Error; err != nil {
					return err
				}
			case inventory.OpUpdate:
				result := tx.Model(&entities.FoodItem{}).
					Where("id = ?", m.ItemID).
					Updates(map[string]interface{}{
						"quantity":   m.Quantity,
						"confidence": m.Confidence,
					})
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return fmt.Errorf("restock update target %s no longer exists", m.ItemID)
				}
			default:
				return fmt.Errorf("unknown mutation op %q", m.Op)
			}
		}
		return nil
	})
}

// ConsumeItems marks every id in a display group's member set as consumed.
// If any record is missing, already consumed or owned by someone else the
// whole batch rolls back.
func (r *foodRepository) ConsumeItems(ctx context.Context, userID string, itemIDs []string, consumedAt time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.FoodItem{}).
			Where("id IN ? AND user_id = ? AND consumed_at IS NULL", itemIDs, userID).
			Update("consumed_at", consumedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(itemIDs)) {
			return errors.New("consume batch did not cover every member item")
		}
		return nil
	})
}

func (r *foodRepository) ClearItems(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&entities.FoodItem{}).Error
	})
}

func (r *foodRepository) CountConsumed(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.FoodItem{}).
		Where("user_id = ? AND consumed_at IS NOT NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *foodRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *foodRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	var scan entities.Scan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *foodRepository) UpdateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}
