package food

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fridgewise-backend/domain"
	"fridgewise-backend/entities"
	"fridgewise-backend/pkg/inventory"
)

type fakeFoodRepository struct {
	items []*entities.FoodItem
	scans []*entities.Scan
}

func (f *fakeFoodRepository) AddFoodItem(_ context.Context, foodItem *entities.FoodItem) error {
	f.items = append(f.items, foodItem)
	return nil
}

func (f *fakeFoodRepository) GetFoodItemByID(_ context.Context, id string) (*entities.FoodItem, error) {
	for _, item := range f.items {
		if item.ID.String() == id {
			return item, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeFoodRepository) GetActiveItems(_ context.Context, userID string) ([]*entities.FoodItem, error) {
	var active []*entities.FoodItem
	for _, item := range f.items {
		if item.UserID.String() == userID && item.ConsumedAt == nil {
			active = append(active, item)
		}
	}
	return active, nil
}

func (f *fakeFoodRepository) GetExpiringItems(_ context.Context, userID string, before time.Time) ([]*entities.FoodItem, error) {
	var expiring []*entities.FoodItem
	for _, item := range f.items {
		if item.UserID.String() == userID && item.ConsumedAt == nil && !item.ExpiryAt.After(before) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

func (f *fakeFoodRepository) ApplyMutations(_ context.Context, mutations []inventory.Mutation) error {
	for _, m := range mutations {
		switch m.Op {
		case inventory.OpInsert:
			f.items = append(f.items, m.Insert)
		case inventory.OpUpdate:
			found := false
			for _, item := range f.items {
				if item.ID == m.ItemID {
					item.Quantity = m.Quantity
					item.Confidence = m.Confidence
					found = true
					break
				}
			}
			if !found {
				return errors.New("update target missing")
			}
		}
	}
	return nil
}

func (f *fakeFoodRepository) ConsumeItems(_ context.Context, userID string, itemIDs []string, consumedAt time.Time) error {
	marked := 0
	for _, id := range itemIDs {
		for _, item := range f.items {
			if item.ID.String() == id && item.UserID.String() == userID && item.ConsumedAt == nil {
				at := consumedAt
				item.ConsumedAt = &at
				marked++
			}
		}
	}
	if marked != len(itemIDs) {
		return errors.New("consume batch did not cover every member item")
	}
	return nil
}

func (f *fakeFoodRepository) ClearItems(_ context.Context, userID string) error {
	var kept []*entities.FoodItem
	for _, item := range f.items {
		if item.UserID.String() != userID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeFoodRepository) CountConsumed(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, item := range f.items {
		if item.UserID.String() == userID && item.ConsumedAt != nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeFoodRepository) CreateScan(_ context.Context, scan *entities.Scan) error {
	f.scans = append(f.scans, scan)
	return nil
}

func (f *fakeFoodRepository) GetScanByID(_ context.Context, id string) (*entities.Scan, error) {
	for _, scan := range f.scans {
		if scan.ID.String() == id {
			return scan, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeFoodRepository) UpdateScan(_ context.Context, scan *entities.Scan) error {
	for i, existing := range f.scans {
		if existing.ID == scan.ID {
			f.scans[i] = scan
			return nil
		}
	}
	return errors.New("not found")
}

func newTestService(repo FoodRepository) FoodService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewFoodService(repo, nil, nil, nil, log)
}

func seedItem(repo *fakeFoodRepository, userID uuid.UUID, name, unit string, quantity float64, expiryAt time.Time) *entities.FoodItem {
	item := &entities.FoodItem{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Quantity:   quantity,
		Unit:       unit,
		ExpiryAt:   expiryAt,
		Source:     entities.SourceManual,
		Confidence: 1,
	}
	repo.items = append(repo.items, item)
	return item
}

func TestAddFoodItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(&fakeFoodRepository{})

	_, err := svc.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name:     "milk",
		Quantity: 0,
		Unit:     "l",
		ExpiryAt: "2026-09-10",
	}, uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAddFoodItem_PersistsManualSource(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	res, err := svc.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name:     "Milk",
		Quantity: 2,
		Unit:     "l",
		ExpiryAt: "2030-01-02",
	}, userID.String())
	require.NoError(t, err)

	require.Len(t, repo.items, 1)
	stored := repo.items[0]
	assert.Equal(t, entities.SourceManual, stored.Source)
	assert.Equal(t, float64(1), stored.Confidence)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, res.ID, stored.ID.String())
}

func TestRestock_RejectsUnknownSource(t *testing.T) {
	svc := newTestService(&fakeFoodRepository{})

	_, err := svc.Restock(context.Background(), []inventory.Candidate{
		{Name: "milk", Quantity: 1, Unit: "l", ExpiryAt: "2026-09-10", Source: "telepathy"},
	}, uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrInvalidSource)
}

func TestRestock_MergesAndInserts(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	expiry := time.Now().AddDate(0, 0, 10).Truncate(24 * time.Hour)
	existing := seedItem(repo, userID, "Milk", "l", 1, expiry)

	res, err := svc.Restock(context.Background(), []inventory.Candidate{
		{Name: "milk", Quantity: 2, Unit: "l", ExpiryAt: expiry.Format("2006-01-02"), Confidence: 0.9, Source: entities.SourceReceipt},
		{Name: "eggs", Quantity: 12, Unit: "pcs", ExpiryAt: expiry.Format("2006-01-02"), Confidence: 0.8, Source: entities.SourceReceipt},
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, float64(3), existing.Quantity)
	assert.Len(t, repo.items, 2)
}

func TestGetInventory_TiersGroupsByStatus(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	now := time.Now()
	seedItem(repo, userID, "Yogurt", "cup", 1, now.AddDate(0, 0, -2))
	seedItem(repo, userID, "Chicken", "kg", 1, now.AddDate(0, 0, 2))
	seedItem(repo, userID, "Rice", "kg", 5, now.AddDate(0, 0, 60))

	res, err := svc.GetInventory(context.Background(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Tiers[string(inventory.StatusExpired)], 1)
	assert.Len(t, res.Tiers[string(inventory.StatusUseSoon)], 1)
	assert.Len(t, res.Tiers[string(inventory.StatusFresh)], 1)
}

func TestConsumeGroup_EmptyMemberSet(t *testing.T) {
	svc := newTestService(&fakeFoodRepository{})

	err := svc.ConsumeGroup(context.Background(), domain.ConsumeGroupRequest{}, uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrEmptyMemberSet)
}

func TestConsumeGroup_MarksEveryMember(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	expiry := time.Now().AddDate(0, 0, 5)
	a := seedItem(repo, userID, "Apple", "pcs", 3, expiry)
	b := seedItem(repo, userID, "Apple", "pcs", 2, expiry)

	err := svc.ConsumeGroup(context.Background(), domain.ConsumeGroupRequest{
		ItemIDs: []string{a.ID.String(), b.ID.String()},
	}, userID.String())
	require.NoError(t, err)

	assert.NotNil(t, a.ConsumedAt)
	assert.NotNil(t, b.ConsumedAt)
}

func TestConsumeGroup_StrangerItemFailsWholeBatch(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	expiry := time.Now().AddDate(0, 0, 5)
	mine := seedItem(repo, userID, "Apple", "pcs", 3, expiry)
	other := seedItem(repo, uuid.New(), "Apple", "pcs", 2, expiry)

	err := svc.ConsumeGroup(context.Background(), domain.ConsumeGroupRequest{
		ItemIDs: []string{mine.ID.String(), other.ID.String()},
	}, userID.String())

	assert.Error(t, err)
}

func TestGetDashboardStats_CountsTiersAndConsumed(t *testing.T) {
	repo := &fakeFoodRepository{}
	svc := newTestService(repo)
	userID := uuid.New()

	now := time.Now()
	seedItem(repo, userID, "Yogurt", "cup", 1, now.AddDate(0, 0, -2))
	seedItem(repo, userID, "Chicken", "kg", 1, now.AddDate(0, 0, 2))
	seedItem(repo, userID, "Rice", "kg", 5, now.AddDate(0, 0, 60))
	eaten := seedItem(repo, userID, "Bread", "loaf", 1, now.AddDate(0, 0, 1))
	at := now
	eaten.ConsumedAt = &at

	stats, err := svc.GetDashboardStats(context.Background(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalItems)
	assert.Equal(t, int64(1), stats.ExpiredItems)
	assert.Equal(t, int64(1), stats.UseSoonItems)
	assert.Equal(t, int64(1), stats.FreshItems)
	assert.Equal(t, int64(1), stats.ConsumedItems)
}
