package inventory

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"fridgewise-backend/entities"
)

func item(name string, qty float64, unit string, expiry time.Time, confidence float64) *entities.FoodItem {
	return &entities.FoodItem{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   qty,
		Unit:       unit,
		ExpiryAt:   expiry,
		Confidence: confidence,
	}
}

func TestGroupForDisplay_MergesSameDay(t *testing.T) {
	day1 := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)
	items := []*entities.FoodItem{
		item("Apple", 3, "kg", day1, 0.8),
		item("Apple", 2, "kg", day1, 0.9),
		item("Apple", 1, "kg", day2, 0.7),
	}

	groups := GroupForDisplay(items)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Quantity != 5 {
		t.Errorf("day1 quantity = %v, want 5", groups[0].Quantity)
	}
	if groups[0].Confidence != 0.9 {
		t.Errorf("day1 confidence = %v, want 0.9", groups[0].Confidence)
	}
	if len(groups[0].ItemIDs) != 2 {
		t.Errorf("day1 member ids = %d, want 2", len(groups[0].ItemIDs))
	}
	if groups[1].Quantity != 1 {
		t.Errorf("day2 quantity = %v, want 1", groups[1].Quantity)
	}
}

func TestGroupForDisplay_QuantityConserved(t *testing.T) {
	day1 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	items := []*entities.FoodItem{
		item("Apple", 3, "kg", day1, 0.8),
		item("apple ", 2, "kg", day1, 0.9),
		item("Milk", 1, "L", day1.Add(48*time.Hour), 0.6),
	}

	var inputTotal float64
	for _, it := range items {
		inputTotal += it.Quantity
	}

	groups := GroupForDisplay(items)
	var groupTotal float64
	seen := map[string]bool{}
	for _, g := range groups {
		groupTotal += g.Quantity
		for _, id := range g.ItemIDs {
			if seen[id] {
				t.Errorf("record %s appears in more than one group", id)
			}
			seen[id] = true
		}
	}
	if groupTotal != inputTotal {
		t.Errorf("total quantity = %v, want %v", groupTotal, inputTotal)
	}
	if len(seen) != len(items) {
		t.Errorf("member ids cover %d records, want %d", len(seen), len(items))
	}
}

func TestGroupForDisplay_DistinctUnitsStaySeparate(t *testing.T) {
	day1 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	items := []*entities.FoodItem{
		item("Flour", 500, "g", day1, 0.8),
		item("Flour", 1, "grams", day1, 0.8),
	}
	if got := len(GroupForDisplay(items)); got != 2 {
		t.Errorf("len(groups) = %d, want 2 (unit strings are not normalized)", got)
	}
}

func TestGroupForDisplay_SortedByExpiry(t *testing.T) {
	base := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	items := []*entities.FoodItem{
		item("C", 1, "pcs", base.Add(5*24*time.Hour), 0.5),
		item("A", 1, "pcs", base, 0.5),
		item("B", 1, "pcs", base.Add(2*24*time.Hour), 0.5),
	}
	groups := GroupForDisplay(items)
	for i := 1; i < len(groups); i++ {
		if groups[i-1].ExpiryAt > groups[i].ExpiryAt {
			t.Fatalf("groups not sorted by expiry: %v before %v", groups[i-1].ExpiryAt, groups[i].ExpiryAt)
		}
	}
}

func TestGroupForDisplay_Idempotent(t *testing.T) {
	day1 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	items := []*entities.FoodItem{
		item("Apple", 3, "kg", day1, 0.8),
		item("Apple", 2, "kg", day1, 0.9),
		item("Milk", 1, "L", day1, 0.6),
	}
	first := GroupForDisplay(items)
	second := GroupForDisplay(items)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated grouping of unchanged input should be identical")
	}
}

func TestGroupForDisplay_Empty(t *testing.T) {
	if got := GroupForDisplay(nil); len(got) != 0 {
		t.Errorf("len(groups) = %d, want 0", len(got))
	}
}
