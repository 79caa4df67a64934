package inventory

import (
	"sort"

	"fridgewise-backend/entities"
)

// DisplayGroup aggregates records sharing normalized name, unit and expiry
// calendar day into a single display row. ItemIDs keeps every underlying
// record so a consumption action can mutate all of them in one batch.
type DisplayGroup struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	ExpiryAt   int64     `json:"expiry_at"`
	Confidence float64   `json:"confidence"`
	ItemIDs    []string  `json:"item_ids"`
}

// GroupForDisplay collapses a raw inventory list into display groups.
// Quantity sums, confidence takes the max, first-seen values stay as the
// representative name/unit/expiry. Output is ordered by expiry ascending;
// groups with equal expiry keep first-seen order, so the result is stable
// across repeated runs on the same input.
func GroupForDisplay(items []*entities.FoodItem) []DisplayGroup {
	grouped := make(map[string]*DisplayGroup)
	var order []string

	for _, item := range items {
		key := NormalizeName(item.Name) + "|" + item.Unit + "|" + ExpiryKey(item.ExpiryAt)
		if existing, ok := grouped[key]; ok {
			existing.Quantity += item.Quantity
			if item.Confidence > existing.Confidence {
				existing.Confidence = item.Confidence
			}
			existing.ItemIDs = append(existing.ItemIDs, item.ID.String())
			continue
		}
		grouped[key] = &DisplayGroup{
			Key:        key,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Unit:       item.Unit,
			ExpiryAt:   item.ExpiryAt.UnixMilli(),
			Confidence: item.Confidence,
			ItemIDs:    []string{item.ID.String()},
		}
		order = append(order, key)
	}

	result := make([]DisplayGroup, 0, len(order))
	for _, key := range order {
		result = append(result, *grouped[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ExpiryAt < result[j].ExpiryAt
	})
	return result
}
