package inventory

import (
	"time"

	"github.com/google/uuid"

	"fridgewise-backend/entities"
)

// Candidate is a single item from a vision-extraction result. ExpiryAt is the
// raw extracted string and is only canonicalized here.
type Candidate struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	ExpiryAt   string  `json:"expiryAt"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// matchTolerance is inclusive: an expiry difference of exactly one day still
// merges with existing stock.
const matchTolerance = day

const (
	OpInsert = "insert"
	OpUpdate = "update"
)

// Mutation is one pending storage operation produced by restock planning.
// The whole batch must be committed as a single transaction.
type Mutation struct {
	Op         string
	Insert     *entities.FoodItem // set when Op == OpInsert
	ItemID     uuid.UUID          // set when Op == OpUpdate
	Quantity   float64
	Confidence float64
}

// Match finds the first existing record the candidate refers to: same
// normalized name, same unit string, expiry within one day of the
// canonicalized candidate expiry. List order decides among multiple matches.
func Match(candidate Candidate, existing []*entities.FoodItem, now time.Time) *entities.FoodItem {
	normalized := NormalizeName(candidate.Name)
	expiryAt := NormalizeExpiry(candidate.ExpiryAt, now)
	for _, item := range existing {
		if NormalizeName(item.Name) != normalized {
			continue
		}
		if item.Unit != candidate.Unit {
			continue
		}
		diff := item.ExpiryAt.Sub(expiryAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= matchTolerance {
			return item
		}
	}
	return nil
}

// PlanRestock reconciles extracted candidates against the user's current
// inventory snapshot and returns the mutation batch: quantity/confidence
// updates for matches, inserts for the rest. Candidates are matched against
// the same snapshot; the function itself performs no storage access. An empty
// candidate list yields an empty batch.
func PlanRestock(candidates []Candidate, existing []*entities.FoodItem, userID uuid.UUID, now time.Time) []Mutation {
	mutations := make([]Mutation, 0, len(candidates))
	for _, candidate := range candidates {
		expiryAt := NormalizeExpiry(candidate.ExpiryAt, now)
		if matched := Match(candidate, existing, now); matched != nil {
			confidence := matched.Confidence
			if candidate.Confidence > confidence {
				confidence = candidate.Confidence
			}
			mutations = append(mutations, Mutation{
				Op:         OpUpdate,
				ItemID:     matched.ID,
				Quantity:   matched.Quantity + candidate.Quantity,
				Confidence: confidence,
			})
			continue
		}
		mutations = append(mutations, Mutation{
			Op: OpInsert,
			Insert: &entities.FoodItem{
				ID:         uuid.New(),
				UserID:     userID,
				Name:       candidate.Name,
				Quantity:   candidate.Quantity,
				Unit:       candidate.Unit,
				ExpiryAt:   expiryAt,
				Source:     candidate.Source,
				Confidence: candidate.Confidence,
				Timestamp:  entities.Timestamp{CreatedAt: now, UpdatedAt: now},
			},
		})
	}
	return mutations
}
