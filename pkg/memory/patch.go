package memory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Field is the closed set of preference fields a patch may target. Unknown
// fields are rejected when a patch is parsed, not silently dropped later.
type Field string

const (
	FieldDietaryRestrictions   Field = "dietaryRestrictions"
	FieldAllergies             Field = "allergies"
	FieldFavoriteCuisines      Field = "favoriteCuisines"
	FieldDislikedIngredients   Field = "dislikedIngredients"
	FieldSkillLevel            Field = "skillLevel"
	FieldCalorieGoal           Field = "calorieGoal"
	FieldCookingTimePreference Field = "cookingTimePreference"
	FieldHouseholdSize         Field = "householdSize"
	FieldEquipment             Field = "equipment"
)

var validFields = map[Field]bool{
	FieldDietaryRestrictions:   true,
	FieldAllergies:             true,
	FieldFavoriteCuisines:      true,
	FieldDislikedIngredients:   true,
	FieldSkillLevel:            true,
	FieldCalorieGoal:           true,
	FieldCookingTimePreference: true,
	FieldHouseholdSize:         true,
	FieldEquipment:             true,
}

// Changes to sensitive fields require an explicit user action; AI-inferred
// patches may not touch them.
var sensitiveFields = map[Field]bool{
	FieldAllergies: true,
}

const (
	OpSet    = "set"
	OpAdd    = "add"
	OpRemove = "remove"

	SourceAuto     = "auto"
	SourceExplicit = "explicit"

	DefaultThreshold = 0.6
)

// Profile is a user's accumulated food preferences.
type Profile struct {
	DietaryRestrictions   []string `json:"dietaryRestrictions,omitempty"`
	Allergies             []string `json:"allergies,omitempty"`
	FavoriteCuisines      []string `json:"favoriteCuisines,omitempty"`
	DislikedIngredients   []string `json:"dislikedIngredients,omitempty"`
	SkillLevel            string   `json:"skillLevel,omitempty"`
	CalorieGoal           string   `json:"calorieGoal,omitempty"`
	CookingTimePreference string   `json:"cookingTimePreference,omitempty"`
	HouseholdSize         int      `json:"householdSize,omitempty"`
	Equipment             []string `json:"equipment,omitempty"`
}

// Update is one field-level change with its own confidence and provenance.
type Update struct {
	Field      Field       `json:"field"`
	Op         string      `json:"op"`
	Value      interface{} `json:"value"`
	Confidence float64     `json:"confidence"`
	Rationale  string      `json:"rationale,omitempty"`
	SourceText string      `json:"source_text,omitempty"`
}

type Patch struct {
	Updates []Update `json:"updates"`
}

// Options control filtering and provenance of a patch application.
type Options struct {
	ConfidenceThreshold float64 // zero means DefaultThreshold
	Source              string  // "auto" or "explicit"; empty means "auto"
}

// HistoryEntry is the audit record of one applied patch. It is immutable
// once produced.
type HistoryEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Updates   []Update  `json:"updates"`
	Before    Profile   `json:"before"`
	After     Profile   `json:"after"`
	Source    string    `json:"source"`
}

// ParsePatch decodes and validates a patch. Updates targeting a field or
// operation outside the declared sets are a construction error.
func ParsePatch(data []byte) (Patch, error) {
	var patch Patch
	if err := json.Unmarshal(data, &patch); err != nil {
		return Patch{}, err
	}
	if err := patch.Validate(); err != nil {
		return Patch{}, err
	}
	return patch, nil
}

func (p Patch) Validate() error {
	for i, update := range p.Updates {
		if !validFields[update.Field] {
			return fmt.Errorf("update %d: unknown field %q", i, update.Field)
		}
		switch update.Op {
		case OpSet, OpAdd, OpRemove:
		default:
			return fmt.Errorf("update %d: unknown op %q", i, update.Op)
		}
	}
	return nil
}

// FilterPatch drops updates below the confidence threshold and, for
// auto-sourced patches, any update touching a sensitive field.
func FilterPatch(patch Patch, opts Options) Patch {
	threshold := opts.ConfidenceThreshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	source := opts.Source
	if source == "" {
		source = SourceAuto
	}

	filtered := make([]Update, 0, len(patch.Updates))
	for _, update := range patch.Updates {
		if update.Confidence < threshold {
			continue
		}
		if sensitiveFields[update.Field] && source == SourceAuto {
			continue
		}
		filtered = append(filtered, update)
	}
	return Patch{Updates: filtered}
}

// ApplyPatch filters the patch and applies surviving updates in order to a
// copy of the profile. The caller's profile is never mutated. When every
// update is filtered out the original profile is returned with a nil history
// entry; that is a legitimate no-op, not an error.
func ApplyPatch(profile Profile, patch Patch, opts Options, now time.Time) (Profile, *HistoryEntry) {
	filtered := FilterPatch(patch, opts)
	if len(filtered.Updates) == 0 {
		return profile, nil
	}

	source := opts.Source
	if source == "" {
		source = SourceAuto
	}

	before := profile.Clone()
	next := profile.Clone()
	for _, update := range filtered.Updates {
		next.apply(update)
	}

	history := &HistoryEntry{
		ID:        fmt.Sprintf("mem_%s", uuid.New().String()),
		CreatedAt: now,
		Updates:   filtered.Updates,
		Before:    before,
		After:     next,
		Source:    source,
	}
	return next, history
}

// Clone deep-copies the profile so held snapshots stay stable.
func (p Profile) Clone() Profile {
	clone := p
	clone.DietaryRestrictions = cloneList(p.DietaryRestrictions)
	clone.Allergies = cloneList(p.Allergies)
	clone.FavoriteCuisines = cloneList(p.FavoriteCuisines)
	clone.DislikedIngredients = cloneList(p.DislikedIngredients)
	clone.Equipment = cloneList(p.Equipment)
	return clone
}

func cloneList(list []string) []string {
	if list == nil {
		return nil
	}
	return append([]string(nil), list...)
}

func (p *Profile) listField(field Field) *[]string {
	switch field {
	case FieldDietaryRestrictions:
		return &p.DietaryRestrictions
	case FieldAllergies:
		return &p.Allergies
	case FieldFavoriteCuisines:
		return &p.FavoriteCuisines
	case FieldDislikedIngredients:
		return &p.DislikedIngredients
	case FieldEquipment:
		return &p.Equipment
	default:
		return nil
	}
}

func (p *Profile) apply(update Update) {
	if list := p.listField(update.Field); list != nil {
		switch update.Op {
		case OpSet:
			*list = valueStrings(update.Value)
		case OpAdd:
			next := cloneList(*list)
			if next == nil {
				next = []string{}
			}
			*list = append(next, valueStrings(update.Value)...)
		case OpRemove:
			if *list == nil {
				return
			}
			remove := map[string]bool{}
			for _, v := range valueStrings(update.Value) {
				remove[v] = true
			}
			kept := make([]string, 0, len(*list))
			for _, item := range *list {
				if !remove[item] {
					kept = append(kept, item)
				}
			}
			*list = kept
		}
		return
	}

	// Scalar fields only support "set"; add/remove are silent no-ops.
	if update.Op != OpSet {
		return
	}
	switch update.Field {
	case FieldSkillLevel:
		p.SkillLevel = valueString(update.Value)
	case FieldCalorieGoal:
		p.CalorieGoal = valueString(update.Value)
	case FieldCookingTimePreference:
		p.CookingTimePreference = valueString(update.Value)
	case FieldHouseholdSize:
		p.HouseholdSize = valueInt(update.Value)
	}
}

func valueStrings(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return cloneList(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, valueString(item))
		}
		return out
	default:
		return []string{valueString(value)}
	}
}

func valueString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func valueInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
