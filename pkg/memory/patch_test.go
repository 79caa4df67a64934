package memory

import (
	"reflect"
	"testing"
	"time"
)

var patchNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestFilterPatch_DropsLowConfidence(t *testing.T) {
	patch := Patch{Updates: []Update{
		{Field: FieldFavoriteCuisines, Op: OpAdd, Value: "Thai", Confidence: 0.4},
		{Field: FieldFavoriteCuisines, Op: OpAdd, Value: "Italian", Confidence: 0.9},
	}}

	filtered := FilterPatch(patch, Options{})
	if len(filtered.Updates) != 1 {
		t.Fatalf("len(updates) = %d, want 1", len(filtered.Updates))
	}
	if filtered.Updates[0].Value != "Italian" {
		t.Errorf("kept update = %v, want the 0.9-confidence one", filtered.Updates[0].Value)
	}
}

func TestFilterPatch_SensitiveFieldGatedForAuto(t *testing.T) {
	patch := Patch{Updates: []Update{
		{Field: FieldAllergies, Op: OpAdd, Value: "peanuts", Confidence: 0.95},
		{Field: FieldDislikedIngredients, Op: OpAdd, Value: "cilantro", Confidence: 0.95},
	}}

	auto := FilterPatch(patch, Options{Source: SourceAuto})
	if len(auto.Updates) != 1 || auto.Updates[0].Field != FieldDislikedIngredients {
		t.Errorf("auto-sourced allergy update should be dropped, got %+v", auto.Updates)
	}

	explicit := FilterPatch(patch, Options{Source: SourceExplicit})
	if len(explicit.Updates) != 2 {
		t.Errorf("explicit source keeps both updates, got %d", len(explicit.Updates))
	}
}

func TestFilterPatch_DefaultSourceIsAuto(t *testing.T) {
	patch := Patch{Updates: []Update{
		{Field: FieldAllergies, Op: OpSet, Value: []string{"shellfish"}, Confidence: 1},
	}}
	filtered := FilterPatch(patch, Options{})
	if len(filtered.Updates) != 0 {
		t.Error("missing source should be treated as auto and gate sensitive fields")
	}
}

func TestApplyPatch_NoOpWhenFullyFiltered(t *testing.T) {
	profile := Profile{FavoriteCuisines: []string{"Italian"}}
	patch := Patch{Updates: []Update{
		{Field: FieldFavoriteCuisines, Op: OpAdd, Value: "Thai", Confidence: 0.4},
	}}

	next, history := ApplyPatch(profile, patch, Options{}, patchNow)
	if history != nil {
		t.Error("fully filtered patch should produce no history entry")
	}
	if !reflect.DeepEqual(next, profile) {
		t.Errorf("profile changed on no-op: %+v", next)
	}
}

func TestApplyPatch_AddAppendsToList(t *testing.T) {
	profile := Profile{FavoriteCuisines: []string{"Italian"}}
	patch := Patch{Updates: []Update{
		{Field: FieldFavoriteCuisines, Op: OpAdd, Value: "Thai", Confidence: 0.9},
	}}

	next, history := ApplyPatch(profile, patch, Options{Source: SourceExplicit}, patchNow)
	want := []string{"Italian", "Thai"}
	if !reflect.DeepEqual(next.FavoriteCuisines, want) {
		t.Errorf("favoriteCuisines = %v, want %v", next.FavoriteCuisines, want)
	}
	if history == nil {
		t.Fatal("expected a history entry")
	}
	if !reflect.DeepEqual(history.Before.FavoriteCuisines, []string{"Italian"}) {
		t.Errorf("before snapshot = %v", history.Before.FavoriteCuisines)
	}
	if !reflect.DeepEqual(history.After.FavoriteCuisines, want) {
		t.Errorf("after snapshot = %v", history.After.FavoriteCuisines)
	}
	if history.Source != SourceExplicit {
		t.Errorf("source = %q, want %q", history.Source, SourceExplicit)
	}
	if !history.CreatedAt.Equal(patchNow) {
		t.Errorf("createdAt = %v, want %v", history.CreatedAt, patchNow)
	}
}

func TestApplyPatch_AddListValue(t *testing.T) {
	profile := Profile{}
	patch := Patch{Updates: []Update{
		{Field: FieldEquipment, Op: OpAdd, Value: []interface{}{"wok", "oven"}, Confidence: 0.9},
	}}

	next, _ := ApplyPatch(profile, patch, Options{}, patchNow)
	want := []string{"wok", "oven"}
	if !reflect.DeepEqual(next.Equipment, want) {
		t.Errorf("equipment = %v, want %v", next.Equipment, want)
	}
}

func TestApplyPatch_RemoveFiltersByStringForm(t *testing.T) {
	profile := Profile{DislikedIngredients: []string{"cilantro", "olives", "celery"}}
	patch := Patch{Updates: []Update{
		{Field: FieldDislikedIngredients, Op: OpRemove, Value: []interface{}{"olives", "celery"}, Confidence: 0.9},
	}}

	next, _ := ApplyPatch(profile, patch, Options{}, patchNow)
	want := []string{"cilantro"}
	if !reflect.DeepEqual(next.DislikedIngredients, want) {
		t.Errorf("dislikedIngredients = %v, want %v", next.DislikedIngredients, want)
	}
}

func TestApplyPatch_SetReplacesOutright(t *testing.T) {
	profile := Profile{SkillLevel: "beginner", FavoriteCuisines: []string{"Italian"}}
	patch := Patch{Updates: []Update{
		{Field: FieldSkillLevel, Op: OpSet, Value: "advanced", Confidence: 0.9},
		{Field: FieldFavoriteCuisines, Op: OpSet, Value: []interface{}{"Sichuan"}, Confidence: 0.9},
		{Field: FieldHouseholdSize, Op: OpSet, Value: float64(4), Confidence: 0.9},
	}}

	next, _ := ApplyPatch(profile, patch, Options{}, patchNow)
	if next.SkillLevel != "advanced" {
		t.Errorf("skillLevel = %q, want %q", next.SkillLevel, "advanced")
	}
	if !reflect.DeepEqual(next.FavoriteCuisines, []string{"Sichuan"}) {
		t.Errorf("favoriteCuisines = %v", next.FavoriteCuisines)
	}
	if next.HouseholdSize != 4 {
		t.Errorf("householdSize = %d, want 4", next.HouseholdSize)
	}
}

func TestApplyPatch_AddRemoveOnScalarFieldIsNoOp(t *testing.T) {
	profile := Profile{SkillLevel: "beginner"}
	patch := Patch{Updates: []Update{
		{Field: FieldSkillLevel, Op: OpAdd, Value: "advanced", Confidence: 0.9},
		{Field: FieldSkillLevel, Op: OpRemove, Value: "beginner", Confidence: 0.9},
	}}

	next, _ := ApplyPatch(profile, patch, Options{}, patchNow)
	if next.SkillLevel != "beginner" {
		t.Errorf("skillLevel = %q, want unchanged %q", next.SkillLevel, "beginner")
	}
}

func TestApplyPatch_OrderDependent(t *testing.T) {
	profile := Profile{}
	patch := Patch{Updates: []Update{
		{Field: FieldEquipment, Op: OpAdd, Value: "wok", Confidence: 0.9},
		{Field: FieldEquipment, Op: OpRemove, Value: "wok", Confidence: 0.9},
	}}

	next, _ := ApplyPatch(profile, patch, Options{}, patchNow)
	if len(next.Equipment) != 0 {
		t.Errorf("equipment = %v, want empty (later update sees earlier effect)", next.Equipment)
	}
}

func TestApplyPatch_DoesNotMutateInput(t *testing.T) {
	profile := Profile{FavoriteCuisines: []string{"Italian"}}
	patch := Patch{Updates: []Update{
		{Field: FieldFavoriteCuisines, Op: OpAdd, Value: "Thai", Confidence: 0.9},
	}}

	_, _ = ApplyPatch(profile, patch, Options{}, patchNow)
	if !reflect.DeepEqual(profile.FavoriteCuisines, []string{"Italian"}) {
		t.Errorf("caller profile mutated: %v", profile.FavoriteCuisines)
	}
}

func TestParsePatch_RejectsUnknownField(t *testing.T) {
	_, err := ParsePatch([]byte(`{"updates":[{"field":"shoeSize","op":"set","value":42,"confidence":1}]}`))
	if err == nil {
		t.Error("expected an error for an unknown field")
	}
}

func TestParsePatch_RejectsUnknownOp(t *testing.T) {
	_, err := ParsePatch([]byte(`{"updates":[{"field":"allergies","op":"toggle","value":"x","confidence":1}]}`))
	if err == nil {
		t.Error("expected an error for an unknown op")
	}
}

func TestParsePatch_Valid(t *testing.T) {
	patch, err := ParsePatch([]byte(`{"updates":[{"field":"favoriteCuisines","op":"add","value":"Thai","confidence":0.8}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patch.Updates) != 1 {
		t.Fatalf("len(updates) = %d, want 1", len(patch.Updates))
	}
}
