package ai

import (
	"encoding/json"
	"strings"
	"time"

	"fridgewise-backend/pkg/memory"
)

const promptSystem = `You are the kitchen assistant of a household food tracker.
Today is {{today}}. The user's preference profile is:
{{memory}}
Respond ONLY with a single valid JSON object. No explanations, no markdown fences.`

const promptRestock = `Identify every food item visible in the image or described in the text below and estimate its expiry date.
Input: {{input}}
Respond with: {"items":[{"name":string,"quantity":number,"unit":string,"expiryAt":"YYYY-MM-DD","confidence":number,"source":"receipt"|"fridge_photo"|"manual"}],"need_clarification":boolean,"clarification_questions":[string]}`

const promptRecipe = `Suggest recipes that prioritize ingredients closest to expiry. Respect the dietary restrictions, allergies and dislikes from the profile.
Available ingredients: {{ingredients}}
Input: {{input}}
Respond with: {"recipes":[{"title":string,"steps":[string],"usedItems":[string],"missingItems":[string],"servings":number,"cookTimeMinutes":number}],"need_clarification":boolean,"clarification_questions":[string]}`

const promptProfile = `Derive preference updates from the user's message. Allowed fields: dietaryRestrictions, allergies, favoriteCuisines, dislikedIngredients, skillLevel, calorieGoal, cookingTimePreference, householdSize, equipment. Allowed ops: set, add, remove. Give each update a confidence between 0 and 1.
Input: {{input}}
Respond with: {"updates":[{"field":string,"op":string,"value":any,"confidence":number,"rationale":string}]}`

// buildPrompt assembles the shared system preamble and a task prompt,
// substituting the profile, today's date and the user input.
func buildPrompt(task string, profile memory.Profile, input string) string {
	memoryJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		memoryJSON = []byte("{}")
	}

	system := strings.Replace(promptSystem, "{{memory}}", string(memoryJSON), 1)
	system = strings.Replace(system, "{{today}}", time.Now().UTC().Format("2006-01-02"), 1)
	task = strings.Replace(task, "{{input}}", input, 1)

	return system + "\n\n" + task
}
