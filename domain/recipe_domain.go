package domain

import (
	"errors"
)

var (
	MessageSuccessGetSuggestions = "recipe suggestions retrieved successfully"
	MessageFailedGetSuggestions  = "failed to retrieve recipe suggestions"

	ErrNoIngredients = errors.New("no ingredients available for recipe suggestions")
)

type (
	RecipeSuggestionRequest struct {
		Text                string `json:"text"`
		IncludeExpiringOnly bool   `json:"include_expiring_only"`
	}

	RecipeSuggestion struct {
		Title           string   `json:"title"`
		Steps           []string `json:"steps"`
		UsedItems       []string `json:"usedItems"`
		MissingItems    []string `json:"missingItems,omitempty"`
		Servings        int      `json:"servings,omitempty"`
		CookTimeMinutes int      `json:"cookTimeMinutes,omitempty"`
	}

	RecipeSuggestionResponse struct {
		Recipes                []RecipeSuggestion `json:"recipes"`
		ExpiringItems          int                `json:"expiring_items"`
		NeedClarification      bool               `json:"need_clarification"`
		ClarificationQuestions []string           `json:"clarification_questions,omitempty"`
	}
)
