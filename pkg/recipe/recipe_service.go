package recipe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fridgewise-backend/domain"
	"fridgewise-backend/pkg/ai"
	"fridgewise-backend/pkg/food"
	"fridgewise-backend/pkg/inventory"
	"fridgewise-backend/pkg/memorystore"
)

type (
	RecipeService interface {
		GetSuggestions(ctx context.Context, req domain.RecipeSuggestionRequest, userID string) (domain.RecipeSuggestionResponse, error)
	}

	recipeService struct {
		foodRepository food.FoodRepository
		memoryService  memorystore.MemoryService
		gemini         ai.GeminiClient
		log            *logrus.Logger
	}
)

const expiringWindowDays = 7

func NewRecipeService(foodRepository food.FoodRepository, memoryService memorystore.MemoryService, gemini ai.GeminiClient, log *logrus.Logger) RecipeService {
	return &recipeService{
		foodRepository: foodRepository,
		memoryService:  memoryService,
		gemini:         gemini,
		log:            log,
	}
}

// GetSuggestions asks the model for recipes biased toward items nearing
// expiry. Recipe content is passed through untouched; only the ingredient
// list and preference profile feed the prompt.
func (s *recipeService) GetSuggestions(ctx context.Context, req domain.RecipeSuggestionRequest, userID string) (domain.RecipeSuggestionResponse, error) {
	now := time.Now()
	threshold := now.AddDate(0, 0, expiringWindowDays)

	// Items nearing expiry drive the suggestions; when nothing is close to
	// expiring the whole inventory is offered instead, unless the caller
	// pinned expiring-only.
	items, err := s.foodRepository.GetExpiringItems(ctx, userID, threshold)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}
	if len(items) == 0 && !req.IncludeExpiringOnly {
		items, err = s.foodRepository.GetActiveItems(ctx, userID)
		if err != nil {
			return domain.RecipeSuggestionResponse{}, err
		}
	}

	if len(items) == 0 {
		return domain.RecipeSuggestionResponse{Recipes: []domain.RecipeSuggestion{}}, domain.ErrNoIngredients
	}

	expiringItems := 0
	ingredients := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if item.ExpiryAt.Before(threshold) {
			expiringItems++
		}
		ingredients = append(ingredients, map[string]interface{}{
			"name":            item.Name,
			"quantity":        item.Quantity,
			"unit":            item.Unit,
			"expiryDate":      item.ExpiryAt.Format("2006-01-02"),
			"daysUntilExpiry": int(item.ExpiryAt.Sub(now).Hours() / 24),
			"status":          string(inventory.Classify(item.ExpiryAt, now)),
		})
	}

	profile, err := s.memoryService.GetProfile(ctx, userID)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}

	result, _, err := s.gemini.SuggestRecipes(ctx, req.Text, profile, ingredients)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"recipes": len(result.Recipes),
	}).Info("recipe suggestions generated")

	return domain.RecipeSuggestionResponse{
		Recipes:                result.Recipes,
		ExpiringItems:          expiringItems,
		NeedClarification:      result.NeedClarification,
		ClarificationQuestions: result.ClarificationQuestions,
	}, nil
}
