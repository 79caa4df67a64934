package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fridgewise-backend/domain"
	"fridgewise-backend/internal/utils"
	"fridgewise-backend/pkg/inventory"
	"fridgewise-backend/pkg/memory"
)

type (
	// RestockResult is the structured output of a vision extraction call.
	// Clarification is surfaced to the caller, never resolved here.
	RestockResult struct {
		Items                  []inventory.Candidate `json:"items"`
		NeedClarification      bool                  `json:"need_clarification"`
		ClarificationQuestions []string              `json:"clarification_questions,omitempty"`
	}

	RecipeResult struct {
		Recipes                []domain.RecipeSuggestion `json:"recipes"`
		NeedClarification      bool                      `json:"need_clarification"`
		ClarificationQuestions []string                  `json:"clarification_questions,omitempty"`
	}

	GeminiClient interface {
		ExtractRestock(ctx context.Context, imageBase64, mimeType, text string, profile memory.Profile) (RestockResult, string, error)
		SuggestRecipes(ctx context.Context, text string, profile memory.Profile, ingredients []map[string]interface{}) (RecipeResult, string, error)
		InferMemoryPatch(ctx context.Context, text string, profile memory.Profile) (memory.Patch, string, error)
	}

	geminiClient struct {
		httpClient *http.Client
		log        *logrus.Logger
	}
)

func NewGeminiClient(log *logrus.Logger) GeminiClient {
	return &geminiClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

func (c *geminiClient) ExtractRestock(ctx context.Context, imageBase64, mimeType, text string, profile memory.Profile) (RestockResult, string, error) {
	prompt := buildPrompt(promptRestock, profile, text)
	raw, err := c.generateJSON(ctx, prompt, imageBase64, mimeType)
	if err != nil {
		return RestockResult{}, "", err
	}

	var result RestockResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return RestockResult{}, string(raw), fmt.Errorf("failed to parse restock response: %w", err)
	}
	return result, string(raw), nil
}

func (c *geminiClient) SuggestRecipes(ctx context.Context, text string, profile memory.Profile, ingredients []map[string]interface{}) (RecipeResult, string, error) {
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return RecipeResult{}, "", err
	}

	prompt := buildPrompt(promptRecipe, profile, text)
	prompt = strings.Replace(prompt, "{{ingredients}}", string(ingredientsJSON), 1)

	raw, err := c.generateJSON(ctx, prompt, "", "")
	if err != nil {
		return RecipeResult{}, "", err
	}

	var result RecipeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return RecipeResult{}, string(raw), fmt.Errorf("failed to parse recipe response: %w", err)
	}
	return result, string(raw), nil
}

func (c *geminiClient) InferMemoryPatch(ctx context.Context, text string, profile memory.Profile) (memory.Patch, string, error) {
	prompt := buildPrompt(promptProfile, profile, text)
	raw, err := c.generateJSON(ctx, prompt, "", "")
	if err != nil {
		return memory.Patch{}, "", err
	}

	patch, err := memory.ParsePatch(raw)
	if err != nil {
		return memory.Patch{}, string(raw), fmt.Errorf("failed to parse memory patch: %w", err)
	}
	return patch, string(raw), nil
}

// generateJSON calls the Gemini generateContent endpoint with an optional
// inline image and returns the JSON object extracted from the response text.
func (c *geminiClient) generateJSON(ctx context.Context, prompt, imageBase64, mimeType string) ([]byte, error) {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	model := utils.GetConfig("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, apiKey)

	parts := []map[string]interface{}{
		{"text": prompt},
	}
	if imageBase64 != "" {
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      stripDataPrefix(imageBase64),
			},
		})
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.2,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini response contains no candidates")
	}

	var builder strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}

	c.log.WithField("model", model).Debug("gemini raw response received")

	return ExtractJSON(builder.String())
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls the JSON object out of a model response that may be
// wrapped in markdown fences or surrounding prose.
func ExtractJSON(text string) ([]byte, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return []byte(cleaned), nil
	}

	if match := jsonObjectPattern.FindString(cleaned); match != "" && json.Valid([]byte(match)) {
		return []byte(match), nil
	}

	return nil, fmt.Errorf("response does not contain valid JSON")
}

var dataPrefixPattern = regexp.MustCompile(`^data:[^;]+;base64,`)

func stripDataPrefix(data string) string {
	return dataPrefixPattern.ReplaceAllString(data, "")
}
