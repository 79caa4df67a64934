package memorystore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fridgewise-backend/domain"
	"fridgewise-backend/entities"
	"fridgewise-backend/internal/ops"
	"fridgewise-backend/pkg/ai"
	"fridgewise-backend/pkg/memory"
)

type (
	MemoryService interface {
		GetProfile(ctx context.Context, userID string) (memory.Profile, error)
		ApplyPatch(ctx context.Context, userID string, patch memory.Patch, source string) (domain.ApplyPatchResponse, error)
		InferAndApply(ctx context.Context, userID string, text string) (domain.ApplyPatchResponse, error)
		GetHistory(ctx context.Context, userID string, page, limit int) (domain.MemoryHistoryResponse, error)
	}

	memoryService struct {
		memoryRepository MemoryRepository
		gemini           ai.GeminiClient
		log              *logrus.Logger
	}
)

func NewMemoryService(memoryRepository MemoryRepository, gemini ai.GeminiClient, log *logrus.Logger) MemoryService {
	return &memoryService{
		memoryRepository: memoryRepository,
		gemini:           gemini,
		log:              log,
	}
}

func (s *memoryService) GetProfile(ctx context.Context, userID string) (memory.Profile, error) {
	record, err := s.memoryRepository.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return memory.Profile{}, nil
		}
		return memory.Profile{}, err
	}
	return profileFromEntity(record), nil
}

func (s *memoryService) ApplyPatch(ctx context.Context, userID string, patch memory.Patch, source string) (domain.ApplyPatchResponse, error) {
	if err := patch.Validate(); err != nil {
		return domain.ApplyPatchResponse{}, domain.ErrInvalidPatch
	}
	switch source {
	case "", memory.SourceAuto, memory.SourceExplicit:
	default:
		return domain.ApplyPatchResponse{}, domain.ErrInvalidPatchSource
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ApplyPatchResponse{}, domain.ErrParseUUID
	}

	record, err := s.memoryRepository.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ApplyPatchResponse{}, err
	}

	var profile memory.Profile
	if record != nil {
		profile = profileFromEntity(record)
	}

	next, history := memory.ApplyPatch(profile, patch, memory.Options{Source: source}, time.Now())
	if history == nil {
		// Everything was filtered out; nothing to persist.
		return domain.ApplyPatchResponse{Profile: profile, Applied: 0}, nil
	}

	if record == nil {
		record = &entities.MemoryProfile{ID: uuid.New(), UserID: userUUID}
	}
	applyProfileToEntity(next, record)

	historyEntity, err := historyToEntity(history, userUUID)
	if err != nil {
		return domain.ApplyPatchResponse{}, err
	}

	if err := s.memoryRepository.SaveProfileWithHistory(ctx, record, historyEntity); err != nil {
		return domain.ApplyPatchResponse{}, err
	}

	ops.MemoryPatchesApplied.WithLabelValues(history.Source).Inc()
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"applied": len(history.Updates),
		"source":  history.Source,
	}).Info("memory patch applied")

	return domain.ApplyPatchResponse{
		Profile:   next,
		Applied:   len(history.Updates),
		HistoryID: historyEntity.ID.String(),
	}, nil
}

func (s *memoryService) InferAndApply(ctx context.Context, userID string, text string) (domain.ApplyPatchResponse, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.ApplyPatchResponse{}, err
	}

	patch, _, err := s.gemini.InferMemoryPatch(ctx, text, profile)
	if err != nil {
		return domain.ApplyPatchResponse{}, err
	}

	// Inferred patches are always auto-sourced so the sensitivity gate holds.
	return s.ApplyPatch(ctx, userID, patch, memory.SourceAuto)
}

func (s *memoryService) GetHistory(ctx context.Context, userID string, page, limit int) (domain.MemoryHistoryResponse, error) {
	entries, count, err := s.memoryRepository.GetHistory(ctx, userID, page, limit)
	if err != nil {
		return domain.MemoryHistoryResponse{}, err
	}

	items := make([]domain.MemoryHistoryItem, 0, len(entries))
	for _, entry := range entries {
		item := domain.MemoryHistoryItem{
			ID:        entry.ID.String(),
			CreatedAt: entry.CreatedAt,
			Source:    entry.Source,
		}
		// History rows are audit data; decode failures are logged, not fatal.
		if err := json.Unmarshal([]byte(entry.Updates), &item.Updates); err != nil {
			s.log.WithError(err).Warn("failed to decode history updates")
		}
		if err := json.Unmarshal([]byte(entry.Before), &item.Before); err != nil {
			s.log.WithError(err).Warn("failed to decode history before snapshot")
		}
		if err := json.Unmarshal([]byte(entry.After), &item.After); err != nil {
			s.log.WithError(err).Warn("failed to decode history after snapshot")
		}
		items = append(items, item)
	}

	return domain.MemoryHistoryResponse{Entries: items, Total: count}, nil
}

func profileFromEntity(record *entities.MemoryProfile) memory.Profile {
	return memory.Profile{
		DietaryRestrictions:   decodeList(record.DietaryRestrictions),
		Allergies:             decodeList(record.Allergies),
		FavoriteCuisines:      decodeList(record.FavoriteCuisines),
		DislikedIngredients:   decodeList(record.DislikedIngredients),
		Equipment:             decodeList(record.Equipment),
		SkillLevel:            record.SkillLevel,
		CalorieGoal:           record.CalorieGoal,
		CookingTimePreference: record.CookingTimePreference,
		HouseholdSize:         record.HouseholdSize,
	}
}

func applyProfileToEntity(profile memory.Profile, record *entities.MemoryProfile) {
	record.DietaryRestrictions = encodeList(profile.DietaryRestrictions)
	record.Allergies = encodeList(profile.Allergies)
	record.FavoriteCuisines = encodeList(profile.FavoriteCuisines)
	record.DislikedIngredients = encodeList(profile.DislikedIngredients)
	record.Equipment = encodeList(profile.Equipment)
	record.SkillLevel = profile.SkillLevel
	record.CalorieGoal = profile.CalorieGoal
	record.CookingTimePreference = profile.CookingTimePreference
	record.HouseholdSize = profile.HouseholdSize
}

func historyToEntity(history *memory.HistoryEntry, userID uuid.UUID) (*entities.MemoryHistoryEntry, error) {
	updatesJSON, err := json.Marshal(history.Updates)
	if err != nil {
		return nil, err
	}
	beforeJSON, err := json.Marshal(history.Before)
	if err != nil {
		return nil, err
	}
	afterJSON, err := json.Marshal(history.After)
	if err != nil {
		return nil, err
	}

	return &entities.MemoryHistoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Updates:   string(updatesJSON),
		Before:    string(beforeJSON),
		After:     string(afterJSON),
		Source:    history.Source,
		CreatedAt: history.CreatedAt,
	}, nil
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

func encodeList(list []string) string {
	if len(list) == 0 {
		return ""
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(encoded)
}
