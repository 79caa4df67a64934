package food

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fridgewise-backend/domain"
	"fridgewise-backend/entities"
	"fridgewise-backend/internal/ops"
	"fridgewise-backend/internal/utils/storage"
	"fridgewise-backend/pkg/ai"
	"fridgewise-backend/pkg/inventory"
	"fridgewise-backend/pkg/memory"
	"fridgewise-backend/pkg/memorystore"
)

type (
	FoodService interface {
		AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.AddFoodItemResponse, error)
		GetInventory(ctx context.Context, userID string) (domain.InventoryResponse, error)
		Restock(ctx context.Context, candidates []inventory.Candidate, userID string) (domain.RestockResponse, error)
		RestockFromScan(ctx context.Context, req domain.RestockScanRequest, userID string) (domain.RestockResponse, error)
		ConsumeGroup(ctx context.Context, req domain.ConsumeGroupRequest, userID string) error
		ClearInventory(ctx context.Context, userID string) error
		GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error)
	}

	foodService struct {
		foodRepository FoodRepository
		memoryService  memorystore.MemoryService
		gemini         ai.GeminiClient
		s3             storage.AwsS3
		log            *logrus.Logger
	}
)

func NewFoodService(foodRepository FoodRepository, memoryService memorystore.MemoryService, gemini ai.GeminiClient, s3 storage.AwsS3, log *logrus.Logger) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		memoryService:  memoryService,
		gemini:         gemini,
		s3:             s3,
		log:            log,
	}
}

func (s *foodService) AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.AddFoodItemResponse, error) {
	if req.Quantity <= 0 {
		return domain.AddFoodItemResponse{}, domain.ErrInvalidQuantity
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.AddFoodItemResponse{}, domain.ErrParseUUID
	}

	now := time.Now()
	expiryAt := inventory.NormalizeExpiry(req.ExpiryAt, now)

	foodItem := &entities.FoodItem{
		ID:         uuid.New(),
		UserID:     userUUID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		ExpiryAt:   expiryAt,
		Source:     entities.SourceManual,
		Confidence: 1,
	}

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return domain.AddFoodItemResponse{}, err
	}

	return domain.AddFoodItemResponse{
		ID:       foodItem.ID.String(),
		Name:     foodItem.Name,
		Quantity: foodItem.Quantity,
		Unit:     foodItem.Unit,
		ExpiryAt: foodItem.ExpiryAt,
		Status:   string(inventory.Classify(foodItem.ExpiryAt, now)),
	}, nil
}

func (s *foodService) GetInventory(ctx context.Context, userID string) (domain.InventoryResponse, error) {
	items, err := s.foodRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return domain.InventoryResponse{}, err
	}

	now := time.Now()
	groups := inventory.GroupForDisplay(items)

	response := domain.InventoryResponse{
		Groups: make([]domain.DisplayGroupResponse, 0, len(groups)),
		Tiers: map[string][]domain.DisplayGroupResponse{
			string(inventory.StatusExpired): {},
			string(inventory.StatusUseSoon): {},
			string(inventory.StatusFresh):   {},
		},
		Total:   len(groups),
		FetchAt: now,
	}

	for _, group := range groups {
		status := inventory.Classify(time.UnixMilli(group.ExpiryAt), now)
		groupResponse := domain.DisplayGroupResponse{
			Key:        group.Key,
			Name:       group.Name,
			Quantity:   group.Quantity,
			Unit:       group.Unit,
			ExpiryAt:   group.ExpiryAt,
			Confidence: group.Confidence,
			Status:     string(status),
			ItemIDs:    group.ItemIDs,
		}
		response.Groups = append(response.Groups, groupResponse)
		response.Tiers[string(status)] = append(response.Tiers[string(status)], groupResponse)
	}

	return response, nil
}

func (s *foodService) Restock(ctx context.Context, candidates []inventory.Candidate, userID string) (domain.RestockResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RestockResponse{}, domain.ErrParseUUID
	}

	for _, candidate := range candidates {
		switch candidate.Source {
		case entities.SourceReceipt, entities.SourceFridgePhoto, entities.SourceManual:
		default:
			return domain.RestockResponse{}, domain.ErrInvalidSource
		}
	}

	existing, err := s.foodRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return domain.RestockResponse{}, err
	}

	mutations := inventory.PlanRestock(candidates, existing, userUUID, time.Now())
	if err := s.foodRepository.ApplyMutations(ctx, mutations); err != nil {
		return domain.RestockResponse{}, err
	}

	response := domain.RestockResponse{}
	for _, m := range mutations {
		if m.Op == inventory.OpInsert {
			response.Inserted++
		} else {
			response.Merged++
		}
	}

	ops.RestockBatches.WithLabelValues(entities.SourceManual).Inc()
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"inserted": response.Inserted,
		"merged":   response.Merged,
	}).Info("restock batch applied")

	return response, nil
}

// RestockFromScan uploads the photo, runs vision extraction, then applies the
// resulting candidates through the regular restock path. An extraction
// failure marks the scan failed and leaves the inventory untouched.
func (s *foodService) RestockFromScan(ctx context.Context, req domain.RestockScanRequest, userID string) (domain.RestockResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RestockResponse{}, domain.ErrParseUUID
	}

	kind := req.Kind
	if kind == "" {
		kind = entities.SourceReceipt
	}

	scanID := uuid.New()
	fileName := fmt.Sprintf("scan-%s", scanID.String())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, "scans", storage.AllowImage...)
	if err != nil {
		return domain.RestockResponse{}, err
	}

	scan := &entities.Scan{
		ID:       scanID,
		UserID:   userUUID,
		ImageURL: s.s3.GetPublicLinkKey(objectKey),
		Kind:     kind,
		Status:   "Pending",
	}
	if err := s.foodRepository.CreateScan(ctx, scan); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.RestockResponse{}, err
	}

	file, err := req.Image.Open()
	if err != nil {
		return domain.RestockResponse{}, s.failScan(ctx, scan, err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return domain.RestockResponse{}, s.failScan(ctx, scan, err)
	}

	profile, err := s.memoryService.GetProfile(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("failed to load memory profile for extraction")
		profile = memory.Profile{}
	}

	imageBase64 := base64.StdEncoding.EncodeToString(fileBytes)
	mimeType := req.Image.Header.Get("Content-Type")

	extractStart := time.Now()
	result, raw, err := s.gemini.ExtractRestock(ctx, imageBase64, mimeType, "", profile)
	ops.ScanDuration.Observe(time.Since(extractStart).Seconds())
	if err != nil {
		return domain.RestockResponse{}, s.failScan(ctx, scan, domain.ErrExtractionFailed)
	}

	scan.Status = "Processed"
	scan.RawResult = raw
	if err := s.foodRepository.UpdateScan(ctx, scan); err != nil {
		return domain.RestockResponse{}, err
	}

	scanIDStr := scanID.String()
	for i := range result.Items {
		if result.Items[i].Source == "" {
			result.Items[i].Source = kind
		}
	}

	existing, err := s.foodRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return domain.RestockResponse{}, err
	}

	mutations := inventory.PlanRestock(result.Items, existing, userUUID, time.Now())
	for _, m := range mutations {
		if m.Op == inventory.OpInsert {
			m.Insert.ScanID = &scanIDStr
		}
	}

	if err := s.foodRepository.ApplyMutations(ctx, mutations); err != nil {
		return domain.RestockResponse{}, err
	}

	response := domain.RestockResponse{
		NeedClarification:      result.NeedClarification,
		ClarificationQuestions: result.ClarificationQuestions,
	}
	for _, m := range mutations {
		if m.Op == inventory.OpInsert {
			response.Inserted++
		} else {
			response.Merged++
		}
	}

	ops.RestockBatches.WithLabelValues(kind).Inc()
	return response, nil
}

func (s *foodService) failScan(ctx context.Context, scan *entities.Scan, cause error) error {
	scan.Status = "Failed"
	scan.RawResult = cause.Error()
	if err := s.foodRepository.UpdateScan(ctx, scan); err != nil {
		s.log.WithError(err).Error("failed to mark scan as failed")
	}
	return cause
}

func (s *foodService) ConsumeGroup(ctx context.Context, req domain.ConsumeGroupRequest, userID string) error {
	if len(req.ItemIDs) == 0 {
		return domain.ErrEmptyMemberSet
	}
	return s.foodRepository.ConsumeItems(ctx, userID, req.ItemIDs, time.Now())
}

func (s *foodService) ClearInventory(ctx context.Context, userID string) error {
	return s.foodRepository.ClearItems(ctx, userID)
}

func (s *foodService) GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error) {
	items, err := s.foodRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return domain.DashboardStatsResponse{}, err
	}

	consumed, err := s.foodRepository.CountConsumed(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DashboardStatsResponse{}, err
		}
		consumed = 0
	}

	now := time.Now()
	stats := domain.DashboardStatsResponse{
		TotalItems:    int64(len(items)),
		ConsumedItems: consumed,
	}
	for _, item := range items {
		switch inventory.Classify(item.ExpiryAt, now) {
		case inventory.StatusExpired:
			stats.ExpiredItems++
		case inventory.StatusUseSoon:
			stats.UseSoonItems++
		default:
			stats.FreshItems++
		}
	}

	return stats, nil
}
