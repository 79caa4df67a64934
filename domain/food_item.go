package domain

import (
	"errors"
	"mime/multipart"
	"time"

	"fridgewise-backend/pkg/inventory"
)

var (
	MessageSuccessAddFoodItem    = "food item added successfully"
	MessageSuccessGetInventory   = "inventory retrieved successfully"
	MessageSuccessRestock        = "restock applied successfully"
	MessageSuccessConsumeGroup   = "items marked as consumed"
	MessageSuccessClearInventory = "inventory cleared"
	MessageSuccessUploadScan     = "scan uploaded successfully"
	MessageSuccessGetStats       = "dashboard statistics retrieved successfully"

	MessageFailedAddFoodItem    = "failed to add food item"
	MessageFailedGetInventory   = "failed to retrieve inventory"
	MessageFailedRestock        = "failed to apply restock"
	MessageFailedConsumeGroup   = "failed to mark items as consumed"
	MessageFailedClearInventory = "failed to clear inventory"
	MessageFailedUploadScan     = "failed to upload scan"
	MessageFailedGetStats       = "failed to retrieve dashboard statistics"

	ErrFoodItemNotFound   = errors.New("food item not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidSource      = errors.New("invalid restock source")
	ErrUnauthorizedAccess = errors.New("unauthorized access to food item")
	ErrEmptyMemberSet     = errors.New("display group has no member items")
	ErrExtractionFailed   = errors.New("vision extraction failed")
)

type (
	AddFoodItemRequest struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
		Unit     string  `json:"unit" validate:"required"`
		ExpiryAt string  `json:"expiry_at" validate:"required"`
	}

	AddFoodItemResponse struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Quantity float64   `json:"quantity"`
		Unit     string    `json:"unit"`
		ExpiryAt time.Time `json:"expiry_at"`
		Status   string    `json:"status"`
	}

	DisplayGroupResponse struct {
		Key        string   `json:"key"`
		Name       string   `json:"name"`
		Quantity   float64  `json:"quantity"`
		Unit       string   `json:"unit"`
		ExpiryAt   int64    `json:"expiry_at"`
		Confidence float64  `json:"confidence"`
		Status     string   `json:"status"`
		ItemIDs    []string `json:"item_ids"`
	}

	InventoryResponse struct {
		Groups  []DisplayGroupResponse            `json:"groups"`
		Tiers   map[string][]DisplayGroupResponse `json:"tiers"`
		Total   int                               `json:"total"`
		FetchAt time.Time                         `json:"fetched_at"`
	}

	RestockRequest struct {
		Items []inventory.Candidate `json:"items" validate:"required,dive"`
	}

	RestockScanRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
		Kind  string                `json:"kind" form:"kind" validate:"omitempty,oneof=receipt fridge_photo"`
	}

	RestockResponse struct {
		Inserted               int      `json:"inserted"`
		Merged                 int      `json:"merged"`
		NeedClarification      bool     `json:"need_clarification"`
		ClarificationQuestions []string `json:"clarification_questions,omitempty"`
	}

	ConsumeGroupRequest struct {
		ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
	}

	DashboardStatsResponse struct {
		TotalItems    int64 `json:"total_items"`
		ExpiredItems  int64 `json:"expired_items"`
		UseSoonItems  int64 `json:"use_soon_items"`
		FreshItems    int64 `json:"fresh_items"`
		ConsumedItems int64 `json:"consumed_items"`
	}
)
