package domain

import (
	"errors"
	"time"

	"fridgewise-backend/pkg/memory"
)

var (
	MessageSuccessGetProfile   = "memory profile retrieved successfully"
	MessageSuccessApplyPatch   = "memory patch applied successfully"
	MessageSuccessNoOpPatch    = "nothing to apply"
	MessageSuccessGetHistory   = "memory history retrieved successfully"
	MessageSuccessInferPatch   = "memory patch inferred successfully"

	MessageFailedGetProfile = "failed to retrieve memory profile"
	MessageFailedApplyPatch = "failed to apply memory patch"
	MessageFailedGetHistory = "failed to retrieve memory history"
	MessageFailedInferPatch = "failed to infer memory patch"

	ErrInvalidPatch       = errors.New("invalid memory patch")
	ErrInvalidPatchSource = errors.New("patch source must be auto or explicit")
)

type (
	ApplyPatchRequest struct {
		Updates []memory.Update `json:"updates" validate:"required"`
		Source  string          `json:"source" validate:"omitempty,oneof=auto explicit"`
	}

	InferPatchRequest struct {
		Text string `json:"text" validate:"required"`
	}

	ApplyPatchResponse struct {
		Profile   memory.Profile `json:"profile"`
		Applied   int            `json:"applied"`
		HistoryID string         `json:"history_id,omitempty"`
	}

	MemoryHistoryItem struct {
		ID        string          `json:"id"`
		CreatedAt time.Time       `json:"created_at"`
		Updates   []memory.Update `json:"updates"`
		Before    memory.Profile  `json:"before"`
		After     memory.Profile  `json:"after"`
		Source    string          `json:"source"`
	}

	MemoryHistoryResponse struct {
		Entries []MemoryHistoryItem `json:"entries"`
		Total   int64               `json:"total"`
	}
)
