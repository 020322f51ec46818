package dto

import (
	"github.com/storegrid/backoffice/internal/domain/channel"
	"github.com/storegrid/backoffice/internal/validator"
)

// EvaluateAdvancementRequest represents the request to evaluate a candidate
// version against every channel of a cell
type EvaluateAdvancementRequest struct {
	// cell_id is the cell whose channels are evaluated (required)
	CellID string `json:"cell_id" validate:"required"`

	// candidate_version is the version proposed for advancement (required)
	CandidateVersion string `json:"candidate_version" validate:"required"`
}

func (r *EvaluateAdvancementRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// EvaluateAdvancementResponse represents the per-channel advancement decisions
type EvaluateAdvancementResponse struct {
	Items []*channel.Advancement `json:"items"`
}

// ExecuteAdvancementsRequest represents the request to execute a set of
// approved advancement decisions
type ExecuteAdvancementsRequest struct {
	Advancements []*channel.Advancement `json:"advancements" validate:"required,min=1"`
}

func (r *ExecuteAdvancementsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ExecuteAdvancementsResponse represents the per-channel execution outcomes
type ExecuteAdvancementsResponse struct {
	Items []*channel.AdvancementResult `json:"items"`
}
