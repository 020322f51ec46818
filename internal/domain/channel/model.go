package channel

import (
	"github.com/Masterminds/semver/v3"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// PolicyRule is one typed rule inside an advancement policy. Kind is a closed
// set; adding a kind means extending the resolver's dispatch, which the
// compiler will flag through the exhaustive switch there.
type PolicyRule struct {
	Kind types.PolicyRuleKind `json:"kind"`

	// Threshold is the numeric parameter for kinds that take one, e.g. the
	// download count for usage_threshold
	Threshold *float64 `json:"threshold,omitempty"`
}

func (r PolicyRule) Validate() error {
	if !r.Kind.Validate() {
		return ierr.NewError("unknown policy rule kind").
			WithHintf("Rule kind %s is not supported", r.Kind).
			Mark(ierr.ErrEvaluation)
	}
	return nil
}

// AdvancementPolicy decides whether a channel auto-advances. Rules are
// evaluated in order; their meaning depends on the policy type.
type AdvancementPolicy struct {
	Type  types.PolicyType `json:"type"`
	Rules []PolicyRule     `json:"rules"`
}

func (p *AdvancementPolicy) Validate() error {
	if !p.Type.Validate() {
		return ierr.NewError("unknown policy type").
			WithHintf("Policy type %s is not supported", p.Type).
			Mark(ierr.ErrEvaluation)
	}
	for _, r := range p.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// VersionPin is a hard version gate checked before any policy rule.
type VersionPin struct {
	Constraint types.PinConstraint `json:"constraint"`
	Version    string              `json:"version"`
}

func (p *VersionPin) Validate() error {
	if !p.Constraint.Validate() {
		return ierr.NewError("unknown pin constraint").
			WithHintf("Pin constraint %s is not supported", p.Constraint).
			Mark(ierr.ErrEvaluation)
	}
	if _, err := semver.NewVersion(p.Version); err != nil {
		return ierr.WithError(err).
			WithHintf("Pin version %s is not a valid semantic version", p.Version).
			Mark(ierr.ErrEvaluation)
	}
	return nil
}

// Channel is a named release track inside a cell, e.g. stable or canary.
type Channel struct {
	ID             string             `db:"id" json:"id"`
	CellID         string             `db:"cell_id" json:"cell_id"`
	Name           string             `db:"name" json:"name"`
	CurrentVersion string             `db:"current_version" json:"current_version"`
	Policy         *AdvancementPolicy `json:"policy,omitempty"`
	Pin            *VersionPin        `json:"pin,omitempty"`

	types.BaseModel
}

// Advancement is an approved or rejected advancement decision for one channel.
type Advancement struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channel_id"`
	CellID      string `json:"cell_id"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	Approved    bool   `json:"approved"`
	Reason      string `json:"reason,omitempty"`
}

// AdvancementResult records the outcome of executing one advancement.
type AdvancementResult struct {
	ChannelID string `json:"channel_id"`
	Version   string `json:"version"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
