package service

import (
	"context"

	"github.com/Masterminds/semver/v3"

	"github.com/storegrid/backoffice/internal/domain/channel"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// defaultUsageThreshold is the download count a usage_threshold rule requires
// when it carries no explicit threshold.
const defaultUsageThreshold = 100

// healthyState is the tenant health value a health_check rule requires.
const healthyState = "healthy"

// AdvancementService decides whether release channels advance to a candidate
// version, and executes approved advancements through the registry
// collaborator. A rejection is a normal outcome, not an error; only malformed
// policy data fails evaluation.
type AdvancementService interface {
	EvaluateAdvancement(ctx context.Context, tenantID, cellID, candidateVersion string) ([]*channel.Advancement, error)
	ExecuteAdvancements(ctx context.Context, tenantID string, advancements []*channel.Advancement) ([]*channel.AdvancementResult, error)
}

type advancementService struct {
	ServiceParams
}

func NewAdvancementService(params ServiceParams) AdvancementService {
	return &advancementService{ServiceParams: params}
}

func (s *advancementService) EvaluateAdvancement(ctx context.Context, tenantID, cellID, candidateVersion string) ([]*channel.Advancement, error) {
	if tenantID == "" || cellID == "" {
		return nil, ierr.NewError("tenant id and cell id are required").
			WithHint("Tenant ID and cell ID are required").
			Mark(ierr.ErrInvalidInput)
	}

	channels, err := s.ChannelRepo.ListByCell(ctx, tenantID, cellID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to load channels for cell").
			Mark(ierr.ErrCollaborator)
	}

	advancements := make([]*channel.Advancement, 0, len(channels))
	for _, ch := range channels {
		adv, err := s.evaluateChannel(ctx, tenantID, ch, candidateVersion)
		if err != nil {
			return nil, err
		}
		advancements = append(advancements, adv)
	}

	return advancements, nil
}

// evaluateChannel runs the gate sequence for one channel: version ordering,
// pin, then policy. Every gate is a hard reject that short-circuits the rest.
func (s *advancementService) evaluateChannel(ctx context.Context, tenantID string, ch *channel.Channel, candidateVersion string) (*channel.Advancement, error) {
	adv := &channel.Advancement{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ADVANCEMENT),
		ChannelID:   ch.ID,
		CellID:      ch.CellID,
		FromVersion: ch.CurrentVersion,
		ToVersion:   candidateVersion,
	}

	candidate, err := semver.NewVersion(candidateVersion)
	if err != nil {
		adv.Reason = "candidate is not a valid semantic version"
		return adv, nil
	}

	current, err := semver.NewVersion(ch.CurrentVersion)
	if err != nil {
		adv.Reason = "current version is not a valid semantic version"
		return adv, nil
	}

	if !candidate.GreaterThan(current) {
		adv.Reason = "candidate does not advance the current version"
		return adv, nil
	}

	if ch.Pin != nil {
		if err := ch.Pin.Validate(); err != nil {
			return nil, err
		}
		if reason := checkPin(ch.Pin, candidate); reason != "" {
			adv.Reason = reason
			return adv, nil
		}
	}

	// no policy configured means manual: the safe default is to never
	// auto-advance
	if ch.Policy == nil {
		adv.Reason = "no advancement policy configured"
		return adv, nil
	}
	if err := ch.Policy.Validate(); err != nil {
		return nil, err
	}

	switch ch.Policy.Type {
	case types.PolicyTypeManual:
		adv.Reason = "manual policy never auto-advances"
	case types.PolicyTypeAutomatic:
		approved, reason := evaluateAutomaticRules(ch.Policy.Rules, current, candidate)
		adv.Approved = approved
		adv.Reason = reason
	case types.PolicyTypeConditional:
		approved, reason, err := s.evaluateConditionalRules(ctx, tenantID, ch, current, candidate)
		if err != nil {
			return nil, err
		}
		adv.Approved = approved
		adv.Reason = reason
	default:
		return nil, ierr.NewError("unknown policy type").
			WithHintf("Policy type %s is not supported", ch.Policy.Type).
			Mark(ierr.ErrEvaluation)
	}

	return adv, nil
}

// checkPin returns a rejection reason when the candidate violates the pin,
// or an empty string when the pin allows it.
func checkPin(pin *channel.VersionPin, candidate *semver.Version) string {
	pinned := semver.MustParse(pin.Version)

	switch pin.Constraint {
	case types.PinConstraintExact:
		if !candidate.Equal(pinned) {
			return "pinned to exact version " + pin.Version
		}
	case types.PinConstraintMin:
		if candidate.Compare(pinned) < 0 {
			return "pinned to minimum version " + pin.Version
		}
	case types.PinConstraintMax:
		if candidate.Compare(pinned) > 0 {
			return "pinned to maximum version " + pin.Version
		}
	case types.PinConstraintCompatible:
		if candidate.Major() != pinned.Major() {
			return "pinned to versions compatible with " + pin.Version
		}
	}
	return ""
}

// evaluateAutomaticRules walks the rules in order; the first rule that speaks
// to version comparison decides the outcome. No matching rule rejects.
func evaluateAutomaticRules(rules []channel.PolicyRule, current, candidate *semver.Version) (bool, string) {
	for _, rule := range rules {
		switch rule.Kind {
		case types.PolicyRulePatchOnly:
			if candidate.Major() == current.Major() && candidate.Minor() == current.Minor() {
				return true, ""
			}
			return false, "only patch updates allowed"
		case types.PolicyRuleMinorAllowed:
			if candidate.Major() == current.Major() {
				return true, ""
			}
			return false, "only minor updates allowed"
		case types.PolicyRuleMajorBlocked:
			if candidate.Major() <= current.Major() {
				return true, ""
			}
			return false, "major updates blocked"
		case types.PolicyRuleTimeDelay:
			// hook point for publication-age checks; currently satisfied
			return true, ""
		}
	}
	return false, "no applicable rule in automatic policy"
}

// evaluateConditionalRules requires every rule to be satisfied against live
// signals, short-circuiting on the first failure.
func (s *advancementService) evaluateConditionalRules(
	ctx context.Context,
	tenantID string,
	ch *channel.Channel,
	current, candidate *semver.Version,
) (bool, string, error) {
	for _, rule := range ch.Policy.Rules {
		switch rule.Kind {
		case types.PolicyRuleHealthCheck:
			health, err := s.Signals.TenantHealth(ctx, tenantID)
			if err != nil {
				return false, "tenant health signal unavailable", nil
			}
			if health != healthyState {
				return false, "tenant is not healthy", nil
			}
		case types.PolicyRuleUsageThreshold:
			threshold := float64(defaultUsageThreshold)
			if rule.Threshold != nil {
				threshold = *rule.Threshold
			}
			downloads, err := s.Signals.Downloads(ctx, tenantID, ch.ID)
			if err != nil {
				return false, "download signal unavailable", nil
			}
			if float64(downloads) <= threshold {
				return false, "download threshold not met", nil
			}
		case types.PolicyRuleDependencyReady:
			// reserved hook, currently always satisfied
		case types.PolicyRulePatchOnly, types.PolicyRuleMinorAllowed, types.PolicyRuleMajorBlocked, types.PolicyRuleTimeDelay:
			if ok, reason := evaluateAutomaticRules([]channel.PolicyRule{rule}, current, candidate); !ok {
				return false, reason, nil
			}
		default:
			return false, "", ierr.NewError("unknown policy rule kind").
				WithHintf("Rule kind %s is not supported", rule.Kind).
				Mark(ierr.ErrEvaluation)
		}
	}
	return true, "", nil
}

// ExecuteAdvancements publishes each approved advancement through the
// registry. One item's failure never aborts the batch.
func (s *advancementService) ExecuteAdvancements(ctx context.Context, tenantID string, advancements []*channel.Advancement) ([]*channel.AdvancementResult, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrInvalidInput)
	}

	results := make([]*channel.AdvancementResult, 0, len(advancements))
	for _, adv := range advancements {
		result := &channel.AdvancementResult{
			ChannelID: adv.ChannelID,
			Version:   adv.ToVersion,
		}

		if !adv.Approved {
			result.Error = "advancement not approved"
			results = append(results, result)
			continue
		}

		if err := s.Registry.Publish(ctx, tenantID, adv.ChannelID, adv.ToVersion); err != nil {
			s.Logger.WithContext(ctx).Errorw("failed to publish advancement",
				"tenant_id", tenantID,
				"channel_id", adv.ChannelID,
				"version", adv.ToVersion,
				"error", err)
			// transport failures collapse to a stable message; the full chain
			// is in the log
			if ierr.IsHTTPClient(err) {
				result.Error = "registry unavailable"
			} else {
				result.Error = err.Error()
			}
			results = append(results, result)
			continue
		}

		ch, err := s.ChannelRepo.Get(ctx, tenantID, adv.ChannelID)
		if err == nil {
			ch.CurrentVersion = adv.ToVersion
			if err := s.ChannelRepo.Update(ctx, tenantID, ch); err != nil {
				s.Logger.WithContext(ctx).Warnw("published but failed to record channel version",
					"tenant_id", tenantID,
					"channel_id", adv.ChannelID,
					"error", err)
			}
		}

		result.Success = true
		results = append(results, result)
	}

	return results, nil
}
