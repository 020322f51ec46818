package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/domain/channel"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/testutil"
	"github.com/storegrid/backoffice/internal/types"
)

type AdvancementServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AdvancementService
}

func TestAdvancementService(t *testing.T) {
	suite.Run(t, new(AdvancementServiceSuite))
}

func (s *AdvancementServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAdvancementService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		Cache:       s.GetCache(),
		ChannelRepo: s.GetStores().ChannelRepo,
		Registry:    s.GetRegistry(),
		Signals:     s.GetSignals(),
	})
}

func (s *AdvancementServiceSuite) seedChannel(id, currentVersion string, policy *channel.AdvancementPolicy, pin *channel.VersionPin) *channel.Channel {
	ch := &channel.Channel{
		ID:             id,
		CellID:         "cell_1",
		Name:           id,
		CurrentVersion: currentVersion,
		Policy:         policy,
		Pin:            pin,
		BaseModel: types.BaseModel{
			TenantID: types.DefaultTenantID,
			Status:   types.StatusActive,
		},
	}
	s.NoError(s.GetStores().ChannelRepo.Create(s.GetContext(), types.DefaultTenantID, ch))
	return ch
}

func (s *AdvancementServiceSuite) evaluate(candidate string) []*channel.Advancement {
	advs, err := s.service.EvaluateAdvancement(s.GetContext(), types.DefaultTenantID, "cell_1", candidate)
	s.NoError(err)
	return advs
}

func automaticPolicy(kinds ...types.PolicyRuleKind) *channel.AdvancementPolicy {
	return &channel.AdvancementPolicy{
		Type: types.PolicyTypeAutomatic,
		Rules: lo.Map(kinds, func(k types.PolicyRuleKind, _ int) channel.PolicyRule {
			return channel.PolicyRule{Kind: k}
		}),
	}
}

func (s *AdvancementServiceSuite) TestMinorAllowedApproves() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMinorAllowed), nil)

	advs := s.evaluate("2.1.0")
	s.Len(advs, 1)
	s.True(advs[0].Approved)
	s.Equal("2.0.5", advs[0].FromVersion)
	s.Equal("2.1.0", advs[0].ToVersion)
}

func (s *AdvancementServiceSuite) TestMinorAllowedRejectsMajor() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMinorAllowed), nil)

	advs := s.evaluate("3.0.0")
	s.Len(advs, 1)
	s.False(advs[0].Approved)
	s.NotEmpty(advs[0].Reason)
}

func (s *AdvancementServiceSuite) TestMajorBlocked() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMajorBlocked), nil)

	s.True(s.evaluate("2.9.9")[0].Approved)
	s.False(s.evaluate("3.0.0")[0].Approved)
}

func (s *AdvancementServiceSuite) TestPatchOnly() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRulePatchOnly), nil)

	s.True(s.evaluate("2.0.6")[0].Approved)
	s.False(s.evaluate("2.1.0")[0].Approved)
}

func (s *AdvancementServiceSuite) TestCandidateMustAdvance() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMinorAllowed), nil)

	s.False(s.evaluate("2.0.5")[0].Approved, "equal version is not an advancement")
	s.False(s.evaluate("1.9.0")[0].Approved, "downgrade is not an advancement")
}

func (s *AdvancementServiceSuite) TestInvalidCandidateRejectsWithReason() {
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMinorAllowed), nil)

	advs := s.evaluate("not-a-version")
	s.Len(advs, 1)
	s.False(advs[0].Approved)
	s.NotEmpty(advs[0].Reason)
}

func (s *AdvancementServiceSuite) TestPinOverridesPolicy() {
	pin := &channel.VersionPin{Constraint: types.PinConstraintMax, Version: "2.5.0"}
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMinorAllowed), pin)

	advs := s.evaluate("2.6.0")
	s.False(advs[0].Approved, "pin rejects even when the policy would approve")

	advs = s.evaluate("2.4.0")
	s.True(advs[0].Approved)
}

func (s *AdvancementServiceSuite) TestCompatiblePin() {
	pin := &channel.VersionPin{Constraint: types.PinConstraintCompatible, Version: "2.0.0"}
	s.seedChannel("chan_1", "2.0.5", automaticPolicy(types.PolicyRuleMajorBlocked), pin)

	s.True(s.evaluate("2.3.0")[0].Approved)
	s.False(s.evaluate("3.1.0")[0].Approved)
}

func (s *AdvancementServiceSuite) TestNoPolicyDefaultsToManual() {
	s.seedChannel("chan_1", "1.0.0", nil, nil)

	advs := s.evaluate("1.1.0")
	s.False(advs[0].Approved)
	s.NotEmpty(advs[0].Reason)
}

func (s *AdvancementServiceSuite) TestManualPolicyNeverApproves() {
	s.seedChannel("chan_1", "1.0.0", &channel.AdvancementPolicy{Type: types.PolicyTypeManual}, nil)

	s.False(s.evaluate("1.0.1")[0].Approved)
}

func (s *AdvancementServiceSuite) TestConditionalAllRulesMustPass() {
	policy := &channel.AdvancementPolicy{
		Type: types.PolicyTypeConditional,
		Rules: []channel.PolicyRule{
			{Kind: types.PolicyRuleHealthCheck},
			{Kind: types.PolicyRuleUsageThreshold, Threshold: lo.ToPtr(float64(50))},
		},
	}
	ch := s.seedChannel("chan_1", "1.0.0", policy, nil)

	s.GetSignals().Health[types.DefaultTenantID] = "healthy"
	s.GetSignals().DownloadCount[ch.ID] = 100
	s.True(s.evaluate("1.1.0")[0].Approved)

	s.GetSignals().DownloadCount[ch.ID] = 10
	advs := s.evaluate("1.1.0")
	s.False(advs[0].Approved)
	s.NotEmpty(advs[0].Reason)
}

func (s *AdvancementServiceSuite) TestFractionalUsageThreshold() {
	policy := &channel.AdvancementPolicy{
		Type:  types.PolicyTypeConditional,
		Rules: []channel.PolicyRule{{Kind: types.PolicyRuleUsageThreshold, Threshold: lo.ToPtr(100.5)}},
	}
	ch := s.seedChannel("chan_1", "1.0.0", policy, nil)

	// the threshold is compared as given, never truncated to an integer
	s.GetSignals().DownloadCount[ch.ID] = 100
	s.False(s.evaluate("1.1.0")[0].Approved)

	s.GetSignals().DownloadCount[ch.ID] = 101
	s.True(s.evaluate("1.1.0")[0].Approved)
}

func (s *AdvancementServiceSuite) TestConditionalRejectsOnUnhealthyTenant() {
	policy := &channel.AdvancementPolicy{
		Type:  types.PolicyTypeConditional,
		Rules: []channel.PolicyRule{{Kind: types.PolicyRuleHealthCheck}},
	}
	s.seedChannel("chan_1", "1.0.0", policy, nil)

	s.GetSignals().Health[types.DefaultTenantID] = "degraded"
	s.False(s.evaluate("1.1.0")[0].Approved)
}

func (s *AdvancementServiceSuite) TestConditionalSignalFailureRejects() {
	policy := &channel.AdvancementPolicy{
		Type:  types.PolicyTypeConditional,
		Rules: []channel.PolicyRule{{Kind: types.PolicyRuleHealthCheck}},
	}
	s.seedChannel("chan_1", "1.0.0", policy, nil)

	s.GetSignals().HealthErr = ierr.NewError("signals down").Mark(ierr.ErrHTTPClient)
	advs := s.evaluate("1.1.0")
	s.False(advs[0].Approved, "signal unavailability is a rejection, not an error")
	s.NotEmpty(advs[0].Reason)
}

func (s *AdvancementServiceSuite) TestMalformedPolicyIsEvaluationError() {
	policy := &channel.AdvancementPolicy{
		Type:  types.PolicyTypeAutomatic,
		Rules: []channel.PolicyRule{{Kind: "made_up_kind"}},
	}
	s.seedChannel("chan_1", "1.0.0", policy, nil)

	_, err := s.service.EvaluateAdvancement(s.GetContext(), types.DefaultTenantID, "cell_1", "1.1.0")
	s.Error(err)
	s.True(ierr.IsEvaluation(err))
}

func (s *AdvancementServiceSuite) TestEvaluateWholeCell() {
	s.seedChannel("chan_stable", "2.0.0", automaticPolicy(types.PolicyRulePatchOnly), nil)
	s.seedChannel("chan_canary", "2.0.0", automaticPolicy(types.PolicyRuleMinorAllowed), nil)

	advs := s.evaluate("2.1.0")
	s.Len(advs, 2)

	byChannel := lo.KeyBy(advs, func(a *channel.Advancement) string { return a.ChannelID })
	s.False(byChannel["chan_stable"].Approved)
	s.True(byChannel["chan_canary"].Approved)
}

func (s *AdvancementServiceSuite) TestExecutePublishesApproved() {
	ch := s.seedChannel("chan_1", "1.0.0", nil, nil)

	results, err := s.service.ExecuteAdvancements(s.GetContext(), types.DefaultTenantID, []*channel.Advancement{
		{ChannelID: ch.ID, CellID: ch.CellID, FromVersion: "1.0.0", ToVersion: "1.1.0", Approved: true},
	})
	s.NoError(err)
	s.Len(results, 1)
	s.True(results[0].Success)
	s.Equal("1.1.0", s.GetRegistry().Published[ch.ID])

	updated, err := s.GetStores().ChannelRepo.Get(s.GetContext(), types.DefaultTenantID, ch.ID)
	s.NoError(err)
	s.Equal("1.1.0", updated.CurrentVersion)
}

func (s *AdvancementServiceSuite) TestExecuteSkipsUnapproved() {
	ch := s.seedChannel("chan_1", "1.0.0", nil, nil)

	results, err := s.service.ExecuteAdvancements(s.GetContext(), types.DefaultTenantID, []*channel.Advancement{
		{ChannelID: ch.ID, ToVersion: "1.1.0", Approved: false},
	})
	s.NoError(err)
	s.False(results[0].Success)
	s.NotEmpty(results[0].Error)
	s.Empty(s.GetRegistry().Published)
}

func (s *AdvancementServiceSuite) TestExecuteIsolatesFailures() {
	good := s.seedChannel("chan_good", "1.0.0", nil, nil)
	bad := s.seedChannel("chan_bad", "1.0.0", nil, nil)
	s.GetRegistry().FailFor[bad.ID] = true

	results, err := s.service.ExecuteAdvancements(s.GetContext(), types.DefaultTenantID, []*channel.Advancement{
		{ChannelID: bad.ID, ToVersion: "1.1.0", Approved: true},
		{ChannelID: good.ID, ToVersion: "1.1.0", Approved: true},
	})
	s.NoError(err)
	s.Len(results, 2)
	s.False(results[0].Success)
	s.Equal("registry unavailable", results[0].Error)
	s.True(results[1].Success, "one failure must not abort the batch")
	s.Equal("1.1.0", s.GetRegistry().Published[good.ID])
}
