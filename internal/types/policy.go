package types

// PolicyType decides how a release channel advances to a newer version.
type PolicyType string

const (
	// PolicyTypeManual never auto-advances; it is the default for channels
	// without a configured policy.
	PolicyTypeManual PolicyType = "manual"
	// PolicyTypeAutomatic advances when the first matching version rule allows it.
	PolicyTypeAutomatic PolicyType = "automatic"
	// PolicyTypeConditional advances when live signal rules are satisfied.
	PolicyTypeConditional PolicyType = "conditional"
)

func (t PolicyType) Validate() bool {
	switch t {
	case PolicyTypeManual, PolicyTypeAutomatic, PolicyTypeConditional:
		return true
	}
	return false
}

// PolicyRuleKind is the closed set of rule kinds a channel policy may carry.
type PolicyRuleKind string

const (
	PolicyRulePatchOnly       PolicyRuleKind = "patch_only"
	PolicyRuleMinorAllowed    PolicyRuleKind = "minor_allowed"
	PolicyRuleMajorBlocked    PolicyRuleKind = "major_blocked"
	PolicyRuleTimeDelay       PolicyRuleKind = "time_delay"
	PolicyRuleHealthCheck     PolicyRuleKind = "health_check"
	PolicyRuleUsageThreshold  PolicyRuleKind = "usage_threshold"
	PolicyRuleDependencyReady PolicyRuleKind = "dependency_ready"
)

func (k PolicyRuleKind) Validate() bool {
	switch k {
	case PolicyRulePatchOnly, PolicyRuleMinorAllowed, PolicyRuleMajorBlocked,
		PolicyRuleTimeDelay, PolicyRuleHealthCheck, PolicyRuleUsageThreshold,
		PolicyRuleDependencyReady:
		return true
	}
	return false
}

// PinConstraint restricts which versions a channel may advance to.
// Pins are hard gates checked before any policy rule.
type PinConstraint string

const (
	PinConstraintExact      PinConstraint = "exact"
	PinConstraintMin        PinConstraint = "min"
	PinConstraintMax        PinConstraint = "max"
	PinConstraintCompatible PinConstraint = "compatible"
)

func (c PinConstraint) Validate() bool {
	switch c {
	case PinConstraintExact, PinConstraintMin, PinConstraintMax, PinConstraintCompatible:
		return true
	}
	return false
}
