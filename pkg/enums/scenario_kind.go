package enums

import "fmt"

// ScenarioKind names the access state derived from a subscription record and
// the current time. Scenarios are computed per evaluation, never persisted.
type ScenarioKind string

const (
	ScenarioSubscriptionsDisabled ScenarioKind = "subscriptions_disabled"
	ScenarioNoSubscription        ScenarioKind = "no_subscription"
	ScenarioActive                ScenarioKind = "active"
	ScenarioGracePeriod           ScenarioKind = "grace_period"
	ScenarioLocked                ScenarioKind = "locked"
)

var validScenarioKinds = []ScenarioKind{
	ScenarioSubscriptionsDisabled,
	ScenarioNoSubscription,
	ScenarioActive,
	ScenarioGracePeriod,
	ScenarioLocked,
}

// String implements fmt.Stringer.
func (s ScenarioKind) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s ScenarioKind) IsValid() bool {
	for _, candidate := range validScenarioKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScenarioKind converts raw input into a ScenarioKind.
func ParseScenarioKind(value string) (ScenarioKind, error) {
	for _, candidate := range validScenarioKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scenario kind %q", value)
}
