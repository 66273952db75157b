package enums

import "fmt"

// PlanName identifies a subscription tier in the plan catalog.
type PlanName string

const (
	PlanNameStandard PlanName = "standard"
	PlanNamePremium  PlanName = "premium"

	// PlanNameFreeAccess is the synthetic plan substituted when paid
	// subscriptions are globally disabled. It never exists in the catalog table.
	PlanNameFreeAccess PlanName = "free_access"
)

var validPlanNames = []PlanName{
	PlanNameStandard,
	PlanNamePremium,
}

// String implements fmt.Stringer.
func (p PlanName) String() string {
	return string(p)
}

// IsValid reports whether the value names a catalog plan.
func (p PlanName) IsValid() bool {
	for _, candidate := range validPlanNames {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlanName converts raw input into a PlanName.
func ParsePlanName(value string) (PlanName, error) {
	for _, candidate := range validPlanNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan name %q", value)
}
