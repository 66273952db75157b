package enums

import "fmt"

// QuotaAction names a user intent checked against the quota guard.
type QuotaAction string

const (
	QuotaActionCreatePost  QuotaAction = "create_post"
	QuotaActionAddImage    QuotaAction = "add_image"
	QuotaActionAddVideo    QuotaAction = "add_video"
	QuotaActionEditListing QuotaAction = "edit_listing"
)

var validQuotaActions = []QuotaAction{
	QuotaActionCreatePost,
	QuotaActionAddImage,
	QuotaActionAddVideo,
	QuotaActionEditListing,
}

// String implements fmt.Stringer.
func (a QuotaAction) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a QuotaAction) IsValid() bool {
	for _, candidate := range validQuotaActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseQuotaAction converts raw input into a QuotaAction.
func ParseQuotaAction(value string) (QuotaAction, error) {
	for _, candidate := range validQuotaActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quota action %q", value)
}
