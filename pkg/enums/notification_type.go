package enums

import "fmt"

// NotificationType classifies in-app notifications.
type NotificationType string

const (
	NotificationTypeListingApproved     NotificationType = "listing_approved"
	NotificationTypeListingRejected     NotificationType = "listing_rejected"
	NotificationTypeSubscriptionExpiry  NotificationType = "subscription_expiry"
	NotificationTypeSubscriptionRenewed NotificationType = "subscription_renewed"
	NotificationTypeReviewReceived      NotificationType = "review_received"
	NotificationTypeSystem              NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeListingApproved,
	NotificationTypeListingRejected,
	NotificationTypeSubscriptionExpiry,
	NotificationTypeSubscriptionRenewed,
	NotificationTypeReviewReceived,
	NotificationTypeSystem,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is known.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
