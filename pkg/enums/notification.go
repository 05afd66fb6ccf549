package enums

import "fmt"

// NotificationType classifies rows in the admin notification inbox.
type NotificationType string

const (
	NotificationTypeNewOrder      NotificationType = "new_order"
	NotificationTypeOrderUpdate   NotificationType = "order_update"
	NotificationTypePaymentUpdate NotificationType = "payment_update"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeNewOrder,
	NotificationTypeOrderUpdate,
	NotificationTypePaymentUpdate,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
