package model

import "time"

// NotificationType selects how a notification is presented.
type NotificationType string

// Notification types.
const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// NotificationAction is a button offered alongside a notification.
type NotificationAction struct {
	OnClick func()
	Label   string
	Variant string
}

// Notification is a request to show a transient message to the user.
type Notification struct {
	Title    string
	Message  string
	Type     NotificationType
	Actions  []NotificationAction
	Duration time.Duration
}
