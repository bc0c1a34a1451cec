//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "github.com/google/uuid"

// NotificationColor is the display tone of a notification.
type NotificationColor string

const (
	ColorNone    NotificationColor = ""
	ColorSuccess NotificationColor = "success"
	ColorInfo    NotificationColor = "info"
	ColorWarning NotificationColor = "warning"
	ColorError   NotificationColor = "error"
)

// Valid returns true if the color is one of the known tones.
func (c NotificationColor) Valid() bool {
	switch c {
	case ColorNone, ColorSuccess, ColorInfo, ColorWarning, ColorError:
		return true
	default:
		return false
	}
}

// Notification is a transient user-facing message queued for display and dismissal.
// ID identifies one queued entry; two notifications with the same content are distinct.
type Notification struct {
	ID           uuid.UUID         `json:"id"`
	Content      string            `json:"content"`
	Color        NotificationColor `json:"color,omitempty"`
	ShowProgress bool              `json:"show_progress,omitempty"`
}

// NewNotification builds a notification with a fresh ID.
func NewNotification(content string, color NotificationColor) Notification {
	return Notification{ID: uuid.New(), Content: content, Color: color}
}

// NewProgressNotification builds a notification that renders a progress indicator.
func NewProgressNotification(content string) Notification {
	return Notification{ID: uuid.New(), Content: content, ShowProgress: true}
}
