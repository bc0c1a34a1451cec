package config

import (
	"strings"
	"time"
)

// UIConfig contains the console's routes and notification behavior.
type UIConfig struct {
	// MainRoute is where a successful login lands.
	MainRoute string `env:"ROUTE_MAIN" envDefault:"/main"`

	// LoginRoute is where a logout lands.
	LoginRoute string `env:"ROUTE_LOGIN" envDefault:"/login"`

	// NotificationDismissAfter is how long a notification stays queued before it is dismissed.
	NotificationDismissAfter time.Duration `env:"NOTIFICATION_DISMISS_AFTER" envDefault:"6500ms"`
}

// Sanitize normalizes routes to a leading slash and clamps the dismiss delay.
func (u *UIConfig) Sanitize() {
	u.MainRoute = normalizeRoute(u.MainRoute, "/main")
	u.LoginRoute = normalizeRoute(u.LoginRoute, "/login")
	if u.NotificationDismissAfter < 0 {
		u.NotificationDismissAfter = 0
	}
}

func normalizeRoute(route, def string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return def
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}
