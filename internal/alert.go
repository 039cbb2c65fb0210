package internal

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const (
	// appIconPath is the file path to the icon png for this application.
	appIconPath = "./assets/icon.png"
)

// Alerter raises critical operational alerts: conditions like an exhausted
// monthly budget or rejected credentials that a user should notice even
// when not watching the log. Each alert is logged at error level and
// additionally surfaced as a desktop notification.
type Alerter struct {
	logger *slog.Logger
}

func NewAlerter(appName string, logger *slog.Logger) *Alerter {
	beeep.AppName = appName //nolint:reassign // This is the only way to set app name in beeep.
	return &Alerter{logger: logger}
}

// Critical logs the alert and posts a desktop notification. Notification
// delivery is best-effort; a headless host only gets the log line.
func (alerter *Alerter) Critical(subject, body string) {
	alerter.logger.Error("[ALERT] "+subject, slog.String("detail", body))

	if notifyErr := beeep.Notify(subject, body, appIconPath); notifyErr != nil {
		alerter.logger.Warn("alert: desktop notification failed", slog.Any("error", notifyErr))
	}
}
