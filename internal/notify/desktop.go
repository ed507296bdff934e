package notify

import (
	"fmt"
	log "log/slog"

	"github.com/gen2brain/beeep"
)

// Desktop pops a desktop notification through the platform notifier.
func Desktop(title, body string) error {
	return beeep.Notify(title, body, "")
}

type Alarm struct {
	Title   string
	Sound   string
	Desktop bool

	// notify and beep default to Desktop and Beep.
	notify func(title, body string) error
	beep   func(path string) error
}

// Ring notifies and beeps. A failed notification is only logged.
func (a Alarm) Ring(message string) error {
	notify, play := a.notify, a.beep
	if notify == nil {
		notify = Desktop
	}
	if play == nil {
		play = Beep
	}

	if a.Desktop {
		if err := notify(a.Title, message); err != nil {
			log.Debug("Desktop notification failed", "err", err)
		}
	}
	if err := play(a.Sound); err != nil {
		return fmt.Errorf("beep: %w", err)
	}
	return nil
}
