// Package notify is the boundary between alert decisions and the host
// platform's notification facilities. The engine produces a (title, body,
// dedup-tag) triple; everything past that point is best-effort and must
// never fail the pipeline.
package notify

import (
	"log"
	"os"

	"github.com/hubtray/hubtray/internal/engine"
)

// Notifier delivers one alert to the user.
type Notifier interface {
	Notify(alert engine.Alert) error
}

// Dispatcher routes alerts to a Notifier, collapsing repeated alerts for
// the same state by dedup tag and swallowing dispatch failures. A missed
// desktop alert is not a correctness failure for the rest of the
// pipeline.
type Dispatcher struct {
	notifier Notifier
	lastTag  string
}

// NewDispatcher creates a Dispatcher over the given notifier.
func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Dispatch delivers the alert. nil alerts and repeats of the last
// delivered tag are skipped. Errors are logged and swallowed.
func (d *Dispatcher) Dispatch(alert *engine.Alert) {
	if alert == nil {
		return
	}
	if alert.DedupTag == d.lastTag {
		return
	}
	d.lastTag = alert.DedupTag

	if err := d.notifier.Notify(*alert); err != nil {
		log.Printf("notify: dispatch failed: %v", err)
	}
}

// TerminalNotifier announces alerts from within a terminal session: the
// sound channel rings the terminal bell, and the desktop channel is left
// to the presentation layer's toast (which renders the same alert).
type TerminalNotifier struct{}

// Notify rings the terminal bell when the alert's sound channel is on.
func (TerminalNotifier) Notify(alert engine.Alert) error {
	if !alert.PlaySound {
		return nil
	}
	if _, err := os.Stdout.WriteString("\a"); err != nil {
		return err
	}
	return nil
}
