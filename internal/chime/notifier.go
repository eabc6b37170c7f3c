package chime

import (
	"context"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Notifier)(nil)

// Notifier wraps a text notifier and sounds the chime for urgent
// messages. The chime plays in the background so delivery never waits on
// the audio device.
type Notifier struct {
	text  domain.Notifier
	sound Sounder
	log   *logger.Logger
}

// NewNotifier creates a notifier that prints and chimes.
func NewNotifier(text domain.Notifier, sound Sounder, log *logger.Logger) *Notifier {
	return &Notifier{text: text, sound: sound, log: log}
}

// Notify forwards the message unchanged.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	return n.text.Notify(ctx, message)
}

// NotifyUrgent forwards the message and chimes.
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	go func() {
		if err := n.sound.Chime(); err != nil {
			n.log.Warn("chime: %v", err)
		}
	}()
	return nil
}
