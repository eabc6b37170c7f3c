package wakelock

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

var _ domain.StayAwake = NoOp{}

// NoOp grants every request without touching the host.
type NoOp struct{}

// Acquire returns a handle that does nothing.
func (NoOp) Acquire(context.Context) (domain.WakeHandle, error) { return noopHandle{}, nil }

type noopHandle struct{}

func (noopHandle) Release() error { return nil }

// New returns the stay-awake backend named by the wake_lock setting:
// "auto" picks the platform inhibitor, "none" disables it.
func New(backend string, log *logger.Logger) (domain.StayAwake, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "auto":
		return NewInhibitor(log.Named("wakelock")), nil
	case "none", "off":
		return NoOp{}, nil
	default:
		return nil, fmt.Errorf("unknown wake lock backend %q (want auto or none)", backend)
	}
}
