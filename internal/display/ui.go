package display

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/sous/internal/domain"
)

// UI runs a Screen and lets other goroutines feed it messages.
type UI struct {
	program *tea.Program
	done    atomic.Bool
}

// NewUI wraps screen in a full-screen Bubble Tea program.
func NewUI(ctx context.Context, screen Screen, opts ...tea.ProgramOption) *UI {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	return &UI{program: tea.NewProgram(screen, opts...)}
}

// Run starts the event loop and blocks until the screen quits. It returns
// the final screen state.
func (u *UI) Run() (Screen, error) {
	final, err := u.program.Run()
	u.done.Store(true)
	if s, ok := final.(Screen); ok {
		return s, err
	}
	return Screen{}, err
}

// Send delivers msg to the screen. Dropped once the screen has exited.
func (u *UI) Send(msg tea.Msg) {
	if u.done.Load() {
		return
	}
	u.program.Send(msg)
}

// Quit asks the screen to exit.
func (u *UI) Quit() {
	u.program.Quit()
}

var _ domain.Notifier = (*Notifier)(nil)

// Notifier shows messages on a UI. It can be created before the UI exists
// and attached once the UI is built; messages sent while detached are
// dropped.
type Notifier struct {
	ui atomic.Pointer[UI]
}

// NewNotifier returns a detached notifier.
func NewNotifier() *Notifier { return &Notifier{} }

// Attach routes messages to ui.
func (n *Notifier) Attach(ui *UI) { n.ui.Store(ui) }

// Notify shows message as a normal notice.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	n.send(NoticeMsg{Text: message})
	return nil
}

// NotifyUrgent shows message as an urgent notice.
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) error {
	n.send(NoticeMsg{Text: message, Urgent: true})
	return nil
}

func (n *Notifier) send(msg NoticeMsg) {
	if ui := n.ui.Load(); ui != nil {
		ui.Send(msg)
	}
}
