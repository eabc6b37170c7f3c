package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory,
// file-based, or backed by the web application's database.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
}

// Notifier delivers messages to the user. Implementations can write to
// the terminal, play a sound, or both.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// StayAwake is the host capability that keeps the display from sleeping.
type StayAwake interface {
	Acquire(ctx context.Context) (WakeHandle, error)
}

// WakeHandle is a held stay-awake request. Release must be idempotent.
type WakeHandle interface {
	Release() error
}

// CommandParser turns typed or spoken input into a cooking command.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
