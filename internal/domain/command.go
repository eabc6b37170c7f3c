package domain

// CommandType classifies what the cook wants to do while cooking.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandNext
	CommandPrevious
	CommandToggleComplete
	CommandStartTimer
	CommandPauseTimer
	CommandResetTimer
	CommandCookingOn
	CommandCookingOff
	CommandServings // payload: target serving count
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandToggleComplete:
		return "toggle_complete"
	case CommandStartTimer:
		return "start_timer"
	case CommandPauseTimer:
		return "pause_timer"
	case CommandResetTimer:
		return "reset_timer"
	case CommandCookingOn:
		return "cooking_on"
	case CommandCookingOff:
		return "cooking_off"
	case CommandServings:
		return "servings"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed user action.
type Command struct {
	Type    CommandType
	Payload string
}
