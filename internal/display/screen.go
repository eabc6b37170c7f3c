package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
	"github.com/hammamikhairi/sous/internal/scale"
	"github.com/hammamikhairi/sous/internal/timer"
)

// Cook is the part of the session controller the screen drives.
type Cook interface {
	View() domain.SessionView
	CurrentStepID() string
	EnableCookingMode(ctx context.Context)
	DisableCookingMode()
	GoToNextStep()
	GoToPreviousStep()
	ToggleStepCompletion(stepID string)
	StartTimer(stepID string)
	PauseTimer(stepID string)
	ResetTimer(stepID string)
	ToggleTimer(stepID string)
}

// refreshInterval is how often the screen re-reads the session.
const refreshInterval = 500 * time.Millisecond

// Messages.
type tickMsg time.Time

// CommandMsg feeds a parsed command (typically spoken) to the screen.
type CommandMsg struct{ Command domain.Command }

// NoticeMsg shows a notification under the step.
type NoticeMsg struct {
	Text   string
	Urgent bool
}

// RecipeMsg swaps in a reloaded recipe. The controller must already hold
// its steps.
type RecipeMsg struct{ Recipe *domain.Recipe }

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Done        key.Binding
	Timer       key.Binding
	Reset       key.Binding
	Cooking     key.Binding
	Ingredients key.Binding
	More        key.Binding
	Fewer       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Done, k.Timer, k.Cooking, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Done},
		{k.Timer, k.Reset, k.Cooking},
		{k.Ingredients, k.More, k.Fewer},
		{k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Next:        key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next step")),
	Prev:        key.NewBinding(key.WithKeys("left", "h", "b"), key.WithHelp("←/b", "previous step")),
	Done:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "mark done")),
	Timer:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "start/pause timer")),
	Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset timer")),
	Cooking:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cooking mode")),
	Ingredients: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "ingredients")),
	More:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more servings")),
	Fewer:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer servings")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Screen is the Bubble Tea model of a cooking session.
type Screen struct {
	ctx      context.Context
	cook     Cook
	recipe   *domain.Recipe
	servings int
	log      *logger.Logger

	keys            keyMap
	help            help.Model
	progress        progress.Model
	width           int
	showIngredients bool
	selected        int // overview cursor while cooking mode is off
	notice          NoticeMsg
	view            domain.SessionView
}

// NewScreen creates the screen for recipe at the given serving count.
// ctx is handed to EnableCookingMode.
func NewScreen(ctx context.Context, cook Cook, recipe *domain.Recipe, servings int, log *logger.Logger) Screen {
	if servings < 1 {
		servings = recipe.Servings
	}
	return Screen{
		ctx:      ctx,
		cook:     cook,
		recipe:   recipe,
		servings: servings,
		log:      log,
		keys:     defaultKeys,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		view:     cook.View(),
	}
}

// Servings returns the serving count currently shown.
func (m Screen) Servings() int { return m.servings }

func (m Screen) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case tickMsg:
		m.view = m.cook.View()
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CommandMsg:
		return m.apply(msg.Command)

	case NoticeMsg:
		m.notice = msg
		return m, nil

	case RecipeMsg:
		m.recipe = msg.Recipe
		m.notice = NoticeMsg{Text: "Recipe reloaded."}
		m.view = m.cook.View()
		return m, nil
	}
	return m, nil
}

func (m Screen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.apply(domain.Command{Type: domain.CommandQuit})
	case key.Matches(msg, m.keys.Next):
		return m.apply(domain.Command{Type: domain.CommandNext})
	case key.Matches(msg, m.keys.Prev):
		return m.apply(domain.Command{Type: domain.CommandPrevious})
	case key.Matches(msg, m.keys.Done):
		return m.apply(domain.Command{Type: domain.CommandToggleComplete})
	case key.Matches(msg, m.keys.Reset):
		return m.apply(domain.Command{Type: domain.CommandResetTimer})
	case key.Matches(msg, m.keys.Help):
		return m.apply(domain.Command{Type: domain.CommandHelp})
	case key.Matches(msg, m.keys.More):
		return m.apply(servingsCommand(m.servings + 1))
	case key.Matches(msg, m.keys.Fewer):
		return m.apply(servingsCommand(m.servings - 1))
	case key.Matches(msg, m.keys.Timer):
		m.cook.ToggleTimer(m.cook.CurrentStepID())
	case key.Matches(msg, m.keys.Cooking):
		if m.view.Enabled() {
			return m.apply(domain.Command{Type: domain.CommandCookingOff})
		}
		return m.apply(domain.Command{Type: domain.CommandCookingOn})
	case key.Matches(msg, m.keys.Ingredients):
		m.showIngredients = !m.showIngredients
	default:
		return m, nil
	}
	m.view = m.cook.View()
	return m, nil
}

func servingsCommand(n int) domain.Command {
	return domain.Command{Type: domain.CommandServings, Payload: strconv.Itoa(n)}
}

// apply runs one command against the controller.
func (m Screen) apply(cmd domain.Command) (tea.Model, tea.Cmd) {
	m.log.Debug("command %s %q", cmd.Type, cmd.Payload)
	v := m.cook.View()
	id := m.cook.CurrentStepID()

	switch cmd.Type {
	case domain.CommandNext:
		if v.Enabled() {
			m.cook.GoToNextStep()
			break
		}
		m.selected = clampIndex(m.selected+1, len(v.Steps))
	case domain.CommandPrevious:
		if v.Enabled() {
			m.cook.GoToPreviousStep()
			break
		}
		m.selected = clampIndex(m.selected-1, len(v.Steps))
	case domain.CommandToggleComplete:
		if id == "" {
			id = selectedStepID(v, m.selected)
		}
		if id == "" {
			m.notice = NoticeMsg{Text: "No steps to mark."}
			break
		}
		m.cook.ToggleStepCompletion(id)
	case domain.CommandStartTimer:
		m.cook.StartTimer(id)
	case domain.CommandPauseTimer:
		m.cook.PauseTimer(id)
	case domain.CommandResetTimer:
		m.cook.ResetTimer(id)
	case domain.CommandCookingOn:
		m.cook.EnableCookingMode(m.ctx)
	case domain.CommandCookingOff:
		m.cook.DisableCookingMode()
	case domain.CommandServings:
		n, err := strconv.Atoi(cmd.Payload)
		if err != nil || n < 1 {
			break
		}
		m.servings = n
		m.notice = NoticeMsg{Text: fmt.Sprintf("Scaled to %d servings.", n)}
	case domain.CommandHelp:
		m.help.ShowAll = !m.help.ShowAll
	case domain.CommandQuit:
		return m, tea.Quit
	default:
		m.notice = NoticeMsg{Text: fmt.Sprintf("Didn't catch %q. Press ? for help.", cmd.Payload)}
	}

	m.view = m.cook.View()
	return m, nil
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}

func selectedStepID(v domain.SessionView, selected int) string {
	if len(v.Steps) == 0 {
		return ""
	}
	return v.Steps[clampIndex(selected, len(v.Steps))].Step.ID
}

func (m Screen) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	v := m.view

	var b strings.Builder
	b.WriteString(m.header(v, w))
	b.WriteString("\n\n  ")
	b.WriteString(m.progress.ViewAs(v.CompletionRatio()))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %d/%d done", v.CompletedCount, len(v.Steps))))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(max(w-4, 20)).MarginLeft(2)
	switch {
	case m.showIngredients:
		b.WriteString(body.Render(m.ingredients()))
	case v.Enabled():
		b.WriteString(body.Render(m.currentStep(v)))
	default:
		b.WriteString(body.Render(m.overview(v)))
	}
	b.WriteString("\n\n")

	if m.notice.Text != "" {
		style := noticeStyle
		if m.notice.Urgent {
			style = urgentStyle
		}
		b.WriteString("  " + style.Render(m.notice.Text) + "\n\n")
	}

	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m Screen) header(v domain.SessionView, w int) string {
	badge := idleBadge.Render("idle")
	if v.Enabled() {
		badge = activeBadge.Render("cooking")
	}
	awake := ""
	if v.WakeLockHeld {
		awake = "  ☀ screen on"
	}
	info := fmt.Sprintf(" %s  ·  serves %d%s ", titleStyle.Render(m.recipe.Name), m.servings, awake)
	return barStyle.Width(w).Render(info + badge)
}

func (m Screen) currentStep(v domain.SessionView) string {
	sv, ok := v.CurrentStep()
	if !ok {
		return ""
	}

	var b strings.Builder
	check := "  "
	if sv.Completed {
		check = "✓ "
	}
	b.WriteString(stepStyle.Render(fmt.Sprintf("%sStep %d of %d", check, v.CurrentStepIndex+1, len(v.Steps))))
	if sv.Step.Temperature != "" {
		b.WriteString(secondaryStyle.Render("  🌡 " + sv.Step.Temperature))
	}
	b.WriteString("\n\n")
	b.WriteString(primaryStyle.Render(sv.Step.Instruction))
	b.WriteString("\n")

	if t := timerText(sv.Timer); t != "" {
		b.WriteString("\n" + t + "\n")
	}
	for _, tip := range sv.Step.Tips {
		b.WriteString("\n" + secondaryStyle.Render("tip: "+tip))
	}
	return b.String()
}

func (m Screen) overview(v domain.SessionView) string {
	var b strings.Builder
	selected := clampIndex(m.selected, len(v.Steps))
	for i, sv := range v.Steps {
		cursor := " "
		if i == selected {
			cursor = "›"
		}
		mark := "○"
		if sv.Completed {
			mark = "✓"
		}
		line := fmt.Sprintf("%s %s %d. %s", cursor, mark, sv.Step.StepNumber, truncate(sv.Step.Instruction, 60))
		if sv.Timer != nil {
			line += "  " + timer.FormatClock(sv.Timer.RemainingSeconds)
		}
		b.WriteString(primaryStyle.Render(line) + "\n")
	}
	b.WriteString("\n" + secondaryStyle.Render("Press c to start cooking, space to mark the selected step."))
	return b.String()
}

func (m Screen) ingredients() string {
	scaled := scale.Ingredients(m.recipe.Ingredients, m.servings, m.recipe.Servings)
	lines := make([]string, len(scaled))
	for i, ing := range scaled {
		lines[i] = primaryStyle.Render("• " + scale.Line(ing))
	}
	return stepStyle.Render(fmt.Sprintf("Ingredients for %d", m.servings)) + "\n\n" + strings.Join(lines, "\n")
}

func timerText(ts *domain.TimerState) string {
	if ts == nil {
		return ""
	}
	clock := timer.FormatClock(ts.RemainingSeconds)
	switch ts.Status() {
	case "done":
		return timerDoneStyle.Render("⏲ Time's up!")
	case "running":
		return timerRunStyle.Render("⏲ " + clock)
	case "paused":
		return timerReadyStyle.Render("⏲ " + clock + " paused (t to resume)")
	default:
		return timerReadyStyle.Render("⏲ " + clock + " (t to start)")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
