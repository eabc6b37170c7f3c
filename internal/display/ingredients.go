package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/scale"
	"github.com/hammamikhairi/sous/internal/timer"
)

// RecipeMarkdown renders a recipe scaled to servings as markdown:
// ingredients grouped by category, then the numbered steps.
func RecipeMarkdown(r *domain.Recipe, servings int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}
	fmt.Fprintf(&b, "*Serves %d", max(servings, 1))
	if servings != r.Servings {
		fmt.Fprintf(&b, " (scaled from %d)", r.Servings)
	}
	b.WriteString("*\n\n")

	b.WriteString(IngredientsMarkdown(scale.Ingredients(r.Ingredients, servings, r.Servings)))

	if len(r.Steps) > 0 {
		b.WriteString("\n## Steps\n\n")
		for _, s := range r.Steps {
			fmt.Fprintf(&b, "%d. %s", s.StepNumber, s.Instruction)
			if s.HasTimer() {
				fmt.Fprintf(&b, " **⏲ %s**", timer.FormatClock(s.TimerSeconds))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// IngredientsMarkdown renders ingredients as a markdown list, grouped
// under category headings in first-seen order. Uncategorized ingredients
// come first without a heading.
func IngredientsMarkdown(ings []domain.ScaledIngredient) string {
	var order []string
	groups := make(map[string][]domain.ScaledIngredient)
	for _, ing := range ings {
		c := strings.TrimSpace(ing.Category)
		if _, ok := groups[c]; !ok && c != "" {
			order = append(order, c)
		}
		groups[c] = append(groups[c], ing)
	}

	title := cases.Title(language.English)

	var b strings.Builder
	b.WriteString("## Ingredients\n\n")
	for _, ing := range groups[""] {
		fmt.Fprintf(&b, "- %s\n", scale.Line(ing))
	}
	for _, c := range order {
		fmt.Fprintf(&b, "\n### %s\n\n", title.String(c))
		for _, ing := range groups[c] {
			fmt.Fprintf(&b, "- %s\n", scale.Line(ing))
		}
	}
	return b.String()
}

// RenderMarkdown styles markdown for the terminal. style is a glamour
// standard style name ("dark", "light", "notty") or "auto".
func RenderMarkdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
