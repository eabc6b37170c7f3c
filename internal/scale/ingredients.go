package scale

import (
	"strings"

	"github.com/hammamikhairi/sous/internal/domain"
)

// Ingredients rescales every ingredient from original to target servings.
// The input slice is never modified.
func Ingredients(ings []domain.Ingredient, target, original int) []domain.ScaledIngredient {
	ratio := Ratio(target, original)
	out := make([]domain.ScaledIngredient, len(ings))
	for i, ing := range ings {
		out[i] = domain.ScaledIngredient{
			Name:     ing.Name,
			Quantity: Quantity(ing.Quantity, ratio),
			Unit:     ing.Unit,
			Notes:    ing.Notes,
			Category: ing.Category,
		}
	}
	return out
}

// Line renders one ingredient as "<quantity> <unit> <name> (<notes>)".
// Empty fields are skipped, so "to taste" salt with no unit reads
// "to taste salt".
func Line(ing domain.ScaledIngredient) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{ing.Quantity, ing.Unit, ing.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, " ")
	if notes := strings.TrimSpace(ing.Notes); notes != "" {
		line += " (" + notes + ")"
	}
	return line
}

// ShoppingList renders the plain-text shopping list: one "• " bullet per
// ingredient, joined by newlines.
func ShoppingList(ings []domain.ScaledIngredient) string {
	lines := make([]string, len(ings))
	for i, ing := range ings {
		lines[i] = "• " + Line(ing)
	}
	return strings.Join(lines, "\n")
}
