// Package domain defines the core types and interfaces for the cooking
// session engine. All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is the payload handed over by whatever owns recipe data.
type Recipe struct {
	ID          string
	Name        string
	Description string
	Servings    int
	Ingredients []Ingredient
	Steps       []InstructionStep
	Tags        []string
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Servings    int
	Tags        []string
}

// Ingredient is a single ingredient line. Quantity is free text: "2",
// "0.5", "3/4", "1 1/2", "½" or "to taste".
type Ingredient struct {
	Name     string
	Quantity string
	Unit     string
	Notes    string
	Category string
}

// ScaledIngredient is an Ingredient whose Quantity has been rescaled for a
// target serving count. Never persisted.
type ScaledIngredient struct {
	Name     string
	Quantity string
	Unit     string
	Notes    string
	Category string
}

// InstructionStep is one step of a recipe. TimerSeconds of 0 means the
// step has no timer.
type InstructionStep struct {
	ID           string
	StepNumber   int
	Instruction  string
	TimerSeconds int
	Tips         []string
	Temperature  string
}

// HasTimer reports whether the step carries a countdown.
func (s InstructionStep) HasTimer() bool {
	return s.TimerSeconds > 0
}
