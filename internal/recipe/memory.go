// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all recipes, sorted by name.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, summarize(r))
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Put adds or replaces a recipe.
func (s *MemorySource) Put(r *domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
	s.log.Debug("stored recipe %s", r.ID)
}

// Search returns recipes whose name, description or tags contain query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			out = append(out, summarize(r))
		}
	}
	sortSummaries(out)
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func summarize(r *domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Servings:    r.Servings,
		Tags:        r.Tags,
	}
}

func sortSummaries(out []domain.RecipeSummary) {
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	for _, r := range []*domain.Recipe{pancakes(), chickenAlfredo(), vegetableStirFry()} {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(s.recipes))
}

func pancakes() *domain.Recipe {
	return &domain.Recipe{
		ID:          "buttermilk-pancakes",
		Name:        "Buttermilk Pancakes",
		Description: "Tall, fluffy weekend pancakes. Lumpy batter is the good kind.",
		Servings:    4,
		Tags:        []string{"breakfast", "vegetarian", "quick"},
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: "1 1/2", Unit: "cups", Category: "pantry"},
			{Name: "sugar", Quantity: "2", Unit: "tablespoons", Category: "pantry"},
			{Name: "baking powder", Quantity: "1/2", Unit: "teaspoon", Category: "pantry"},
			{Name: "baking soda", Quantity: "1/4", Unit: "teaspoon", Category: "pantry"},
			{Name: "buttermilk", Quantity: "1 1/4", Unit: "cups", Notes: "room temperature", Category: "dairy"},
			{Name: "eggs", Quantity: "2", Notes: "large", Category: "dairy"},
			{Name: "butter", Quantity: "3", Unit: "tablespoons", Notes: "melted", Category: "dairy"},
			{Name: "salt", Quantity: "to taste", Category: "pantry"},
		},
		Steps: []domain.InstructionStep{
			{ID: "bp-1", StepNumber: 1, Instruction: "Whisk the flour, sugar, baking powder, baking soda and a pinch of salt in a large bowl."},
			{ID: "bp-2", StepNumber: 2, Instruction: "In a second bowl whisk the buttermilk, eggs and melted butter until smooth."},
			{
				ID: "bp-3", StepNumber: 3,
				Instruction:  "Pour the wet into the dry and fold until just combined. Stop while there are still lumps, then let the batter rest.",
				TimerSeconds: 300,
				Tips:         []string{"Overmixing makes them tough."},
			},
			{
				ID: "bp-4", StepNumber: 4,
				Instruction:  "Heat a lightly buttered pan over medium heat. Ladle in the batter and cook until bubbles pop on the surface.",
				TimerSeconds: 120,
				Temperature:  "medium heat",
			},
			{
				ID: "bp-5", StepNumber: 5,
				Instruction:  "Flip once and cook the second side until golden.",
				TimerSeconds: 60,
			},
			{ID: "bp-6", StepNumber: 6, Instruction: "Keep finished pancakes warm in a low oven while you cook the rest. Serve hot."},
		},
	}
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		Name:        "Chicken Alfredo",
		Description: "Spaghetti in a creamy cheese sauce with pan-seared chicken.",
		Servings:    2,
		Tags:        []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients: []domain.Ingredient{
			{Name: "spaghetti", Quantity: "250", Unit: "grams", Category: "pantry"},
			{Name: "chicken breast", Quantity: "2", Notes: "medium", Category: "meat"},
			{Name: "heavy cream", Quantity: "1", Unit: "cup", Category: "dairy"},
			{Name: "parmesan", Quantity: "3/4", Unit: "cup", Notes: "grated", Category: "dairy"},
			{Name: "butter", Quantity: "3", Unit: "tablespoons", Category: "dairy"},
			{Name: "garlic", Quantity: "4", Unit: "cloves", Notes: "minced", Category: "produce"},
			{Name: "olive oil", Quantity: "1", Unit: "tablespoon", Category: "pantry"},
			{Name: "salt", Quantity: "to taste", Category: "pantry"},
			{Name: "black pepper", Quantity: "to taste", Category: "pantry"},
		},
		Steps: []domain.InstructionStep{
			{
				ID: "ca-1", StepNumber: 1,
				Instruction:  "Bring a large pot of well salted water to a rolling boil.",
				TimerSeconds: 480,
			},
			{ID: "ca-2", StepNumber: 2, Instruction: "Season the chicken on both sides with salt and pepper. Pound the thick end so the breasts are even."},
			{
				ID: "ca-3", StepNumber: 3,
				Instruction:  "Sear the chicken in olive oil over medium-high heat, about 6 minutes a side, then let it rest.",
				TimerSeconds: 720,
				Temperature:  "165°F / 74°C internal",
			},
			{
				ID: "ca-4", StepNumber: 4,
				Instruction:  "Cook the spaghetti until al dente. Save a cup of pasta water before draining.",
				TimerSeconds: 600,
			},
			{ID: "ca-5", StepNumber: 5, Instruction: "Melt the butter in the chicken pan and cook the garlic until fragrant, about a minute.", Tips: []string{"Burnt garlic turns bitter. Pull the pan if it browns fast."}},
			{
				ID: "ca-6", StepNumber: 6,
				Instruction:  "Add the cream and let it simmer gently until it coats a spoon.",
				TimerSeconds: 180,
			},
			{ID: "ca-7", StepNumber: 7, Instruction: "Off the heat, stir in the parmesan a handful at a time. Loosen with pasta water if needed."},
			{ID: "ca-8", StepNumber: 8, Instruction: "Toss the pasta in the sauce, slice the chicken over the top and serve right away."},
		},
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:          "vegetable-stir-fry",
		Name:        "Vegetable Stir Fry",
		Description: "Crisp vegetables in a hot pan with a quick soy and ginger sauce.",
		Servings:    2,
		Tags:        []string{"asian", "vegetables", "quick", "vegan"},
		Ingredients: []domain.Ingredient{
			{Name: "bell pepper", Quantity: "1", Notes: "large", Category: "produce"},
			{Name: "broccoli florets", Quantity: "2", Unit: "cups", Category: "produce"},
			{Name: "carrot", Quantity: "1", Notes: "julienned", Category: "produce"},
			{Name: "snap peas", Quantity: "1", Unit: "cup", Category: "produce"},
			{Name: "garlic", Quantity: "3", Unit: "cloves", Category: "produce"},
			{Name: "fresh ginger", Quantity: "1", Unit: "tablespoon", Notes: "grated", Category: "produce"},
			{Name: "soy sauce", Quantity: "2", Unit: "tablespoons", Category: "pantry"},
			{Name: "sesame oil", Quantity: "1", Unit: "teaspoon", Category: "pantry"},
			{Name: "cornstarch", Quantity: "½", Unit: "teaspoon", Category: "pantry"},
			{Name: "vegetable oil", Quantity: "2", Unit: "tablespoons", Category: "pantry"},
		},
		Steps: []domain.InstructionStep{
			{ID: "vsf-1", StepNumber: 1, Instruction: "Cut every vegetable before the pan goes on. Mince the garlic and grate the ginger."},
			{ID: "vsf-2", StepNumber: 2, Instruction: "Stir the soy sauce, sesame oil and cornstarch with 2 tablespoons of water."},
			{
				ID: "vsf-3", StepNumber: 3,
				Instruction:  "Heat the wok on high until it just smokes, then add the vegetable oil.",
				TimerSeconds: 90,
				Temperature:  "high heat",
			},
			{
				ID: "vsf-4", StepNumber: 4,
				Instruction:  "Fry the broccoli and carrot first, then the pepper and snap peas. Let them char a little between stirs.",
				TimerSeconds: 240,
			},
			{
				ID: "vsf-5", StepNumber: 5,
				Instruction:  "Push everything aside and fry the garlic and ginger in the middle until fragrant.",
				TimerSeconds: 30,
			},
			{ID: "vsf-6", StepNumber: 6, Instruction: "Pour in the sauce, toss until glossy and serve at once."},
		},
	}
}
