package display

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/domain"
)

func shakshuka() *domain.Recipe {
	return &domain.Recipe{
		ID:          "shakshuka",
		Name:        "Shakshuka",
		Description: "Eggs poached in spiced tomato sauce.",
		Servings:    2,
		Ingredients: []domain.Ingredient{
			{Name: "eggs", Quantity: "4", Notes: "large", Category: "dairy"},
			{Name: "crushed tomatoes", Quantity: "1 3/4", Unit: "cups", Category: "pantry"},
			{Name: "cumin", Quantity: "½", Unit: "teaspoon", Category: "pantry"},
			{Name: "olive oil", Quantity: "2", Unit: "tablespoons"},
			{Name: "parsley", Quantity: "to taste", Category: "produce"},
		},
		Steps: []domain.InstructionStep{
			{ID: "s-1", StepNumber: 1, Instruction: "Soften the onion and pepper.", TimerSeconds: 300},
			{ID: "s-2", StepNumber: 2, Instruction: "Crack in the eggs and cover."},
		},
	}
}

func TestRecipeMarkdown(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "shakshuka_for_3", []byte(RecipeMarkdown(shakshuka(), 3)))
}

func TestRecipeMarkdownUnscaled(t *testing.T) {
	md := RecipeMarkdown(shakshuka(), 2)
	assert.Contains(t, md, "*Serves 2*")
	assert.NotContains(t, md, "scaled from")
	assert.Contains(t, md, "- 1/2 teaspoon cumin")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(RecipeMarkdown(shakshuka(), 4), 60, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Shakshuka")
	assert.Contains(t, out, "crushed tomatoes")
}

func TestRenderBanner(t *testing.T) {
	narrow := RenderBanner(10)
	wide := RenderBanner(80)
	assert.Greater(t, len(wide), len(narrow))
	assert.Contains(t, narrow, "|___/")
}
