package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/sous/internal/display"
	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/scale"
)

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.recipes.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "SERVES")
			for _, r := range list {
				t.Row(r.ID, r.Name, strconv.Itoa(r.Servings))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	var servings int
	var plain bool
	var style string

	cmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe scaled to a serving count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.getRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			md := display.RecipeMarkdown(r, opts.servingsFor(r, servings))
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			out, err := display.RenderMarkdown(md, display.TermWidth(), style)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "serving count (recipe default when 0)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	cmd.Flags().StringVar(&style, "style", "auto", "markdown style (auto, dark, light, notty)")
	return cmd
}

func newShopCommand(opts *RootOptions) *cobra.Command {
	var servings int

	cmd := &cobra.Command{
		Use:   "shop <recipe-id>",
		Short: "Print a shopping list scaled to a serving count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.getRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n := opts.servingsFor(r, servings)
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %d servings\n\n", r.Name, n)
			fmt.Fprintln(cmd.OutOrStdout(), scale.ShoppingList(scale.Ingredients(r.Ingredients, n, r.Servings)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "serving count (recipe default when 0)")
	return cmd
}

func (o *RootOptions) getRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := o.recipes.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("recipe %q not found (try `sous list`)", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading recipe %q: %w", id, err)
	}
	return r, nil
}

// servingsFor picks the serving count: the flag, then default_servings,
// then the recipe's own count.
func (o *RootOptions) servingsFor(r *domain.Recipe, flag int) int {
	switch {
	case flag > 0:
		return flag
	case o.cfg.DefaultServings > 0:
		return o.cfg.DefaultServings
	default:
		return max(r.Servings, 1)
	}
}
