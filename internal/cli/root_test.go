package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/config"
)

// execute runs the CLI with an isolated configuration.
func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{sources: config.Sources{
		Lookup: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
	}}
	cmd := newRootCommand(opts)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"list", "show", "shop", "cook", "timer"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServingsFlag(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"show", "shop", "cook"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		f := sub.Flags().Lookup("servings")
		require.NotNil(t, f, name)
		assert.Equal(t, "s", f.Shorthand)
		assert.Equal(t, "0", f.DefValue)
	}
}

func TestListBuiltIns(t *testing.T) {
	out, err := execute(t, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "buttermilk-pancakes")
	assert.Contains(t, out, "Chicken Alfredo")
	assert.Contains(t, out, "SERVES")
}

func TestShopScalesIngredients(t *testing.T) {
	out, err := execute(t, nil, "shop", "buttermilk-pancakes", "-s", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Buttermilk Pancakes, 8 servings")
	assert.Contains(t, out, "• 3 cups flour")
	assert.Contains(t, out, "• 2 1/2 cups buttermilk (room temperature)")
	assert.Contains(t, out, "• 4 eggs (large)")
	assert.Contains(t, out, "• to taste salt")
}

func TestShopUsesDefaultServings(t *testing.T) {
	out, err := execute(t, map[string]string{"SOUS_DEFAULT_SERVINGS": "2"}, "shop", "buttermilk-pancakes")
	require.NoError(t, err)
	assert.Contains(t, out, "2 servings")
	assert.Contains(t, out, "• 3/4 cup flour")
}

func TestShowPlainFromRecipesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toast.yaml"), []byte(`name: Toast
servings: 1
ingredients:
  - name: bread
    quantity: "2"
    unit: slices
steps:
  - instruction: Toast the bread.
    timer: 2m
`), 0o644))

	out, err := execute(t, nil, "show", "toast", "-s", "3", "--plain", "--recipes-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "# Toast")
	assert.Contains(t, out, "*Serves 3 (scaled from 1)*")
	assert.Contains(t, out, "- 6 slices bread")
	assert.Contains(t, out, "1. Toast the bread. **⏲ 2:00**")
}

func TestUnknownRecipe(t *testing.T) {
	for _, name := range []string{"show", "shop", "cook"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, nil, name, "no-such-recipe")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, map[string]string{"SOUS_WAKE_LOCK": "always"}, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wake_lock")
}

func TestKitchenTimer(t *testing.T) {
	env := map[string]string{"SOUS_TICK_INTERVAL": "2ms", "SOUS_CHIME": "false"}
	out, err := execute(t, env, "timer", "3", "--label", "Eggs")
	require.NoError(t, err)
	assert.Contains(t, out, "[Timer] Eggs is up.")
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"90", 90, false},
		{"1m30s", 90, false},
		{"2.4s", 2, false},
		{"0", 0, true},
		{"300ms", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSeconds(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
