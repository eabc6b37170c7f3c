package recipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*DirSource)(nil)

// DirSource reads one recipe per YAML file from a directory. Files are
// read on every call, so edits show up without a restart.
type DirSource struct {
	dir string
	log *logger.Logger
}

// NewDirSource creates a source over dir.
func NewDirSource(dir string, log *logger.Logger) *DirSource {
	return &DirSource{dir: dir, log: log}
}

// Dir returns the directory being read.
func (s *DirSource) Dir() string { return s.dir }

// List returns summaries of every readable recipe file. Broken files are
// logged and skipped.
func (s *DirSource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipe dir: %w", err)
	}

	var out []domain.RecipeSummary
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := IDFromPath(e.Name())
		if !ok {
			continue
		}
		r, err := s.load(filepath.Join(s.dir, e.Name()), id)
		if err != nil {
			s.log.Warn("skipping %s: %v", e.Name(), err)
			continue
		}
		out = append(out, summarize(r))
	}
	sortSummaries(out)
	return out, nil
}

// Get loads the recipe stored as <id>.yaml or <id>.yml.
func (s *DirSource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, id+ext)
		r, err := s.load(path, id)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return r, err
	}
	s.log.Debug("recipe not found: %s", id)
	return nil, domain.ErrNotFound
}

// IDFromPath returns the recipe ID for a recipe file path, or false if the
// path is not a recipe file.
func IDFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	id := strings.TrimSuffix(base, ext)
	if id == "" || strings.HasPrefix(id, ".") {
		return "", false
	}
	return id, true
}

func (s *DirSource) load(path, id string) (*domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Decode(data, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.log.Debug("loaded recipe %s from %s", r.ID, path)
	return r, nil
}

// recipeFile is the on-disk layout.
type recipeFile struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Servings    int              `yaml:"servings"`
	Tags        []string         `yaml:"tags"`
	Ingredients []ingredientFile `yaml:"ingredients"`
	Steps       []stepFile       `yaml:"steps"`
}

type ingredientFile struct {
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity"`
	Unit     string `yaml:"unit"`
	Notes    string `yaml:"notes"`
	Category string `yaml:"category"`
}

type stepFile struct {
	ID          string   `yaml:"id"`
	Instruction string   `yaml:"instruction"`
	Timer       seconds  `yaml:"timer"`
	Tips        []string `yaml:"tips"`
	Temperature string   `yaml:"temperature"`
}

// seconds accepts either a Go duration ("4m30s") or a plain number of
// seconds.
type seconds int

func (s *seconds) UnmarshalYAML(n *yaml.Node) error {
	v := strings.TrimSpace(n.Value)
	if v == "" {
		*s = 0
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*s = seconds(secs)
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("line %d: timer %q is neither seconds nor a duration", n.Line, v)
	}
	*s = seconds(d.Round(time.Second) / time.Second)
	return nil
}

// Decode parses one YAML recipe. fallbackID is used when the file has no
// id of its own. Step IDs default to "<id>-<n>".
func Decode(data []byte, fallbackID string) (*domain.Recipe, error) {
	var f recipeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}

	if f.ID == "" {
		f.ID = fallbackID
	}
	switch {
	case f.ID == "":
		return nil, errors.New("recipe has no id")
	case strings.TrimSpace(f.Name) == "":
		return nil, errors.New("recipe has no name")
	case f.Servings <= 0:
		return nil, fmt.Errorf("servings must be positive, got %d", f.Servings)
	}

	r := &domain.Recipe{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Servings:    f.Servings,
		Tags:        f.Tags,
		Ingredients: make([]domain.Ingredient, len(f.Ingredients)),
		Steps:       make([]domain.InstructionStep, len(f.Steps)),
	}
	for i, ing := range f.Ingredients {
		r.Ingredients[i] = domain.Ingredient(ing)
	}
	for i, st := range f.Steps {
		if st.Timer < 0 {
			return nil, fmt.Errorf("step %d: negative timer", i+1)
		}
		id := st.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", f.ID, i+1)
		}
		r.Steps[i] = domain.InstructionStep{
			ID:           id,
			StepNumber:   i + 1,
			Instruction:  st.Instruction,
			TimerSeconds: int(st.Timer),
			Tips:         st.Tips,
			Temperature:  st.Temperature,
		}
	}
	return r, nil
}
