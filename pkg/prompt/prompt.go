package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kotrzina/calassist/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultVariant is the wording of the very first version of the extension
const DefaultVariant = "default"

// Placeholder is replaced by the current UTC date in YYYY-MM-DD format
const Placeholder = "${date}"

//go:embed default.prompt
var defaultPrompt string

//go:embed strict.prompt
var strictPrompt string

//go:embed relative.prompt
var relativePrompt string

type Templates struct {
	templates map[string]string
}

// fileConfig is the structure of PROMPTS_FILE
type fileConfig struct {
	Prompts []struct {
		Name     string `yaml:"name"`
		Template string `yaml:"template"`
	} `yaml:"prompts"`
}

// New returns built-in templates
func New() *Templates {
	return &Templates{
		templates: map[string]string{
			DefaultVariant: strings.TrimSpace(defaultPrompt),
			"strict":       strings.TrimSpace(strictPrompt),
			"relative":     strings.TrimSpace(relativePrompt),
		},
	}
}

// Load returns built-in templates extended by templates from the yaml file
// Templates from the file override built-in ones with the same name.
// Empty path means built-in templates only.
func Load(path string) (*Templates, error) {
	t := New()
	if path == "" {
		return t, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read prompts file: %w", err)
	}

	if err := t.AddYAML(content); err != nil {
		return nil, err
	}

	return t, nil
}

// AddYAML adds templates from yaml document
func (t *Templates) AddYAML(content []byte) error {
	var config fileConfig
	if err := yaml.Unmarshal(content, &config); err != nil {
		return fmt.Errorf("could not unmarshal prompts: %w", err)
	}

	for _, p := range config.Prompts {
		if p.Name == "" {
			return fmt.Errorf("prompt without name")
		}
		if strings.TrimSpace(p.Template) == "" {
			return fmt.Errorf("prompt %s has empty template", p.Name)
		}
		t.templates[p.Name] = strings.TrimSpace(p.Template)
	}

	return nil
}

// Names returns sorted names of all templates
func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.templates))
	for name := range t.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Builder renders one template
func (t *Templates) Builder(variant string) (*Builder, error) {
	tmpl, ok := t.templates[variant]
	if !ok {
		return nil, fmt.Errorf("unknown prompt variant %q, available: %s", variant, strings.Join(t.Names(), ", "))
	}

	return &Builder{variant: variant, template: tmpl, now: time.Now}, nil
}

type Builder struct {
	variant  string
	template string
	now      func() time.Time
}

// NewBuilder creates a builder for an arbitrary template with a custom clock
func NewBuilder(template string, now func() time.Time) *Builder {
	return &Builder{variant: "custom", template: template, now: now}
}

func (b *Builder) Variant() string {
	return b.variant
}

// Render returns the instruction with the current date filled in
func (b *Builder) Render() string {
	return RenderAt(b.template, b.now())
}

// RenderAt replaces the date placeholder in template
func RenderAt(template string, now time.Time) string {
	return strings.ReplaceAll(template, Placeholder, utils.FormatDay(now))
}
