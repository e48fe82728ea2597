package style

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

type presetFile struct {
	Presets []Style `yaml:"presets"`
}

// Catalog holds the named styles offered to the editor.
type Catalog struct {
	byName map[string]Style
}

// LoadCatalog reads the built-in presets and, when path is set, a YAML file
// whose presets override built-ins of the same name.
func LoadCatalog(path string) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Style)}
	if err := c.merge(builtinPresets, "built-in presets"); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read style presets: %w", err)
		}
		if err := c.merge(data, path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) merge(data []byte, source string) error {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", source, err)
	}
	for _, s := range file.Presets {
		if s.Name == "" {
			return fmt.Errorf("%s: preset without a name", source)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: preset %q: %w", source, s.Name, err)
		}
		c.byName[s.Name] = s
	}
	return nil
}

func (c *Catalog) Get(name string) (Style, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// List returns the presets sorted by name.
func (c *Catalog) List() []Style {
	out := make([]Style, 0, len(c.byName))
	for _, s := range c.byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
