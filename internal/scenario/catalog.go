// Package scenario holds the practice scenarios and partner avatars, loaded
// from an embedded YAML catalog.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrUnknownAvatar   = errors.New("unknown avatar")
)

type Scenario struct {
	Key        string   `yaml:"key" json:"key"`
	Name       string   `yaml:"name" json:"name"`
	Context    string   `yaml:"context" json:"context"`
	Character  string   `yaml:"character" json:"character"`
	Difficulty string   `yaml:"difficulty" json:"difficulty"`
	Tags       []string `yaml:"tags" json:"tags"`
	Opening    string   `yaml:"opening" json:"-"`
}

type Avatar struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	Age                int      `yaml:"age" json:"age"`
	Pronouns           string   `yaml:"pronouns" json:"pronouns"`
	Description        string   `yaml:"description" json:"description"`
	Traits             []string `yaml:"traits" json:"personality_traits"`
	CommunicationStyle string   `yaml:"communication_style" json:"communication_style"`
	BestFor            string   `yaml:"best_for" json:"best_for"`
	Color              string   `yaml:"color" json:"avatar_color"`
	Icon               string   `yaml:"icon" json:"avatar_icon"`
}

// Catalog is read-only after Load.
type Catalog struct {
	Scenarios []Scenario `yaml:"scenarios"`
	Avatars   []Avatar   `yaml:"avatars"`

	scenarios map[string]Scenario
	avatars   map[string]Avatar
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// Load parses and indexes a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c.scenarios = make(map[string]Scenario, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.Key == "" || s.Context == "" {
			return nil, fmt.Errorf("scenario %q: key and context are required", s.Key)
		}
		if _, dup := c.scenarios[s.Key]; dup {
			return nil, fmt.Errorf("duplicate scenario %q", s.Key)
		}
		c.scenarios[s.Key] = s
	}

	c.avatars = make(map[string]Avatar, len(c.Avatars))
	for _, a := range c.Avatars {
		if a.ID == "" {
			return nil, errors.New("avatar without id")
		}
		if _, dup := c.avatars[a.ID]; dup {
			return nil, fmt.Errorf("duplicate avatar %q", a.ID)
		}
		c.avatars[a.ID] = a
	}
	return &c, nil
}

// Scenario looks up a scenario by key. The error names the key.
func (c *Catalog) Scenario(key string) (Scenario, error) {
	s, ok := c.scenarios[key]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScenario, key, strings.Join(keys(c.scenarios), ", "))
	}
	return s, nil
}

// Avatar looks up an avatar by id. The error names the id.
func (c *Catalog) Avatar(id string) (Avatar, error) {
	a, ok := c.avatars[id]
	if !ok {
		return Avatar{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAvatar, id, strings.Join(keys(c.avatars), ", "))
	}
	return a, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
