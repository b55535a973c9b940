package annotation

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultPresetName is the preset every catalog carries. It can be
// overwritten but never deleted.
const DefaultPresetName = "Default"

// Catalog is a name-keyed collection of reusable style presets.
//
// Get returns clones, and Save stores a clone, so a style held by the
// caller and a preset never alias each other.
type Catalog struct {
	presets map[string]Style
}

// NewCatalog returns a catalog seeded with the built-in presets.
func NewCatalog() *Catalog {
	c := &Catalog{presets: make(map[string]Style)}
	for _, s := range builtinPresets() {
		c.presets[s.Name] = s
	}
	return c
}

func builtinPresets() []Style {
	def := DefaultStyle()

	red := def
	red.Name = "Red on White"
	red.TextColor = "#FF0000"
	red.BgColor = "#FFFFFF"

	white := def
	white.Name = "White on Black"
	white.TextColor = "#FFFFFF"
	white.BgColor = "#000000"

	large := def
	large.Name = "Large Yellow"
	large.FontSize = 72

	gray := def
	gray.Name = "Subtle Gray"
	gray.TextColor = "#333333"
	gray.BgColor = "#CCCCCC"
	gray.BgOpacity = 0.7

	return []Style{def, red, white, large, gray}
}

// Get returns an independent copy of the named preset, or false if there is
// no preset with that name.
func (c *Catalog) Get(name string) (Style, bool) {
	s, ok := c.presets[name]
	if !ok {
		return Style{}, false
	}
	return s.Clone(), true
}

// Save upserts a preset under the style's own name.
func (c *Catalog) Save(s Style) {
	c.presets[s.Name] = s.Clone()
}

// Delete removes a preset by name. Deleting the default preset is refused;
// Delete reports whether a preset was removed.
func (c *Catalog) Delete(name string) bool {
	if name == DefaultPresetName {
		return false
	}
	if _, ok := c.presets[name]; !ok {
		return false
	}
	delete(c.presets, name)
	return true
}

// Names returns all preset names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// ToJSON serializes the catalog as a name-to-style JSON mapping.
func (c *Catalog) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c.presets, "", "  ")
}

// FromJSON merges presets from a name-to-style JSON mapping over the
// current contents. Each style is normalized through the same defaulting
// rules as UnmarshalStyle. A malformed document leaves the catalog
// untouched.
func (c *Catalog) FromJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse preset catalog: %w", err)
	}

	loaded := make(map[string]Style, len(raw))
	for name, msg := range raw {
		s, err := UnmarshalStyle(msg)
		if err != nil {
			return fmt.Errorf("parse preset %q: %w", name, err)
		}
		loaded[name] = s
	}

	for name, s := range loaded {
		c.presets[name] = s
	}
	return nil
}
