package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KindTemplate holds static per-entity-kind visibility data loaded from YAML.
type KindTemplate struct {
	Name           string  `yaml:"name"`
	Category       string  `yaml:"category"` // "unit" or "building"
	VisionRadius   float64 `yaml:"vision_radius"`
	HideInExplored *bool   `yaml:"hide_in_explored"` // nil = category default
}

// IsBuilding reports whether the kind persists as a remembered silhouette.
func (k *KindTemplate) IsBuilding() bool {
	return k.Category == "building"
}

type kindListFile struct {
	Kinds []KindTemplate `yaml:"kinds"`
}

// KindTable holds all kind templates indexed by name, plus the category
// defaults applied to kinds that leave hide_in_explored unset.
type KindTable struct {
	templates               map[string]*KindTemplate
	unitsHideInExplored     bool
	buildingsHideInExplored bool
}

// LoadKindTable loads entity kind templates from a YAML file.
func LoadKindTable(path string, unitsHide, buildingsHide bool) (*KindTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kind_list: %w", err)
	}
	var f kindListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kind_list: %w", err)
	}
	t := &KindTable{
		templates:               make(map[string]*KindTemplate, len(f.Kinds)),
		unitsHideInExplored:     unitsHide,
		buildingsHideInExplored: buildingsHide,
	}
	for i := range f.Kinds {
		k := &f.Kinds[i]
		if k.VisionRadius < 0 {
			return nil, fmt.Errorf("kind %q: negative vision_radius", k.Name)
		}
		t.templates[k.Name] = k
	}
	return t, nil
}

// NewKindTable builds a table without a file. Used by tests and hosts that
// supply kinds programmatically.
func NewKindTable(kinds []KindTemplate, unitsHide, buildingsHide bool) *KindTable {
	t := &KindTable{
		templates:               make(map[string]*KindTemplate, len(kinds)),
		unitsHideInExplored:     unitsHide,
		buildingsHideInExplored: buildingsHide,
	}
	for i := range kinds {
		t.templates[kinds[i].Name] = &kinds[i]
	}
	return t
}

// Get returns a kind template by name, or nil if not found.
func (t *KindTable) Get(name string) *KindTemplate {
	return t.templates[name]
}

// HideInExplored resolves the render policy for a kind: the per-kind flag
// when set, the category default otherwise. Unknown kinds are treated as
// units (the conservative choice — hidden unless currently seen).
func (t *KindTable) HideInExplored(name string) bool {
	k := t.templates[name]
	if k == nil {
		return t.unitsHideInExplored
	}
	if k.HideInExplored != nil {
		return *k.HideInExplored
	}
	if k.IsBuilding() {
		return t.buildingsHideInExplored
	}
	return t.unitsHideInExplored
}

// Count returns the number of loaded templates.
func (t *KindTable) Count() int {
	return len(t.templates)
}
