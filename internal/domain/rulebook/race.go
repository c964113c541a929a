package rulebook

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"

// RaceDefinition is a catalog race
type RaceDefinition struct {
	Key   string      `yaml:"key" json:"key"`
	Name  string      `yaml:"name" json:"name"`
	Size  shared.Size `yaml:"size" json:"size"`
	Speed int         `yaml:"speed" json:"speed"`

	// SkillPoints are extra skill points gained every level
	SkillPoints int `yaml:"skill_points,omitempty" json:"skill_points,omitempty"`
}

func (r *RaceDefinition) CatalogKey() string {
	return r.Key
}
