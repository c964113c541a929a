package prerequisites

import (
	"sort"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/calculators"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Validator checks feat prerequisites against a character. It never mutates its input.
type Validator struct {
	catalogs *rulebook.Catalogs
}

// NewValidator creates a validator over catalogs
func NewValidator(catalogs *rulebook.Catalogs) *Validator {
	return &Validator{catalogs: catalogs}
}

// Validate checks a feat by key. Same-choice prerequisites accept any held choice.
func (v *Validator) Validate(featKey string, char *character.Character) (*Result, error) {
	return v.ValidateChoice(featKey, "", char)
}

// ValidateChoice checks a feat by key for a specific sub-choice
func (v *Validator) ValidateChoice(featKey, choice string, char *character.Character) (*Result, error) {
	def, err := v.catalogs.Feat(featKey)
	if err != nil {
		return nil, err
	}
	return v.ValidateDefinition(def, choice, char)
}

// ValidateDefinition checks a definition the caller already holds. Predicates run in a
// fixed order so reasons are stable: ability, base attack, caster level, skill ranks,
// feats, race, class, level.
func (v *Validator) ValidateDefinition(def *rulebook.FeatDefinition, choice string, char *character.Character) (*Result, error) {
	if def == nil || char == nil {
		return nil, rulerr.InvalidArgument("feat definition and character are required")
	}

	p := def.Prerequisites
	if p == nil {
		return &Result{Eligible: true}, nil
	}

	var failed []Reason

	for _, attr := range shared.Attributes {
		required, ok := p.Abilities[attr]
		if !ok {
			continue
		}
		if actual := char.Abilities.Get(attr); actual < required {
			failed = append(failed, Reason{Code: CodeAbilityTooLow, Subject: string(attr), Required: required, Actual: actual})
		}
	}

	if p.BaseAttackBonus > 0 {
		bab, err := calculators.TotalBaseAttack(char.Classes, v.catalogs.Classes)
		if err != nil {
			return nil, err
		}
		if bab < p.BaseAttackBonus {
			failed = append(failed, Reason{Code: CodeBaseAttackTooLow, Required: p.BaseAttackBonus, Actual: bab})
		}
	}

	if p.CasterLevel > 0 {
		cl, err := calculators.TotalCasterLevel(char.Classes, v.catalogs.Classes)
		if err != nil {
			return nil, err
		}
		if cl < p.CasterLevel {
			failed = append(failed, Reason{Code: CodeCasterLevelTooLow, Required: p.CasterLevel, Actual: cl})
		}
	}

	skills := make([]string, 0, len(p.Skills))
	for skill := range p.Skills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	for _, skill := range skills {
		required := p.Skills[skill]
		if actual := char.Skills[skill].Ranks; actual < required {
			failed = append(failed, Reason{Code: CodeSkillRanksTooLow, Subject: skill, Required: required, Actual: actual})
		}
	}

	for _, feat := range p.Feats {
		if !char.HasFeat(feat) {
			failed = append(failed, Reason{Code: CodeMissingFeat, Subject: feat})
		}
	}
	for _, feat := range p.SameChoiceFeats {
		if choice == "" {
			if !char.HasFeat(feat) {
				failed = append(failed, Reason{Code: CodeMissingFeat, Subject: feat})
			}
			continue
		}
		if !char.HasFeatChoice(feat, choice) {
			failed = append(failed, Reason{Code: CodeMissingFeat, Subject: feat, Found: choice})
		}
	}

	if p.Race != "" && char.Race != p.Race {
		failed = append(failed, Reason{Code: CodeWrongRace, Subject: p.Race, Found: char.Race})
	}

	if len(p.Classes) > 0 && !hasAnyClass(char, p.Classes) {
		failed = append(failed, Reason{Code: CodeMissingClass, Options: append([]string(nil), p.Classes...)})
	}

	if level := char.Level(); level < p.Level {
		failed = append(failed, Reason{Code: CodeLevelTooLow, Required: p.Level, Actual: level})
	}

	return &Result{Eligible: len(failed) == 0, Failed: failed}, nil
}

// Available lists every feat the character is eligible for and does not already hold,
// in key order. Variable feats are listed when any choice could be taken.
func (v *Validator) Available(char *character.Character) ([]string, error) {
	var out []string
	for _, def := range v.catalogs.Feats.All() {
		if !def.IsVariable() && char.HasFeat(def.Key) {
			continue
		}
		result, err := v.ValidateDefinition(def, "", char)
		if err != nil {
			return nil, err
		}
		if result.Eligible {
			out = append(out, def.Key)
		}
	}
	return out, nil
}

func hasAnyClass(char *character.Character, classes []string) bool {
	for _, class := range classes {
		if char.ClassLevel(class) > 0 {
			return true
		}
	}
	return false
}
