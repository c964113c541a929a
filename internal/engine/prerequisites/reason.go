package prerequisites

import (
	"fmt"
	"strings"
)

// Code names the unmet predicate
type Code string

const (
	CodeAbilityTooLow     Code = "ability_too_low"
	CodeBaseAttackTooLow  Code = "base_attack_too_low"
	CodeCasterLevelTooLow Code = "caster_level_too_low"
	CodeSkillRanksTooLow  Code = "skill_ranks_too_low"
	CodeMissingFeat       Code = "missing_feat"
	CodeWrongRace         Code = "wrong_race"
	CodeMissingClass      Code = "missing_class"
	CodeLevelTooLow       Code = "level_too_low"
)

// Reason describes one failed prerequisite
type Reason struct {
	Code Code `json:"code"`

	// Subject is the ability, skill, feat or race the predicate is about
	Subject string `json:"subject,omitempty"`

	Required int `json:"required"`
	Actual   int `json:"actual"`

	// Options lists acceptable classes for CodeMissingClass
	Options []string `json:"options,omitempty"`
	// Found is the character's race for CodeWrongRace, or the needed choice for CodeMissingFeat
	Found string `json:"found,omitempty"`
}

// Shortfall is how far a numeric predicate is from being met
func (r Reason) Shortfall() int {
	if r.Required > r.Actual {
		return r.Required - r.Actual
	}
	return 0
}

func (r Reason) String() string {
	switch r.Code {
	case CodeAbilityTooLow:
		return fmt.Sprintf("requires %s >= %d, has %d", r.Subject, r.Required, r.Actual)
	case CodeBaseAttackTooLow:
		return fmt.Sprintf("requires base attack bonus >= %d, has %d", r.Required, r.Actual)
	case CodeCasterLevelTooLow:
		return fmt.Sprintf("requires caster level >= %d, has %d", r.Required, r.Actual)
	case CodeSkillRanksTooLow:
		return fmt.Sprintf("requires %s ranks >= %d, has %d", r.Subject, r.Required, r.Actual)
	case CodeMissingFeat:
		if r.Found != "" {
			return fmt.Sprintf("requires feat %s (%s)", r.Subject, r.Found)
		}
		return fmt.Sprintf("requires feat %s", r.Subject)
	case CodeWrongRace:
		return fmt.Sprintf("requires race %s, is %s", r.Subject, r.Found)
	case CodeMissingClass:
		return fmt.Sprintf("requires a level in one of %s", strings.Join(r.Options, ", "))
	case CodeLevelTooLow:
		return fmt.Sprintf("requires character level >= %d, has %d", r.Required, r.Actual)
	}
	return string(r.Code)
}

// Result is the outcome of a prerequisite check
type Result struct {
	Eligible bool     `json:"eligible"`
	Failed   []Reason `json:"failed,omitempty"`
}

// Reasons renders every failure
func (r *Result) Reasons() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.String())
	}
	return out
}
