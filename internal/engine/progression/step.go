package progression

import "strings"

// Step is one stage of a level-up transaction
type Step int

const (
	StepHitPoints     Step = 1 << 0
	StepSkillPoints   Step = 1 << 1
	StepAttributes    Step = 1 << 2
	StepFeats         Step = 1 << 3
	StepClassFeatures Step = 1 << 4
	StepReview        Step = 1 << 5
	StepFinalized     Step = 1 << 6
)

// StepOrder is the order steps run in; optional steps are skipped when the new
// level does not grant them
var StepOrder = []Step{
	StepHitPoints,
	StepSkillPoints,
	StepAttributes,
	StepFeats,
	StepClassFeatures,
	StepReview,
	StepFinalized,
}

var stepNames = map[Step]string{
	StepHitPoints:     "hit_points",
	StepSkillPoints:   "skill_points",
	StepAttributes:    "attributes",
	StepFeats:         "feats",
	StepClassFeatures: "class_features",
	StepReview:        "review",
	StepFinalized:     "finalized",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	var parts []string
	for _, step := range StepOrder {
		if s&step != 0 {
			parts = append(parts, stepNames[step])
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText renders the step name
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// stepsFor returns the mask of steps a level-up includes
func stepsFor(newLevel int, bonusFeat bool) Step {
	steps := StepHitPoints | StepSkillPoints | StepReview | StepFinalized
	if newLevel%4 == 0 {
		steps |= StepAttributes
	}
	if newLevel > 1 && newLevel%3 == 1 {
		steps |= StepFeats
	}
	if bonusFeat {
		steps |= StepClassFeatures
	}
	return steps
}
