package progression

import (
	"strings"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/calculators"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// LevelUp is an open level-up transaction. Choices accumulate on the transaction and
// are applied to a copy of the character by Finalize.
type LevelUp struct {
	NewLevel       int    `json:"new_level"`
	ClassKey       string `json:"class"`
	ClassLevel     int    `json:"class_level"`
	CurrentStep    Step   `json:"current_step"`
	Steps          Step   `json:"steps"`
	CompletedSteps Step   `json:"completed_steps"`
	SkillBudget    int    `json:"skill_budget"`

	driver     *Driver
	base       *character.Character
	class      *rulebook.ClassDefinition
	firstLevel bool

	hitDieRoll int
	ranks      map[string]int
	spent      int
	ability    shared.Attribute
	feat       *character.FeatInstance
	classFeat  *character.FeatInstance
}

// Outcome is the committed level-up
type Outcome struct {
	Character *character.Character    `json:"character"`
	Derived   *character.DerivedStats `json:"derived"`
}

// Includes reports whether the transaction has step
func (l *LevelUp) Includes(step Step) bool {
	return l.Steps&step != 0
}

// IsStepCompleted reports whether step's guard was met and the transaction moved past it
func (l *LevelUp) IsStepCompleted(step Step) bool {
	return l.CompletedSteps&step != 0
}

// HitDieRoll is the recorded hit die result, 0 until rolled
func (l *LevelUp) HitDieRoll() int {
	return l.hitDieRoll
}

// SkillPointsRemaining is the unspent part of the skill budget
func (l *LevelUp) SkillPointsRemaining() int {
	return l.SkillBudget - l.spent
}

// RollHitPoints rolls the class hit die. The first character level always takes the
// maximum result.
func (l *LevelUp) RollHitPoints() (int, error) {
	if err := l.expect(StepHitPoints); err != nil {
		return 0, err
	}

	if l.firstLevel {
		l.hitDieRoll = l.class.HitDie
		return l.hitDieRoll, nil
	}

	result, err := l.driver.roller.Roll(1, l.class.HitDie, 0)
	if err != nil {
		return 0, rulerr.Wrapf(err, "failed to roll d%d hit die", l.class.HitDie)
	}
	l.hitDieRoll = result.Total
	return l.hitDieRoll, nil
}

// SetHitPointRoll records a hit die result rolled elsewhere
func (l *LevelUp) SetHitPointRoll(roll int) error {
	if err := l.expect(StepHitPoints); err != nil {
		return err
	}
	if roll < 1 || roll > l.class.HitDie {
		return rulerr.InvalidArgumentf("%d is not a d%d result", roll, l.class.HitDie)
	}
	if l.firstLevel && roll != l.class.HitDie {
		return rulerr.InvalidArgumentf("first level takes the maximum hit die result %d", l.class.HitDie)
	}
	l.hitDieRoll = roll
	return nil
}

// BuyRanks spends skill points on ranks. Cross-class ranks cost two points each and
// cap at half the class skill maximum.
func (l *LevelUp) BuyRanks(skill string, ranks int) error {
	if err := l.expect(StepSkillPoints); err != nil {
		return err
	}
	if ranks < 1 {
		return rulerr.InvalidArgumentf("ranks must be positive, got %d", ranks)
	}
	if _, ok := shared.LookupSkill(skill); !ok {
		return rulerr.UnknownCatalogEntry("skill", skill)
	}

	classSkill := l.isClassSkill(skill)
	cost := ranks * calculators.RankCost(classSkill)
	if cost > l.SkillPointsRemaining() {
		return rulerr.InvalidArgumentf("%d ranks of %s cost %d skill points, %d remain",
			ranks, skill, cost, l.SkillPointsRemaining())
	}

	total := l.base.Skills[skill].Ranks + l.ranks[skill] + ranks
	if limit := calculators.MaxRanks(l.NewLevel, classSkill); total > limit {
		return rulerr.InvalidArgumentf("%s would have %d ranks, max is %d at level %d",
			skill, total, limit, l.NewLevel)
	}

	l.ranks[skill] += ranks
	l.spent += cost
	return nil
}

// ResetSkills refunds every rank bought in this transaction
func (l *LevelUp) ResetSkills() error {
	if err := l.expect(StepSkillPoints); err != nil {
		return err
	}
	l.ranks = make(map[string]int)
	l.spent = 0
	return nil
}

// IncreaseAbility picks the ability score that gains a point
func (l *LevelUp) IncreaseAbility(attr shared.Attribute) error {
	if err := l.expect(StepAttributes); err != nil {
		return err
	}
	if !attr.Valid() {
		return rulerr.InvalidArgumentf("unknown ability '%s'", attr)
	}
	l.ability = attr
	return nil
}

// SelectFeat picks the feat gained at this level. Prerequisites are checked against
// the character as it will be after the level-up.
func (l *LevelUp) SelectFeat(featKey, choice string) error {
	if err := l.expect(StepFeats); err != nil {
		return err
	}
	previous := l.feat
	l.feat = nil
	inst, err := l.checkFeat(featKey, choice)
	if err != nil {
		l.feat = previous
		return err
	}
	l.feat = inst
	return nil
}

// SelectClassFeat picks the class bonus feat gained at this class level
func (l *LevelUp) SelectClassFeat(featKey, choice string) error {
	if err := l.expect(StepClassFeatures); err != nil {
		return err
	}

	def, err := l.driver.catalogs.Feat(featKey)
	if err != nil {
		return err
	}
	if !def.Fighter {
		return rulerr.InvalidArgumentf("feat '%s' is not a %s bonus feat", featKey, l.class.Key)
	}

	previous := l.classFeat
	l.classFeat = nil
	inst, err := l.checkFeat(featKey, choice)
	if err != nil {
		l.classFeat = previous
		return err
	}
	l.classFeat = inst
	return nil
}

// Advance moves to the next included step once the current step's guard is met
func (l *LevelUp) Advance() error {
	if l.CurrentStep == StepReview {
		return rulerr.InvalidTransitionf("review is completed by Finalize")
	}
	if err := l.guard(l.CurrentStep); err != nil {
		return err
	}

	l.CompletedSteps |= l.CurrentStep
	l.CurrentStep = l.next(l.CurrentStep)
	return nil
}

// Review previews the character as Finalize would commit it
func (l *LevelUp) Review() (*Outcome, error) {
	if err := l.expect(StepReview); err != nil {
		return nil, err
	}
	return l.preview()
}

// Finalize commits every choice to a copy of the character in one step and closes
// the transaction
func (l *LevelUp) Finalize() (*Outcome, error) {
	if err := l.expect(StepReview); err != nil {
		return nil, err
	}
	if err := l.guard(StepReview); err != nil {
		return nil, err
	}

	outcome, err := l.preview()
	if err != nil {
		return nil, err
	}

	l.CompletedSteps |= StepReview
	l.CurrentStep = StepFinalized
	l.base = nil
	l.ranks = nil
	l.feat = nil
	l.classFeat = nil
	return outcome, nil
}

func (l *LevelUp) expect(step Step) error {
	if l.CurrentStep != step {
		return rulerr.InvalidTransitionf("level-up is at %s, not %s", l.CurrentStep, step).
			WithMeta("current_step", l.CurrentStep.String())
	}
	return nil
}

func (l *LevelUp) guard(step Step) error {
	switch step {
	case StepHitPoints:
		if l.hitDieRoll == 0 {
			return rulerr.InvalidTransitionf("hit points have not been rolled")
		}
	case StepSkillPoints:
		if remaining := l.SkillPointsRemaining(); remaining != 0 {
			return rulerr.InvalidTransitionf("%d skill points are unspent", remaining).
				WithMeta("remaining", remaining)
		}
	case StepAttributes:
		if l.ability == shared.AttributeNone {
			return rulerr.InvalidTransitionf("no ability score chosen")
		}
	case StepFeats:
		if l.feat == nil {
			return rulerr.InvalidTransitionf("no feat chosen")
		}
	case StepClassFeatures:
		if l.classFeat == nil {
			return rulerr.InvalidTransitionf("no %s bonus feat chosen", l.class.Key)
		}
	case StepReview:
		incomplete, err := l.incompleteFeats()
		if err != nil {
			return err
		}
		if len(incomplete) > 0 {
			return rulerr.InvalidTransitionf("feats need a choice: %s", strings.Join(incomplete, ", ")).
				WithMeta("incomplete", incomplete)
		}
	case StepFinalized:
		return rulerr.InvalidTransitionf("level-up is already finalized")
	}
	return nil
}

func (l *LevelUp) next(step Step) Step {
	for _, s := range StepOrder {
		if s > step && l.Includes(s) {
			return s
		}
	}
	return StepFinalized
}

func (l *LevelUp) isClassSkill(skill string) bool {
	return l.class.IsClassSkill(skill) || l.base.Skills[skill].ClassSkill
}

// checkFeat validates a feat choice against the character as it would be with every
// choice made so far applied
func (l *LevelUp) checkFeat(featKey, choice string) (*character.FeatInstance, error) {
	outcome, err := l.driver.granter.Grant(l.apply(), featKey, choice)
	if err != nil {
		return nil, err
	}
	if !outcome.Granted {
		return nil, rulerr.PrerequisiteNotMetf("feat '%s' prerequisites not met: %s",
			featKey, strings.Join(outcome.Result.Reasons(), "; ")).
			WithMeta("feat", featKey).
			WithMeta("reasons", outcome.Result.Reasons())
	}
	if !outcome.Changed {
		return nil, rulerr.AlreadyExistsf("feat '%s' is already held", featKey)
	}
	return &character.FeatInstance{Key: featKey, Choice: choice}, nil
}

func (l *LevelUp) incompleteFeats() ([]string, error) {
	var out []string
	for _, f := range l.apply().Feats {
		def, err := l.driver.catalogs.Feat(f.Key)
		if err != nil {
			return nil, err
		}
		if def.IsVariable() && f.Choice == "" {
			out = append(out, f.Key)
		}
	}
	return out, nil
}

func (l *LevelUp) preview() (*Outcome, error) {
	next := l.apply()
	derived, err := l.driver.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Outcome{Character: next, Derived: derived}, nil
}

// apply builds the leveled character from the choices recorded so far
func (l *LevelUp) apply() *character.Character {
	next := l.base.Clone()

	found := false
	for i := range next.Classes {
		if next.Classes[i].Class == l.ClassKey {
			next.Classes[i].Level++
			found = true
			break
		}
	}
	if !found {
		next.Classes = append(next.Classes, character.ClassLevel{Class: l.ClassKey, Level: 1})
	}

	if l.ability != shared.AttributeNone {
		next.Abilities = next.Abilities.With(l.ability, next.Abilities.Get(l.ability)+1)
	}

	if l.hitDieRoll > 0 {
		next.HitPoints.Rolls = append(next.HitPoints.Rolls, l.hitDieRoll)
		next.HitPoints.Current += max(1, l.hitDieRoll+next.Abilities.Modifier(shared.AttributeConstitution))
	}

	if len(l.ranks) > 0 && next.Skills == nil {
		next.Skills = make(map[string]character.SkillRanks, len(l.ranks))
	}
	for skill, ranks := range l.ranks {
		current := next.Skills[skill]
		next.Skills[skill] = character.SkillRanks{
			Ranks:      current.Ranks + ranks,
			ClassSkill: current.ClassSkill || l.class.IsClassSkill(skill),
		}
	}

	for _, f := range []*character.FeatInstance{l.feat, l.classFeat} {
		if f != nil {
			next.AddFeat(f.Key, f.Choice)
		}
	}
	return next
}
