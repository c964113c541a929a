package rulebook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	fixedDiceRe     = regexp.MustCompile(`^(\d+)d(\d+)(?:\s*([+-])\s*(\d+))?$`)
	perLevelDiceRe  = regexp.MustCompile(`^(\d+)d(\d+)\s*/\s*(?:(\d+)\s+)?levels?(?:\s+max\s+(\d+)d\d+)?$`)
	perLevelBonusRe = regexp.MustCompile(`^(\d+)d(\d+)\s*\+\s*(\d+)\s*/\s*(?:(\d+)\s+)?levels?(?:\s+max\s+\+?(\d+))?$`)
)

// Formula is a parametric dice expression such as "1d6/level max 10d6",
// "1d8+1/level max +5" or "1d4+1".
type Formula struct {
	Count int
	Sides int
	Bonus int

	// DicePer is how many caster levels buy one more Count of dice; 0 means fixed
	DicePer int
	MaxDice int

	// BonusStep is added once per BonusPer caster levels, capped at MaxBonus
	BonusStep int
	BonusPer  int
	MaxBonus  int

	raw      string
	perLevel bool
}

// Dice is a resolved dice expression
type Dice struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
	Bonus int `json:"bonus,omitempty"`
}

// ParseFormula parses the formula grammar used in spell catalogs
func ParseFormula(s string) (*Formula, error) {
	raw := strings.TrimSpace(s)
	text := strings.ToLower(raw)

	if m := perLevelBonusRe.FindStringSubmatch(text); m != nil {
		f := &Formula{Count: atoi(m[1]), Sides: atoi(m[2]), BonusStep: atoi(m[3]), BonusPer: 1, raw: raw, perLevel: true}
		if m[4] != "" {
			f.BonusPer = atoi(m[4])
		}
		f.MaxBonus = atoi(m[5])
		return f, f.check()
	}

	if m := perLevelDiceRe.FindStringSubmatch(text); m != nil {
		f := &Formula{Count: atoi(m[1]), Sides: atoi(m[2]), DicePer: 1, raw: raw, perLevel: true}
		if m[3] != "" {
			f.DicePer = atoi(m[3])
		}
		f.MaxDice = atoi(m[4])
		return f, f.check()
	}

	if m := fixedDiceRe.FindStringSubmatch(text); m != nil {
		f := &Formula{Count: atoi(m[1]), Sides: atoi(m[2]), raw: raw}
		if m[4] != "" {
			f.Bonus = atoi(m[4])
			if m[3] == "-" {
				f.Bonus = -f.Bonus
			}
		}
		return f, f.check()
	}

	return nil, fmt.Errorf("invalid formula %q", s)
}

func (f *Formula) check() error {
	if f.Count < 1 || f.Sides < 1 {
		return fmt.Errorf("invalid formula %q: dice count and sides must be positive", f.raw)
	}
	if f.DicePer < 0 || f.BonusPer < 0 || (f.perLevel && f.DicePer == 0 && f.BonusPer == 0) {
		return fmt.Errorf("invalid formula %q: level step must be positive", f.raw)
	}
	return nil
}

// Resolve substitutes the caster level and clamps to the stated maximum
func (f *Formula) Resolve(casterLevel int) Dice {
	if casterLevel < 1 {
		casterLevel = 1
	}

	d := Dice{Count: f.Count, Sides: f.Sides, Bonus: f.Bonus}

	if f.DicePer > 0 {
		steps := casterLevel / f.DicePer
		if steps < 1 {
			steps = 1
		}
		d.Count = f.Count * steps
		if f.MaxDice > 0 && d.Count > f.MaxDice {
			d.Count = f.MaxDice
		}
	}

	if f.BonusPer > 0 {
		bonus := f.BonusStep * (casterLevel / f.BonusPer)
		if f.MaxBonus > 0 && bonus > f.MaxBonus {
			bonus = f.MaxBonus
		}
		d.Bonus += bonus
	}

	return d
}

// String returns the formula as written in the catalog
func (f *Formula) String() string {
	return f.raw
}

// MarshalText renders the formula in catalog form
func (f *Formula) MarshalText() ([]byte, error) {
	return []byte(f.raw), nil
}

// UnmarshalText parses catalog form
func (f *Formula) UnmarshalText(text []byte) error {
	parsed, err := ParseFormula(string(text))
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// UnmarshalYAML parses a scalar formula node
func (f *Formula) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: formula must be a string", node.Line)
	}
	return f.UnmarshalText([]byte(node.Value))
}

// String renders "10d6", "1d8+5" or "1d4-1"
func (d Dice) String() string {
	switch {
	case d.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", d.Count, d.Sides, d.Bonus)
	case d.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", d.Count, d.Sides, d.Bonus)
	}
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

// Max is the highest possible result
func (d Dice) Max() int {
	return d.Count*d.Sides + d.Bonus
}

// Average is the expected result
func (d Dice) Average() float64 {
	return float64(d.Count)*float64(d.Sides+1)/2 + float64(d.Bonus)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
