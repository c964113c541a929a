package aggregate

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// entry is one bonus from one source
type entry struct {
	source string
	bonus  rulebook.Bonus
}

// ledger is the single merge point for every numeric effect. Each resolved statistic
// appends its considered bonuses to the audit trail.
type ledger struct {
	stacking Stacking
	entries  []entry
	audit    []character.Contribution
}

func newLedger(stacking Stacking) *ledger {
	return &ledger{stacking: stacking}
}

func (l *ledger) add(source string, bonuses ...rulebook.Bonus) {
	for _, b := range bonuses {
		l.entries = append(l.entries, entry{source: source, bonus: b})
	}
}

// applicable returns entries for target whose key is empty or one of keys
func (l *ledger) applicable(target shared.Target, keys []string) []entry {
	var out []entry
	for _, e := range l.entries {
		if e.bonus.Target != target {
			continue
		}
		if e.bonus.Key == "" || containsKey(keys, e.bonus.Key) {
			out = append(out, e)
		}
	}
	return out
}

// resolve merges every applicable bonus for one statistic and returns the applied ones
func (l *ledger) resolve(stat string, target shared.Target, keys ...string) (int, []rulebook.Bonus) {
	entries := l.applicable(target, keys)
	applied := l.merge(entries)

	total := 0
	var used []rulebook.Bonus
	for i, e := range entries {
		l.record(stat, e, applied[i])
		if applied[i] {
			total += e.bonus.Value
			used = append(used, e.bonus)
		}
	}
	return total, used
}

// resolveCap returns the minimum across all sources defining a capped target, nil when
// none do
func (l *ledger) resolveCap(stat string, target shared.Target, keys ...string) *int {
	entries := l.applicable(target, keys)
	if len(entries) == 0 {
		return nil
	}

	lowest := 0
	for i, e := range entries {
		if e.bonus.Value < entries[lowest].bonus.Value {
			lowest = i
		}
	}
	for i, e := range entries {
		l.record(stat, e, i == lowest)
	}

	v := entries[lowest].bonus.Value
	return &v
}

// merge decides which entries apply. Flat stacking applies everything. Typed stacking
// keeps the highest bonus of each non-stacking type, first source winning ties;
// penalties always apply.
func (l *ledger) merge(entries []entry) []bool {
	applied := make([]bool, len(entries))
	if l.stacking == StackingFlat {
		for i := range applied {
			applied[i] = true
		}
		return applied
	}

	best := make(map[shared.BonusType]int)
	for i, e := range entries {
		b := e.bonus
		if b.Value <= 0 || b.Type.Stacks() {
			applied[i] = true
			continue
		}
		if j, ok := best[b.Type]; !ok || b.Value > entries[j].bonus.Value {
			best[b.Type] = i
		}
	}
	for _, i := range best {
		applied[i] = true
	}
	return applied
}

func (l *ledger) record(stat string, e entry, applied bool) {
	l.audit = append(l.audit, character.Contribution{
		Stat:    stat,
		Source:  e.source,
		Target:  e.bonus.Target,
		Key:     e.bonus.Key,
		Type:    e.bonus.Type,
		Value:   e.bonus.Value,
		Applied: applied,
	})
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
