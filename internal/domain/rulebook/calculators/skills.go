package calculators

// firstLevelSkillMultiplier applies to the skill points of a character's first level
const firstLevelSkillMultiplier = 4

// SkillPoints returns the skill points gained for a level: max(1, class base + Int
// modifier) plus the race bonus, quadrupled for the first character level.
func SkillPoints(classBase, intMod, raceBonus int, firstLevel bool) int {
	points := max(1, classBase+intMod) + raceBonus
	if firstLevel {
		points *= firstLevelSkillMultiplier
	}
	return points
}

// MaxRanks is the rank cap for a skill at a character level
func MaxRanks(level int, classSkill bool) int {
	if classSkill {
		return level + 3
	}
	return (level + 3) / 2
}

// RankCost is the skill points one rank costs
func RankCost(classSkill bool) int {
	if classSkill {
		return 1
	}
	return 2
}
