package calculators

// MaxLevel is the highest character level
const MaxLevel = 20

// XPForLevel returns the experience needed to reach a character level: n(n-1)/2 x 1000
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return level * (level - 1) / 2 * 1000
}

// CanLevelUp reports whether a character at level has the experience for level+1
func CanLevelUp(experience, level int) bool {
	if level >= MaxLevel {
		return false
	}
	return experience >= XPForLevel(level+1)
}
