package shared

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// CarryingMultiplier scales Strength-based load limits
func (s Size) CarryingMultiplier() float64 {
	switch s {
	case SizeSmall:
		return 0.75
	case SizeLarge:
		return 2
	}
	return 1
}
