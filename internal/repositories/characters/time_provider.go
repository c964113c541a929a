package characters

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockcharacters -source=time_provider.go

import "time"

// TimeProvider stamps stored records
type TimeProvider interface {
	Now() time.Time
}

type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}
