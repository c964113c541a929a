package events

import "context"

//go:generate mockgen -destination=mock/mock_events.go -package=mockevents -source=interfaces.go

// EventListener handles character events. Lower priority runs first.
type EventListener interface {
	HandleEvent(event *GameEvent) error
	Priority() int
}

// Publisher is what services emit committed changes through
type Publisher interface {
	Emit(ctx context.Context, event *GameEvent) error
}
