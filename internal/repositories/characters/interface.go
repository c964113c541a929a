package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
)

// Repository defines the interface for character persistence. Writes are
// optimistically versioned: Create stores version 1 and Update only succeeds when the
// caller's Version matches the stored one, bumping it on success.
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// Update replaces a stored character, failing with a conflict on a stale version
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// List returns every stored character ordered by ID
	List(ctx context.Context) ([]*character.Character, error)
}
