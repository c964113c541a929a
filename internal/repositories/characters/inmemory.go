package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character repository.
// Useful for testing and the CLI.
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters: make(map[string]*character.Character),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(_ context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return rulerr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.Version = 1
	r.characters[char.ID] = char.Clone()
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(_ context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, rulerr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.characters[id]
	if !exists {
		return nil, notFound(id)
	}
	return stored.Clone(), nil
}

// Update replaces a stored character
func (r *InMemoryRepository) Update(_ context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.characters[char.ID]
	if !exists {
		return notFound(char.ID)
	}
	if stored.Version != char.Version {
		return staleVersion(char.ID, char.Version, stored.Version)
	}

	char.Version++
	r.characters[char.ID] = char.Clone()
	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return rulerr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return notFound(id)
	}
	delete(r.characters, id)
	return nil
}

// List returns every character ordered by ID
func (r *InMemoryRepository) List(_ context.Context) ([]*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*character.Character, 0, len(r.characters))
	for _, char := range r.characters {
		out = append(out, char.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func validate(char *character.Character) error {
	if char == nil {
		return rulerr.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return rulerr.InvalidArgument("character ID is required")
	}
	return nil
}

func notFound(id string) error {
	return rulerr.NotFoundf("character with ID '%s' not found", id).
		WithMeta("character_id", id)
}

func staleVersion(id string, have, want int64) error {
	return rulerr.Conflictf("character '%s' was modified: version %d is stale, current is %d", id, have, want).
		WithMeta("character_id", id).
		WithMeta("version", want)
}
