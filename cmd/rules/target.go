package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/uuid"
)

// target returns the ID of the character the command works on, loading --file into
// the in-memory repository first
func target(ctx context.Context) (string, error) {
	switch {
	case flagFile != "":
		char, err := readCharacterFile(flagFile)
		if err != nil {
			return "", err
		}
		if char.ID == "" {
			char.ID = uuid.NewGenerator().New()
		}
		char.Version = 0
		if err := current.repo.Create(ctx, char); err != nil {
			return "", err
		}
		return char.ID, nil
	case flagID != "":
		if !current.persist {
			return "", errors.New("--id needs RULES_REDIS_ADDR or RULES_REDIS_URL")
		}
		return flagID, nil
	}
	return "", errors.New("one of --file or --id is required")
}

// commit writes the stored character back to --file when --write is set
func commit(ctx context.Context, id string) error {
	if flagFile == "" || !flagWrite {
		return nil
	}
	char, err := current.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return writeCharacterFile(flagFile, char)
}

func readCharacterFile(path string) (*character.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	char := &character.Character{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, char)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, char)
	default:
		return nil, fmt.Errorf("unsupported character file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return char, nil
}

func writeCharacterFile(path string, char *character.Character) error {
	out := char.Clone()
	out.Version = 0

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(out, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
