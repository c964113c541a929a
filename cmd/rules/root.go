package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/config"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-rules-engine/internal/services"
)

// app is the wiring shared by every command
type app struct {
	provider *services.Provider
	repo     characters.Repository
	redis    redis.UniversalClient
	persist  bool
}

var (
	current *app

	flagFile   string
	flagID     string
	flagWrite  bool
	flagFormat string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "rules",
	Short: "Resolve d20 character rules",
	Long: `Checks feat prerequisites, resolves spell casts, equips items and drives level-ups
against a character record. Characters come from a JSON or YAML file (--file) or, when
RULES_REDIS_ADDR or RULES_REDIS_URL is set, from Redis (--id).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagQuiet {
			log.SetOutput(io.Discard)
		}
		if flagFormat != "json" && flagFormat != "text" {
			return fmt.Errorf("--output must be json or text, got %q", flagFormat)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil || current.redis == nil {
			return nil
		}
		if err := current.redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "character file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&flagID, "id", "", "stored character ID")
	rootCmd.PersistentFlags().BoolVarP(&flagWrite, "write", "w", false, "write the changed character back to --file")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "output", "o", "text", "output format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress log output")
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{}

	var catalogs *rulebook.Catalogs
	if cfg.CatalogDir != "" {
		if catalogs, err = rulebook.Load(os.DirFS(cfg.CatalogDir)); err != nil {
			return nil, fmt.Errorf("failed to load catalogs from %s: %w", cfg.CatalogDir, err)
		}
		log.Printf("Loaded catalogs from %s", cfg.CatalogDir)
	}

	// a character file is resolved in memory even when Redis is configured
	if cfg.Redis.Enabled() && flagFile == "" {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		if a.repo, err = characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client}); err != nil {
			return nil, err
		}
		a.persist = true
	} else {
		a.repo = characters.NewInMemoryRepository()
	}

	a.provider, err = services.NewProvider(&services.ProviderConfig{
		Catalogs:            catalogs,
		CharacterRepository: a.repo,
		Stacking:            aggregate.Stacking(cfg.Stacking),
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opts)

	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Connected to Redis at %s", opts.Addr)
	return client, nil
}
