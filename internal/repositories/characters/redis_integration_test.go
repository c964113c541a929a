//go:build integration
// +build integration

package characters_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-rules-engine/internal/testutils"
)

// startRedis runs a throwaway Redis container for the test
func startRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker not available for testing: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	require.NoError(t, testutils.WaitForRedis(endpoint, 10*time.Second))

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisRepository_Integration(t *testing.T) {
	repo, err := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: startRedis(t)})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("create and retrieve character", func(t *testing.T) {
		char := testutils.CreateTestWizard("wizard-1")
		require.NoError(t, repo.Create(ctx, char))

		got, err := repo.Get(ctx, char.ID)
		require.NoError(t, err)
		assert.Equal(t, char, got)
	})

	t.Run("stale update is rejected", func(t *testing.T) {
		char := testutils.CreateTestFighter("fighter-1")
		require.NoError(t, repo.Create(ctx, char))

		stale := char.Clone()
		char.Experience = 3000
		require.NoError(t, repo.Update(ctx, char))

		stale.Name = "Stale"
		assert.True(t, rulerr.IsConflict(repo.Update(ctx, stale)))
	})

	t.Run("list and delete", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		require.NoError(t, repo.Delete(ctx, "fighter-1"))
		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestRedisRepository_LocalServer(t *testing.T) {
	client := testutils.CreateTestRedisClient(t, nil)
	repo, err := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
	require.NoError(t, err)

	char := testutils.CreateTestFighter("local-1")
	require.NoError(t, repo.Create(context.Background(), char))
	got, err := repo.Get(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}
