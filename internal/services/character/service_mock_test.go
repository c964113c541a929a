package character_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/srd"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	mockcharacters "github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters/mock"
	charService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/testutils"
)

func newMockedService(t *testing.T) (charService.Service, *mockcharacters.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mockcharacters.NewMockRepository(ctrl)
	svc := charService.NewService(&charService.ServiceConfig{
		Catalogs:   srd.MustCatalogs(),
		Repository: repo,
	})
	return svc, repo
}

func TestGrantFeat_StaleVersionIsConflict(t *testing.T) {
	svc, repo := newMockedService(t)
	ctx := context.Background()

	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.Version = 4

	repo.EXPECT().Get(ctx, "fighter-1").Return(fighter, nil)
	repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, char *character.Character) error {
		assert.Equal(t, int64(4), char.Version, "update carries the loaded version")
		assert.True(t, char.HasFeat("dodge"))
		return rulerr.Conflictf("character '%s' was modified", char.ID)
	})

	_, err := svc.GrantFeat(ctx, &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "dodge"})
	require.Error(t, err)
	assert.True(t, rulerr.IsConflict(err))
	assert.Equal(t, "fighter-1", rulerr.GetMeta(err)["character_id"])
}

func TestEquip_RepositoryFailure(t *testing.T) {
	svc, repo := newMockedService(t)
	ctx := context.Background()

	repo.EXPECT().Get(ctx, "fighter-1").Return(nil, errors.New("connection refused"))

	_, err := svc.Equip(ctx, &charService.EquipInput{CharacterID: "fighter-1", ItemID: "sword"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "Equip", rulerr.GetMeta(err)["operation"])
}

func TestInputValidationSkipsRepository(t *testing.T) {
	svc, _ := newMockedService(t)
	ctx := context.Background()

	_, err := svc.GrantFeat(ctx, &charService.FeatInput{CharacterID: "fighter-1"})
	assert.True(t, rulerr.IsInvalidArgument(err))

	_, err = svc.Cast(ctx, &charService.CastInput{CharacterID: "wizard-1", SpellKey: "fireball"})
	assert.True(t, rulerr.IsInvalidArgument(err))

	_, err = svc.LevelUp(ctx, nil)
	assert.True(t, rulerr.IsInvalidArgument(err))

	_, err = svc.AddItem(ctx, &charService.AddItemInput{ItemKey: "rope", Quantity: 1})
	assert.True(t, rulerr.IsInvalidArgument(err), "character ID is required")
}

func TestDeriveAll_ListFailure(t *testing.T) {
	svc, repo := newMockedService(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx).Return(nil, errors.New("boom"))

	_, err := svc.DeriveAll(ctx)
	assert.Error(t, err)
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() {
		charService.NewService(&charService.ServiceConfig{Catalogs: srd.MustCatalogs()})
	})
	assert.Panics(t, func() {
		charService.NewService(&charService.ServiceConfig{Repository: mockcharacters.NewMockRepository(gomock.NewController(t))})
	})
}
