package character_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/dnd-rules-engine/internal/dice"
	mockdice "github.com/KirkDiggler/dnd-rules-engine/internal/dice/mock"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	mockevents "github.com/KirkDiggler/dnd-rules-engine/internal/domain/events/mock"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/srd"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	charService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/testutils"
	"github.com/KirkDiggler/dnd-rules-engine/internal/uuid"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	roller    *mockdice.MockRoller
	publisher *mockevents.MockPublisher
	repo      characters.Repository
	service   charService.Service

	mu     sync.Mutex
	events []*events.GameEvent
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.roller = mockdice.NewMockRoller(s.ctrl)
	s.publisher = mockevents.NewMockPublisher(s.ctrl)
	s.repo = characters.NewInMemoryRepository()
	s.events = nil

	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event *events.GameEvent) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.events = append(s.events, event)
			return nil
		}).AnyTimes()

	s.service = charService.NewService(&charService.ServiceConfig{
		Catalogs:   srd.MustCatalogs(),
		Repository: s.repo,
		Publisher:  s.publisher,
		IDs:        uuid.NewSequence("id"),
		Roller:     s.roller,
	})
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) store(char *character.Character) *character.Character {
	s.Require().NoError(s.repo.Create(s.ctx, char))
	return char
}

func (s *ServiceTestSuite) stored(id string) *character.Character {
	char, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	return char
}

func (s *ServiceTestSuite) eventTypes() []events.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func (s *ServiceTestSuite) TestCreateCharacter() {
	out, err := s.service.CreateCharacter(s.ctx, &charService.CreateCharacterInput{
		Name:      "  Seelah ",
		RaceKey:   "human",
		Abilities: shared.AbilityScores{Strength: 14, Dexterity: 10, Constitution: 12, Intelligence: 10, Wisdom: 13, Charisma: 16},
	})
	s.Require().NoError(err)

	s.Equal("id-1", out.Character.ID)
	s.Equal("Seelah", out.Character.Name)
	s.Equal(0, out.Character.Level())
	s.NotNil(out.Derived)
	s.Equal(int64(1), s.stored("id-1").Version)
	s.Equal([]events.EventType{events.OnCharacterCreated}, s.eventTypes())
}

func (s *ServiceTestSuite) TestCreateCharacterValidation() {
	abilities := shared.AbilityScores{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10}

	tests := []struct {
		name  string
		input *charService.CreateCharacterInput
		check func(error) bool
	}{
		{name: "nil input", check: rulerr.IsInvalidArgument},
		{name: "blank name", input: &charService.CreateCharacterInput{Name: " ", RaceKey: "human", Abilities: abilities}, check: rulerr.IsInvalidArgument},
		{name: "unknown race", input: &charService.CreateCharacterInput{Name: "A", RaceKey: "kobold", Abilities: abilities}, check: rulerr.IsUnknownCatalogEntry},
		{name: "zero score", input: &charService.CreateCharacterInput{Name: "A", RaceKey: "human"}, check: rulerr.IsInvalidArgument},
		{name: "negative experience", input: &charService.CreateCharacterInput{Name: "A", RaceKey: "human", Abilities: abilities, Experience: -1}, check: rulerr.IsInvalidArgument},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateCharacter(s.ctx, tt.input)
			s.Error(err)
			s.True(tt.check(err), "got %v", err)
		})
	}
	s.Empty(s.eventTypes())
}

func (s *ServiceTestSuite) TestGrantFeat() {
	s.store(testutils.CreateTestFighter("fighter-1"))
	input := &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "power_attack"}

	outcome, err := s.service.GrantFeat(s.ctx, input)
	s.Require().NoError(err)
	s.True(outcome.Granted)
	s.True(outcome.Changed)

	saved := s.stored("fighter-1")
	s.True(saved.HasFeat("power_attack"))
	s.Equal(int64(2), saved.Version)

	// granting again is idempotent and saves nothing
	outcome, err = s.service.GrantFeat(s.ctx, input)
	s.Require().NoError(err)
	s.True(outcome.Granted)
	s.False(outcome.Changed)
	s.Equal(int64(2), s.stored("fighter-1").Version)

	s.Equal([]events.EventType{events.OnFeatGranted}, s.eventTypes())
	feat, _ := s.events[0].GetStringContext(events.ContextFeatKey)
	s.Equal("power_attack", feat)
}

func (s *ServiceTestSuite) TestGrantFeatRefused() {
	s.store(testutils.CreateTestCharacter("weak-1", "Weakling"))

	outcome, err := s.service.GrantFeat(s.ctx, &charService.FeatInput{CharacterID: "weak-1", FeatKey: "power_attack"})
	s.Require().NoError(err)
	s.False(outcome.Granted)
	s.False(outcome.Result.Eligible)
	s.NotEmpty(outcome.Result.Reasons())

	saved := s.stored("weak-1")
	s.False(saved.HasFeat("power_attack"))
	s.Equal(int64(1), saved.Version)
	s.Empty(s.eventTypes())
}

func (s *ServiceTestSuite) TestValidateFeatChangesNothing() {
	s.store(testutils.CreateTestFighter("fighter-1"))

	result, err := s.service.ValidateFeat(s.ctx, &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "cleave"})
	s.Require().NoError(err)
	s.False(result.Eligible, "cleave needs power attack")

	available, err := s.service.AvailableFeats(s.ctx, "fighter-1")
	s.Require().NoError(err)
	s.Contains(available, "power_attack")
	s.NotContains(available, "cleave")

	s.Equal(int64(1), s.stored("fighter-1").Version)
}

func (s *ServiceTestSuite) TestChooseAndRevokeFeat() {
	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.AddFeat("weapon_focus", "")
	s.store(fighter)

	_, err := s.service.ChooseFeat(s.ctx, &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "weapon_focus", Choice: "longsword"})
	s.Require().NoError(err)
	s.True(s.stored("fighter-1").HasFeatChoice("weapon_focus", "longsword"))

	outcome, err := s.service.RevokeFeat(s.ctx, &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "weapon_focus", Choice: "longsword"})
	s.Require().NoError(err)
	s.True(outcome.Changed)
	s.False(s.stored("fighter-1").HasFeat("weapon_focus"))

	s.Equal([]events.EventType{events.OnFeatChoiceChanged, events.OnFeatRevoked}, s.eventTypes())
}

func (s *ServiceTestSuite) TestRevokeDependencyFails() {
	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.AddFeat("power_attack", "")
	fighter.AddFeat("cleave", "")
	s.store(fighter)

	_, err := s.service.RevokeFeat(s.ctx, &charService.FeatInput{CharacterID: "fighter-1", FeatKey: "power_attack"})
	s.Require().Error(err)
	s.True(rulerr.IsPrerequisiteNotMet(err))
	s.Equal("RevokeFeat", rulerr.GetMeta(err)["operation"])
	s.True(s.stored("fighter-1").HasFeat("power_attack"))
}

func (s *ServiceTestSuite) TestCastPersistentSpell() {
	s.store(testutils.CreateTestWizard("wizard-1"))

	outcome, err := s.service.Cast(s.ctx, &charService.CastInput{CharacterID: "wizard-1", SpellKey: "mage_armor", CasterClass: "wizard"})
	s.Require().NoError(err)
	s.True(outcome.Legal)

	saved := s.stored("wizard-1")
	s.Equal(0, saved.ActiveSpell("mage_armor"))
	s.Equal(int64(2), saved.Version)

	derived, err := s.service.Derive(s.ctx, "wizard-1")
	s.Require().NoError(err)
	// 10 + 2 dex + 4 armor
	s.Equal(16, derived.Derived.ArmorClass.Total)

	_, err = s.service.Dismiss(s.ctx, &charService.DismissInput{CharacterID: "wizard-1", SpellKey: "mage_armor"})
	s.Require().NoError(err)
	s.Equal(-1, s.stored("wizard-1").ActiveSpell("mage_armor"))

	// dismissing again changes nothing
	_, err = s.service.Dismiss(s.ctx, &charService.DismissInput{CharacterID: "wizard-1", SpellKey: "mage_armor"})
	s.Require().NoError(err)
	s.Equal(int64(3), s.stored("wizard-1").Version)

	s.Equal([]events.EventType{events.OnSpellCast, events.OnSpellDismissed}, s.eventTypes())
}

func (s *ServiceTestSuite) TestCastInstantaneousSavesNothing() {
	s.store(testutils.CreateTestWizard("wizard-1"))

	outcome, err := s.service.Cast(s.ctx, &charService.CastInput{
		CharacterID: "wizard-1",
		SpellKey:    "fireball",
		CasterClass: "wizard",
	})
	s.Require().NoError(err)
	s.True(outcome.Legal)
	s.Equal("5d6", outcome.Spell.Dice.String())
	s.Equal(int64(1), s.stored("wizard-1").Version)

	preview, err := s.service.ResolveCast(s.ctx, &charService.CastInput{CharacterID: "wizard-1", SpellKey: "fireball", CasterClass: "wizard"})
	s.Require().NoError(err)
	s.Equal(outcome.Spell.SaveDC, preview.Spell.SaveDC)
}

func (s *ServiceTestSuite) TestIllegalCast() {
	s.store(testutils.CreateTestFighter("fighter-1"))

	outcome, err := s.service.Cast(s.ctx, &charService.CastInput{CharacterID: "fighter-1", SpellKey: "magic_missile", CasterClass: "wizard"})
	s.Require().NoError(err)
	s.False(outcome.Legal)
	s.NotNil(outcome.Reason)
	s.Empty(s.eventTypes())
}

func (s *ServiceTestSuite) TestInventory() {
	s.store(testutils.CreateTestFighter("fighter-1"))

	added, err := s.service.AddItem(s.ctx, &charService.AddItemInput{CharacterID: "fighter-1", ItemKey: "greatsword", Quantity: 1})
	s.Require().NoError(err)
	swordID := added.ItemID
	s.Equal("id-1", swordID)

	equipped, err := s.service.Equip(s.ctx, &charService.EquipInput{CharacterID: "fighter-1", ItemID: swordID})
	s.Require().NoError(err)
	s.True(equipped.Legal)
	s.Equal(shared.SlotMainHand, equipped.Slot)
	s.True(s.stored("fighter-1").Inventory[0].Equipped)

	// same slot again saves nothing
	version := s.stored("fighter-1").Version
	_, err = s.service.Equip(s.ctx, &charService.EquipInput{CharacterID: "fighter-1", ItemID: swordID})
	s.Require().NoError(err)
	s.Equal(version, s.stored("fighter-1").Version)

	refused, err := s.service.Equip(s.ctx, &charService.EquipInput{CharacterID: "fighter-1", ItemID: swordID, Slot: shared.SlotBody})
	s.Require().NoError(err)
	s.False(refused.Legal)
	s.True(rulerr.IsIllegalSlotAssignment(refused.Reason.Err()))
	s.Equal(version, s.stored("fighter-1").Version)

	_, err = s.service.Unequip(s.ctx, &charService.UnequipInput{CharacterID: "fighter-1", ItemID: swordID})
	s.Require().NoError(err)
	s.False(s.stored("fighter-1").Inventory[0].Equipped)

	_, err = s.service.RemoveItem(s.ctx, &charService.RemoveItemInput{CharacterID: "fighter-1", ItemID: swordID})
	s.Require().NoError(err)
	s.Empty(s.stored("fighter-1").Inventory)

	_, err = s.service.RemoveItem(s.ctx, &charService.RemoveItemInput{CharacterID: "fighter-1", ItemID: swordID})
	s.True(rulerr.IsNotFound(err))

	s.Equal([]events.EventType{
		events.OnItemAdded, events.OnItemEquipped, events.OnItemUnequipped, events.OnItemRemoved,
	}, s.eventTypes())
}

func (s *ServiceTestSuite) TestLevelUp() {
	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.Experience = 3000
	s.store(fighter)

	s.roller.EXPECT().Roll(1, 10, 0).Return(dice.NewResult(10, 0, 7), nil)

	out, err := s.service.LevelUp(s.ctx, &charService.LevelUpInput{
		CharacterID: "fighter-1",
		ClassKey:    "fighter",
		Skills:      map[string]int{"spot": 1, "climb": 1},
	})
	s.Require().NoError(err)
	s.True(out.Committed)
	s.Equal(3, out.NewLevel)
	s.Equal(7, out.HitDieRoll)

	saved := s.stored("fighter-1")
	s.Equal(3, saved.Level())
	s.Equal(29, saved.HitPoints.Current)
	s.Equal(1, saved.Skills["spot"].Ranks)
	s.Equal([]events.EventType{events.OnLevelUp}, s.eventTypes())
}

func (s *ServiceTestSuite) TestLevelUpDryRun() {
	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.Experience = 3000
	s.store(fighter)

	out, err := s.service.LevelUp(s.ctx, &charService.LevelUpInput{
		CharacterID: "fighter-1",
		ClassKey:    "fighter",
		HitDieRoll:  4,
		Skills:      map[string]int{"climb": 1, "jump": 1, "swim": 1},
		DryRun:      true,
	})
	s.Require().NoError(err)
	s.False(out.Committed)
	s.Equal(3, out.Character.Level())

	saved := s.stored("fighter-1")
	s.Equal(2, saved.Level())
	s.Equal(int64(1), saved.Version)
	s.Empty(s.eventTypes())
}

func (s *ServiceTestSuite) TestLevelUpMissingChoices() {
	fighter := testutils.CreateTestFighter("fighter-1")
	fighter.Experience = 3000
	s.store(fighter)

	_, err := s.service.LevelUp(s.ctx, &charService.LevelUpInput{
		CharacterID: "fighter-1",
		ClassKey:    "fighter",
		HitDieRoll:  5,
		Skills:      map[string]int{"climb": 1},
	})
	s.Require().Error(err)
	s.True(rulerr.IsInvalidTransition(err), "one skill point left unspent")
	s.Equal(2, s.stored("fighter-1").Level())

	// level 4 needs a feat
	fighter4 := testutils.CreateTestFighter("fighter-2")
	fighter4.Experience = 6000
	fighter4.Classes = []character.ClassLevel{{Class: "fighter", Level: 3}}
	fighter4.HitPoints.Rolls = []int{10, 6, 5}
	s.store(fighter4)

	_, err = s.service.LevelUp(s.ctx, &charService.LevelUpInput{
		CharacterID: "fighter-2",
		ClassKey:    "fighter",
		HitDieRoll:  5,
		Skills:      map[string]int{"climb": 1, "swim": 2},
		Ability:     shared.AttributeStrength,
	})
	s.Require().Error(err)
	s.True(rulerr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestAwardExperience() {
	s.store(testutils.CreateTestFighter("fighter-1"))

	out, err := s.service.AwardExperience(s.ctx, &charService.AwardExperienceInput{CharacterID: "fighter-1", Amount: 2000})
	s.Require().NoError(err)
	s.Equal(3000, out.Character.Experience)
	s.Equal(3000, s.stored("fighter-1").Experience)

	_, err = s.service.AwardExperience(s.ctx, &charService.AwardExperienceInput{CharacterID: "fighter-1"})
	s.True(rulerr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestDeriveAll() {
	s.store(testutils.CreateTestWizard("b-wizard"))
	s.store(testutils.CreateTestFighter("a-fighter"))
	s.store(testutils.CreateTestCharacter("c-commoner", "Commoner"))

	outs, err := s.service.DeriveAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(outs, 3)

	ids := make([]string, 0, len(outs))
	for _, out := range outs {
		ids = append(ids, out.Character.ID)
		s.Equal(out.Character.Level(), out.Derived.Level)
	}
	s.Equal([]string{"a-fighter", "b-wizard", "c-commoner"}, ids)
}

func (s *ServiceTestSuite) TestDeleteCharacter() {
	s.store(testutils.CreateTestFighter("fighter-1"))

	s.Require().NoError(s.service.DeleteCharacter(s.ctx, "fighter-1"))
	_, err := s.service.GetCharacter(s.ctx, "fighter-1")
	s.True(rulerr.IsNotFound(err))

	s.True(rulerr.IsNotFound(s.service.DeleteCharacter(s.ctx, "fighter-1")))
	s.Equal([]events.EventType{events.OnCharacterDeleted}, s.eventTypes())
}

func (s *ServiceTestSuite) TestUnknownCharacter() {
	_, err := s.service.GrantFeat(s.ctx, &charService.FeatInput{CharacterID: "missing", FeatKey: "dodge"})
	s.True(rulerr.IsNotFound(err))

	_, err = s.service.GetCharacter(s.ctx, "")
	s.True(rulerr.IsInvalidArgument(err))
}
