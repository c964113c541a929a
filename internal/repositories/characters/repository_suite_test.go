package characters_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-rules-engine/internal/testutils"
)

// RepositoryTestSuite runs the same behavior checks against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) characters.Repository
	repo    characters.Repository
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo(s.T())
	s.ctx = context.Background()
}

func TestInMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(*testing.T) characters.Repository {
			return characters.NewInMemoryRepository()
		},
	})
}

func TestMiniRedisRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) characters.Repository {
			client, _ := testutils.CreateMiniRedisClient(t)
			repo, err := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
			if err != nil {
				t.Fatal(err)
			}
			return repo
		},
	})
}

func (s *RepositoryTestSuite) TestCreate_Success() {
	char := testutils.CreateTestWizard("char_123")

	err := s.repo.Create(s.ctx, char)
	s.Require().NoError(err)
	s.Equal(int64(1), char.Version)

	got, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal(char, got)
}

func (s *RepositoryTestSuite) TestCreate_DuplicateID() {
	s.Require().NoError(s.repo.Create(s.ctx, testutils.CreateTestFighter("char_123")))

	err := s.repo.Create(s.ctx, testutils.CreateTestFighter("char_123"))
	s.True(rulerr.IsAlreadyExists(err))
}

func (s *RepositoryTestSuite) TestCreate_InvalidInput() {
	s.True(rulerr.IsInvalidArgument(s.repo.Create(s.ctx, nil)))
	s.True(rulerr.IsInvalidArgument(s.repo.Create(s.ctx, testutils.CreateTestFighter(""))))
}

func (s *RepositoryTestSuite) TestCreate_IsolatesData() {
	char := testutils.CreateTestFighter("char_123")
	s.Require().NoError(s.repo.Create(s.ctx, char))

	char.Name = "Modified"
	char.Feats = append(char.Feats, character.FeatInstance{Key: "dodge"})

	got, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal("Valeros", got.Name)
	s.Empty(got.Feats)

	got.Skills["climb"] = character.SkillRanks{Ranks: 99}
	again, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal(5, again.Skills["climb"].Ranks)
}

func (s *RepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, "missing")
	s.True(rulerr.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, "")
	s.True(rulerr.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestUpdate_BumpsVersion() {
	char := testutils.CreateTestFighter("char_123")
	s.Require().NoError(s.repo.Create(s.ctx, char))

	char.Experience = 3000
	s.Require().NoError(s.repo.Update(s.ctx, char))
	s.Equal(int64(2), char.Version)

	got, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal(3000, got.Experience)
	s.Equal(int64(2), got.Version)
}

func (s *RepositoryTestSuite) TestUpdate_StaleVersion() {
	char := testutils.CreateTestFighter("char_123")
	s.Require().NoError(s.repo.Create(s.ctx, char))

	first, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	second, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)

	first.Name = "First"
	s.Require().NoError(s.repo.Update(s.ctx, first))

	second.Name = "Second"
	err = s.repo.Update(s.ctx, second)
	s.True(rulerr.IsConflict(err))
	s.Equal(int64(1), second.Version)

	got, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal("First", got.Name)
}

func (s *RepositoryTestSuite) TestUpdate_NotFound() {
	err := s.repo.Update(s.ctx, testutils.CreateTestFighter("missing"))
	s.True(rulerr.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDelete() {
	s.Require().NoError(s.repo.Create(s.ctx, testutils.CreateTestFighter("char_123")))

	s.Require().NoError(s.repo.Delete(s.ctx, "char_123"))
	_, err := s.repo.Get(s.ctx, "char_123")
	s.True(rulerr.IsNotFound(err))

	s.True(rulerr.IsNotFound(s.repo.Delete(s.ctx, "char_123")))
}

func (s *RepositoryTestSuite) TestList_OrderedByID() {
	for _, id := range []string{"c", "a", "b"} {
		s.Require().NoError(s.repo.Create(s.ctx, testutils.CreateTestFighter(id)))
	}
	s.Require().NoError(s.repo.Delete(s.ctx, "b"))

	list, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("a", list[0].ID)
	s.Equal("c", list[1].ID)
}

func (s *RepositoryTestSuite) TestList_Empty() {
	list, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RepositoryTestSuite) TestConcurrentUpdatesConflict() {
	s.Require().NoError(s.repo.Create(s.ctx, testutils.CreateTestFighter("char_123")))

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			char := testutils.CreateTestFighter("char_123")
			char.Version = 1
			char.Name = fmt.Sprintf("Writer %d", i)
			errs <- s.repo.Update(s.ctx, char)
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(rulerr.IsConflict(err), err.Error())
	}
	s.Equal(1, succeeded)

	got, err := s.repo.Get(s.ctx, "char_123")
	s.Require().NoError(err)
	s.Equal(int64(2), got.Version)
}
