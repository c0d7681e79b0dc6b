package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tabletop/internal/campaign"
	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/storage/postgres"
	"github.com/cory-johannsen/tabletop/internal/testutil"
)

func uniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

type repos struct {
	pool       *pgxpool.Pool
	campaigns  *postgres.CampaignRepository
	characters *postgres.CharacterRepository
	npcs       *postgres.SceneNPCRepository
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)
	return repos{
		pool:       pool,
		campaigns:  postgres.NewCampaignRepository(pool, dice.NewSeededSource(1)),
		characters: postgres.NewCharacterRepository(pool),
		npcs:       postgres.NewSceneNPCRepository(pool),
	}
}

func (r repos) newCampaign(t *testing.T) *campaign.Campaign {
	t.Helper()
	c, err := r.campaigns.Create(context.Background(), uniqueName("campaign"), 1)
	require.NoError(t, err)
	return c
}

func (r repos) newCharacter(t *testing.T, dex int) *character.Character {
	t.Helper()
	c, err := r.characters.Create(context.Background(), &character.Character{
		UserID: 7,
		Name:   uniqueName("hero"),
		Abilities: character.AbilityScores{
			Strength: 10, Dexterity: dex, Constitution: 10,
			Intelligence: 10, Wisdom: 10, Charisma: 10,
		},
	})
	require.NoError(t, err)
	return c
}
