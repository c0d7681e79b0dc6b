package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tabletop/internal/campaign"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
	"github.com/cory-johannsen/tabletop/internal/game/npc"
)

func TestEncounter_ServiceOverPostgres(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	tmpl, err := npc.LoadTemplateFromBytes([]byte(goblinYAML))
	require.NoError(t, err)
	lib, err := npc.NewLibrary([]*npc.MonsterTemplate{tmpl})
	require.NoError(t, err)

	svc := campaign.NewService(r.campaigns, r.characters, r.npcs, lib, dice.NewSeededSource(99), zap.NewNop())

	camp := r.newCampaign(t)
	hero := r.newCharacter(t, 16)
	require.NoError(t, r.characters.Enroll(ctx, hero.ID, camp.ID))

	const scene = 77
	goblin, err := svc.SpawnFromTemplate(ctx, scene, "goblin")
	require.NoError(t, err)

	selected, err := svc.SelectScene(ctx, camp.ID, scene)
	require.NoError(t, err)
	assert.Equal(t, []combat.Ref{{ID: hero.ID, Dexterity: 16}}, selected.Characters)
	assert.Equal(t, []combat.Ref{{ID: goblin.ID, Dexterity: 14}}, selected.NPCs)

	started, err := svc.Start(ctx, camp.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []combat.Turn{
		{ID: hero.ID, Kind: combat.KindCharacter},
		{ID: goblin.ID, Kind: combat.KindNPC},
	}, started.TurnSequence())

	turn, ok, err := svc.NextTurn(ctx, camp.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, started.TurnSequence()[1], turn)

	require.NoError(t, svc.End(ctx, camp.ID))
	_, _, err = svc.NextTurn(ctx, camp.ID)
	assert.ErrorIs(t, err, campaign.ErrCombatNotActive)

	require.NoError(t, svc.Reset(ctx, camp.ID))
	cur, err := svc.Current(ctx, camp.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.New(0).Record(), cur.Record())
}
