package combat_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tabletop/internal/game/combat"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

func TestAbilityMod(t *testing.T) {
	tests := []struct{ score, want int }{
		{1, -5}, {3, -4}, {8, -1}, {9, -1}, {10, 0}, {11, 0}, {12, 1}, {14, 2}, {20, 5},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, combat.AbilityMod(tc.score), "score %d", tc.score)
	}
}

func TestAbilityMod_Property_Floor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		score := rapid.IntRange(-30, 50).Draw(rt, "score")
		want := int(math.Floor(float64(score-10) / 2))
		assert.Equal(rt, want, combat.AbilityMod(score))
	})
}

func TestNew_IsInactive(t *testing.T) {
	c := combat.New(0)
	assert.False(t, c.Active())
	assert.Empty(t, c.TurnSequence())
	assert.Equal(t, 0, c.TurnIndex())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestSnapshot_CopiesIDAndDexterity(t *testing.T) {
	chars := []stubCharacter{{id: 1, dex: 14}, {id: 2, dex: 9}}
	refs := combat.Snapshot(chars)
	assert.Equal(t, []combat.Ref{{ID: 1, Dexterity: 14}, {ID: 2, Dexterity: 9}}, refs)

	chars[0].dex = 20
	assert.Equal(t, 14, refs[0].Dexterity, "snapshot must not track later edits")
}

func TestSetCharacters_DoesNotReorderActiveCombat(t *testing.T) {
	c := combat.New(1)
	c.SetCharacters([]combat.Ref{{ID: 1, Dexterity: 10}})
	_, err := c.Activate(faces(10))
	require.NoError(t, err)
	before := c.TurnSequence()

	c.SetCharacters([]combat.Ref{{ID: 7, Dexterity: 18}, {ID: 8, Dexterity: 18}})
	c.SetNPCs([]combat.Ref{{ID: 9, Dexterity: 3}})
	assert.Equal(t, before, c.TurnSequence())
	assert.True(t, c.Active())

	_, err = c.Activate(faces(10))
	require.NoError(t, err)
	assert.Len(t, c.TurnSequence(), 3, "new roster applies on the next activation")
}

func TestActivate_SceneExample(t *testing.T) {
	c := combat.New(5)
	c.SetCharacters([]combat.Ref{{ID: 1, Dexterity: 14}, {ID: 2, Dexterity: 10}})
	c.SetNPCs([]combat.Ref{{ID: 10, Dexterity: 16}})

	rolls, err := c.Activate(dice.NewSeededSource(42))
	require.NoError(t, err)

	assert.True(t, c.Active())
	assert.Len(t, c.TurnSequence(), 3)
	assert.Equal(t, 0, c.TurnIndex())
	seen := map[int]bool{}
	for _, r := range rolls {
		assert.False(t, seen[r.Total], "total %d repeated", r.Total)
		seen[r.Total] = true
	}
}

func TestActivate_NilSource(t *testing.T) {
	c := combat.New(1)
	c.SetCharacters([]combat.Ref{{ID: 1, Dexterity: 10}})
	_, err := c.Activate(nil)
	require.Error(t, err)
	assert.False(t, c.Active())
}

func TestActivate_EmptyRoster(t *testing.T) {
	c := combat.New(3)
	_, err := c.Activate(faces(1))
	require.NoError(t, err)
	assert.True(t, c.Active())
	assert.Empty(t, c.TurnSequence())

	c.AdvanceTurn()
	assert.Equal(t, 0, c.TurnIndex())
}

func TestProperty_Activate_CoversEveryParticipantOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		chars := drawRefs(rt, "chars", 1, 20)
		npcs := drawRefs(rt, "npcs", 1, 20) // ids deliberately overlap with chars
		c := combat.New(1)
		c.SetCharacters(chars)
		c.SetNPCs(npcs)

		_, err := c.Activate(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		require.NoError(rt, err)

		seq := c.TurnSequence()
		require.Len(rt, seq, len(chars)+len(npcs))
		seen := map[combat.Turn]bool{}
		for _, turn := range seq {
			assert.False(rt, seen[turn], "duplicate turn %s", turn)
			seen[turn] = true
		}
		for _, r := range chars {
			assert.True(rt, seen[combat.Turn{ID: r.ID, Kind: combat.KindCharacter}])
		}
		for _, r := range npcs {
			assert.True(rt, seen[combat.Turn{ID: r.ID, Kind: combat.KindNPC}])
		}
		assert.Equal(rt, 0, c.TurnIndex())
	})
}

func TestProperty_Deactivate_ClearsTurnState(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := combat.New(2)
		c.SetCharacters(drawRefs(rt, "chars", 1, 10))
		c.SetNPCs(drawRefs(rt, "npcs", 50, 10))
		_, err := c.Activate(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		require.NoError(rt, err)
		for i := rapid.IntRange(0, 25).Draw(rt, "advances"); i > 0; i-- {
			c.AdvanceTurn()
		}

		c.Deactivate()
		assert.False(rt, c.Active())
		assert.Empty(rt, c.TurnSequence())
		assert.Equal(rt, 0, c.TurnIndex())
	})
}

func TestProperty_AdvanceTurn_WrapsAfterFullRound(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := combat.New(2)
		c.SetCharacters(drawRefs(rt, "chars", 1, 10))
		c.SetNPCs(drawRefs(rt, "npcs", 50, 10))
		_, err := c.Activate(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		require.NoError(rt, err)
		k := len(c.TurnSequence())
		if k == 0 {
			rt.Skip("empty roster")
		}
		for i := rapid.IntRange(0, k-1).Draw(rt, "offset"); i > 0; i-- {
			c.AdvanceTurn()
		}
		start := c.TurnIndex()

		for i := 0; i < k; i++ {
			c.AdvanceTurn()
			assert.GreaterOrEqual(rt, c.TurnIndex(), 0)
			assert.Less(rt, c.TurnIndex(), k)
		}
		assert.Equal(rt, start, c.TurnIndex())
	})
}

func TestAdvanceTurn_CurrentFollowsSequence(t *testing.T) {
	c := combat.New(1)
	c.SetCharacters([]combat.Ref{{ID: 1, Dexterity: 10}, {ID: 2, Dexterity: 10}})
	_, err := c.Activate(faces(5, 15))
	require.NoError(t, err)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, combat.Turn{ID: 2, Kind: combat.KindCharacter}, cur)

	c.AdvanceTurn()
	cur, _ = c.Current()
	assert.Equal(t, combat.Turn{ID: 1, Kind: combat.KindCharacter}, cur)

	c.AdvanceTurn()
	cur, _ = c.Current()
	assert.Equal(t, combat.Turn{ID: 2, Kind: combat.KindCharacter}, cur)
}

func TestAdvanceTurn_InactiveIsNoop(t *testing.T) {
	c := combat.New(0)
	c.AdvanceTurn()
	c.AdvanceTurn()
	assert.Equal(t, 0, c.TurnIndex())
}

func TestTurn_String(t *testing.T) {
	assert.Equal(t, "npc#4", combat.Turn{ID: 4, Kind: combat.KindNPC}.String())
}
