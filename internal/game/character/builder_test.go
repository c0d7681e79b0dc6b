package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// constSource always returns v.
type constSource int

func (c constSource) Intn(n int) int { return int(c) % n }

func TestRollAbilityScores_KeepsHighestThree(t *testing.T) {
	scores, err := character.RollAbilityScores(constSource(5)) // every die shows 6
	require.NoError(t, err)
	assert.Equal(t, character.AbilityScores{
		Strength: 18, Dexterity: 18, Constitution: 18,
		Intelligence: 18, Wisdom: 18, Charisma: 18,
	}, scores)
}

func TestProperty_RollAbilityScores_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		scores, err := character.RollAbilityScores(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		require.NoError(rt, err)
		for _, s := range []int{scores.Strength, scores.Dexterity, scores.Constitution,
			scores.Intelligence, scores.Wisdom, scores.Charisma} {
			assert.GreaterOrEqual(rt, s, 3)
			assert.LessOrEqual(rt, s, 18)
		}
	})
}

func TestBuild(t *testing.T) {
	c, err := character.Build(7, "  Ilsa ", constSource(0))
	require.NoError(t, err)
	assert.Equal(t, "Ilsa", c.Name)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, 3, c.Abilities.Dexterity)
	assert.Zero(t, c.ID)
}

func TestBuild_Rejects(t *testing.T) {
	_, err := character.Build(7, "   ", constSource(0))
	assert.Error(t, err)
	_, err = character.Build(0, "Ilsa", constSource(0))
	assert.Error(t, err)
	_, err = character.Build(7, "Ilsa", nil)
	assert.Error(t, err)
}

func TestRollAbilityScores_LogsThroughRoller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := character.RollAbilityScores(dice.NewLoggedRoller(constSource(2), zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 6)
	assert.Equal(t, "4d6kh3", entries[0].ContextMap()["expression"])
}
