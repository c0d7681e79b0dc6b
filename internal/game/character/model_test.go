package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/tabletop/internal/game/character"
	"github.com/cory-johannsen/tabletop/internal/game/combat"
)

func TestCharacter_SnapshotUsesDexterity(t *testing.T) {
	chars := []*character.Character{
		{ID: 1, Name: "Ilsa", Abilities: character.AbilityScores{Dexterity: 16}},
		{ID: 2, Name: "Brom", Abilities: character.AbilityScores{Dexterity: 8}},
	}
	assert.Equal(t,
		[]combat.Ref{{ID: 1, Dexterity: 16}, {ID: 2, Dexterity: 8}},
		combat.Snapshot(chars),
	)
}
