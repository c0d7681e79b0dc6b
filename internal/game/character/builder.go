package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// abilityRoll is the classic 4d6-drop-lowest generation roll.
var abilityRoll = dice.MustParse("4d6kh3")

// RollAbilityScores rolls 4d6kh3 for each ability in the order
// strength, dexterity, constitution, intelligence, wisdom, charisma.
//
// Precondition: src must be non-nil.
// Postcondition: every score is in [3, 18].
func RollAbilityScores(src dice.Source) (AbilityScores, error) {
	var scores [6]int
	for i := range scores {
		r, err := dice.RollWith(abilityRoll, src)
		if err != nil {
			return AbilityScores{}, fmt.Errorf("rolling ability %d: %w", i, err)
		}
		scores[i] = r.Total()
	}
	return AbilityScores{
		Strength:     scores[0],
		Dexterity:    scores[1],
		Constitution: scores[2],
		Intelligence: scores[3],
		Wisdom:       scores[4],
		Charisma:     scores[5],
	}, nil
}

// Build constructs an unsaved character for userID with rolled abilities.
//
// Precondition: name must be non-empty after trimming; src must be non-nil.
// Postcondition: returns a Character ready for persistence, or an error.
func Build(userID int64, name string, src dice.Source) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("character owner id must be > 0, got %d", userID)
	}
	abilities, err := RollAbilityScores(src)
	if err != nil {
		return nil, err
	}
	return &Character{UserID: userID, Name: name, Abilities: abilities}, nil
}
