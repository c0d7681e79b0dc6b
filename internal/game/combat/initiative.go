package combat

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// InitiativeRoll is one participant's initiative result.
type InitiativeRoll struct {
	Turn Turn
	// Roll is the d20 plus dexterity modifier as drawn.
	Roll dice.RollResult
	// Total is Roll.Total() after collisions were bumped upward.
	Total int
}

// RollInitiative rolls d20 + dexterity modifier for every character, then
// every NPC, each in list order. A total that collides with one already
// assigned is raised by 1 until it is free, so later rollers win ties.
//
// Precondition: src must be non-nil.
// Postcondition: len(result) == len(characters)+len(npcs); totals are
// pairwise distinct; result is sorted by Total descending.
func RollInitiative(characters, npcs []Ref, src dice.Source) ([]InitiativeRoll, error) {
	if src == nil {
		return nil, fmt.Errorf("rolling initiative: nil dice source")
	}

	rolls := make([]InitiativeRoll, 0, len(characters)+len(npcs))
	taken := make(map[int]bool, cap(rolls))

	roll := func(ref Ref, kind Kind) error {
		res, err := dice.RollWith(dice.D20.WithModifier(AbilityMod(ref.Dexterity)), src)
		if err != nil {
			return fmt.Errorf("rolling initiative for %s#%d: %w", kind, ref.ID, err)
		}
		total := res.Total()
		for taken[total] {
			total++
		}
		taken[total] = true
		rolls = append(rolls, InitiativeRoll{Turn: Turn{ID: ref.ID, Kind: kind}, Roll: res, Total: total})
		return nil
	}

	for _, ref := range characters {
		if err := roll(ref, KindCharacter); err != nil {
			return nil, err
		}
	}
	for _, ref := range npcs {
		if err := roll(ref, KindNPC); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(rolls, func(a, b InitiativeRoll) int { return b.Total - a.Total })
	return rolls, nil
}

// Order extracts the turn sequence from rolls, preserving their order.
func Order(rolls []InitiativeRoll) []Turn {
	seq := make([]Turn, len(rolls))
	for i, r := range rolls {
		seq[i] = r.Turn
	}
	return seq
}
