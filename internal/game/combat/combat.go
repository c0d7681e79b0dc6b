// Package combat tracks initiative order and turn progression for the
// active scene of one campaign.
//
// A Combat is plain value state. It performs no I/O and holds no locks;
// callers that share one campaign's Combat across requests must serialize
// their read-modify-write cycles themselves.
package combat

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// Kind distinguishes player characters from NPCs in the turn sequence.
type Kind string

const (
	KindCharacter Kind = "character"
	KindNPC       Kind = "npc"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindCharacter || k == KindNPC
}

// Participant is anything that can take a turn: it needs only an id and a
// dexterity score.
type Participant interface {
	ParticipantID() int64
	DexterityScore() int
}

// Ref is a participant snapshot taken when combat is set up. Later edits
// to the character sheet do not flow back into a running combat.
type Ref struct {
	ID        int64
	Dexterity int
}

// Snapshot copies (id, dexterity) out of each participant at call time.
//
// Postcondition: len(result) == len(ps), in the same order.
func Snapshot[P Participant](ps []P) []Ref {
	refs := make([]Ref, 0, len(ps))
	for _, p := range ps {
		refs = append(refs, Ref{ID: p.ParticipantID(), Dexterity: p.DexterityScore()})
	}
	return refs
}

// Turn is one slot in the initiative order.
type Turn struct {
	ID   int64
	Kind Kind
}

// String returns "character#3" style labels for logs.
func (t Turn) String() string {
	return fmt.Sprintf("%s#%d", t.Kind, t.ID)
}

// Combat is the initiative and turn state of one scene.
//
// Invariant: !active implies an empty sequence and turnIndex == 0.
// Invariant: active implies the sequence holds exactly one turn per entry in
// Characters and NPCs, and 0 <= turnIndex < len(sequence) when non-empty.
type Combat struct {
	// SceneID is the scene this combat belongs to; 0 means none selected.
	SceneID int64
	// Characters are the player character snapshots, in declared order.
	Characters []Ref
	// NPCs are the NPC snapshots, in declared order.
	NPCs []Ref

	active    bool
	sequence  []Turn
	turnIndex int
}

// New returns an inactive combat for sceneID with no participants.
func New(sceneID int64) *Combat {
	return &Combat{SceneID: sceneID}
}

// Active reports whether initiative has been rolled.
func (c *Combat) Active() bool { return c.active }

// TurnIndex returns the position of the current turn in the sequence.
func (c *Combat) TurnIndex() int { return c.turnIndex }

// TurnSequence returns a copy of the initiative order, highest first.
func (c *Combat) TurnSequence() []Turn { return slices.Clone(c.sequence) }

// Current returns whose turn it is. ok is false when the sequence is empty.
func (c *Combat) Current() (turn Turn, ok bool) {
	if len(c.sequence) == 0 {
		return Turn{}, false
	}
	return c.sequence[c.turnIndex], true
}

// SetCharacters replaces the character snapshot. A running turn order is
// left untouched; the new roster takes effect on the next Activate.
func (c *Combat) SetCharacters(refs []Ref) {
	c.Characters = slices.Clone(refs)
}

// SetNPCs replaces the NPC snapshot. Like SetCharacters it does not reorder
// an active combat.
func (c *Combat) SetNPCs(refs []Ref) {
	c.NPCs = slices.Clone(refs)
}

// Activate rolls initiative for the current roster, replaces the turn
// sequence and rewinds to the first turn. Calling it on an active combat
// rerolls.
//
// Precondition: src must be non-nil.
// Postcondition: on success Active() is true and the returned rolls are in
// turn order.
func (c *Combat) Activate(src dice.Source) ([]InitiativeRoll, error) {
	rolls, err := RollInitiative(c.Characters, c.NPCs, src)
	if err != nil {
		return nil, err
	}
	c.sequence = Order(rolls)
	c.turnIndex = 0
	c.active = true
	return rolls, nil
}

// Deactivate ends combat. The turn order is discarded.
func (c *Combat) Deactivate() {
	c.active = false
	c.sequence = nil
	c.turnIndex = 0
}

// AdvanceTurn moves to the next turn, wrapping after the last. With an
// empty sequence the index stays at 0.
func (c *Combat) AdvanceTurn() {
	if len(c.sequence) == 0 {
		c.turnIndex = 0
		return
	}
	c.turnIndex = (c.turnIndex + 1) % len(c.sequence)
}

// AbilityMod computes the ability modifier floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
