package combat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/cory-johannsen/tabletop/internal/game/dice"
)

// ErrCorruptRecord is wrapped by every error reporting a stored combat
// whose fields contradict each other.
var ErrCorruptRecord = errors.New("corrupt combat record")

// Record is the flat, persistable form of a Combat. Ref and Turn encode as
// two-element arrays: [id, dexterity] and [id, "kind"].
type Record struct {
	SceneID      int64  `json:"scene_id"`
	Active       bool   `json:"active"`
	Characters   []Ref  `json:"characters"`
	NPCs         []Ref  `json:"npcs"`
	TurnSequence []Turn `json:"turn_sequence"`
	TurnIndex    int    `json:"turn_index"`
}

// Record returns the persistable form of c. List fields are never nil, so
// a record and its decoded text compare equal.
func (c *Combat) Record() Record {
	return Record{
		SceneID:      c.SceneID,
		Active:       c.active,
		Characters:   nonNil(c.Characters),
		NPCs:         nonNil(c.NPCs),
		TurnSequence: nonNil(c.sequence),
		TurnIndex:    c.turnIndex,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

// FromRecord rebuilds a Combat. A supplied turn sequence is trusted after
// an integrity check. An active record with no turn sequence (nil) is
// rolled fresh from its roster, which requires src.
func FromRecord(rec Record, src dice.Source) (*Combat, error) {
	c := &Combat{
		SceneID:    rec.SceneID,
		Characters: slices.Clone(rec.Characters),
		NPCs:       slices.Clone(rec.NPCs),
	}

	if rec.TurnSequence == nil {
		if rec.TurnIndex != 0 {
			return nil, fmt.Errorf("%w: turn_index %d without a turn sequence", ErrCorruptRecord, rec.TurnIndex)
		}
		if rec.Active {
			if _, err := c.Activate(src); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	if err := checkSequence(rec); err != nil {
		return nil, err
	}
	c.active = rec.Active
	if len(rec.TurnSequence) > 0 {
		c.sequence = slices.Clone(rec.TurnSequence)
	}
	c.turnIndex = rec.TurnIndex
	return c, nil
}

func checkSequence(rec Record) error {
	seq := rec.TurnSequence
	if !rec.Active {
		if len(seq) != 0 || rec.TurnIndex != 0 {
			return fmt.Errorf("%w: inactive combat carries %d turns at index %d", ErrCorruptRecord, len(seq), rec.TurnIndex)
		}
		return nil
	}

	if want := len(rec.Characters) + len(rec.NPCs); len(seq) != want {
		return fmt.Errorf("%w: %d turns for %d participants", ErrCorruptRecord, len(seq), want)
	}
	if len(seq) == 0 {
		if rec.TurnIndex != 0 {
			return fmt.Errorf("%w: turn_index %d in empty sequence", ErrCorruptRecord, rec.TurnIndex)
		}
		return nil
	}
	if rec.TurnIndex < 0 || rec.TurnIndex >= len(seq) {
		return fmt.Errorf("%w: turn_index %d out of range [0,%d)", ErrCorruptRecord, rec.TurnIndex, len(seq))
	}

	pending := make(map[Turn]int, len(seq))
	for _, r := range rec.Characters {
		pending[Turn{ID: r.ID, Kind: KindCharacter}]++
	}
	for _, r := range rec.NPCs {
		pending[Turn{ID: r.ID, Kind: KindNPC}]++
	}
	for _, t := range seq {
		if !t.Kind.Valid() {
			return fmt.Errorf("%w: unknown participant kind %q", ErrCorruptRecord, t.Kind)
		}
		if pending[t] == 0 {
			return fmt.Errorf("%w: turn %s has no matching participant", ErrCorruptRecord, t)
		}
		pending[t]--
	}
	return nil
}

// ToText encodes c as JSON text.
func (c *Combat) ToText() ([]byte, error) {
	data, err := json.Marshal(c.Record())
	if err != nil {
		return nil, fmt.Errorf("encoding combat: %w", err)
	}
	return data, nil
}

// FromText decodes text produced by ToText. Unknown fields and anything
// after the record are rejected.
// src is only consulted for an active record with no turn sequence.
func FromText(data []byte, src dice.Source) (*Combat, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrCorruptRecord, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after record", ErrCorruptRecord)
	}
	return FromRecord(rec, src)
}

// MarshalJSON encodes r as [id, dexterity].
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{r.ID, int64(r.Dexterity)})
}

// UnmarshalJSON accepts exactly [id, dexterity].
func (r *Ref) UnmarshalJSON(data []byte) error {
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: participant: %v", ErrCorruptRecord, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: participant must be [id, dexterity], got %d values", ErrCorruptRecord, len(pair))
	}
	r.ID, r.Dexterity = pair[0], int(pair[1])
	return nil
}

// MarshalJSON encodes t as [id, "kind"].
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.ID, t.Kind})
}

// UnmarshalJSON accepts exactly [id, "character"|"npc"].
func (t *Turn) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: turn: %v", ErrCorruptRecord, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: turn must be [id, kind], got %d values", ErrCorruptRecord, len(pair))
	}
	var id int64
	if err := json.Unmarshal(pair[0], &id); err != nil {
		return fmt.Errorf("%w: turn id: %v", ErrCorruptRecord, err)
	}
	var kind Kind
	if err := json.Unmarshal(pair[1], &kind); err != nil {
		return fmt.Errorf("%w: turn kind: %v", ErrCorruptRecord, err)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown participant kind %q", ErrCorruptRecord, kind)
	}
	t.ID, t.Kind = id, kind
	return nil
}
