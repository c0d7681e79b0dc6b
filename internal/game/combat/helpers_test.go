package combat_test

import (
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tabletop/internal/game/combat"
)

// faceSource hands out the given d20 faces in order, then repeats the last.
type faceSource struct {
	faces []int
	i     int
}

func faces(f ...int) *faceSource { return &faceSource{faces: f} }

func (s *faceSource) Intn(n int) int {
	f := s.faces[s.i]
	if s.i < len(s.faces)-1 {
		s.i++
	}
	return (f - 1) % n
}

// stubCharacter is a minimal Participant.
type stubCharacter struct {
	id  int64
	dex int
}

func (s stubCharacter) ParticipantID() int64 { return s.id }
func (s stubCharacter) DexterityScore() int  { return s.dex }

// drawRefs draws n participant refs with ids starting at base.
func drawRefs(rt *rapid.T, label string, base int64, maxN int) []combat.Ref {
	n := rapid.IntRange(0, maxN).Draw(rt, label+"_count")
	refs := make([]combat.Ref, n)
	for i := range refs {
		refs[i] = combat.Ref{
			ID:        base + int64(i),
			Dexterity: rapid.IntRange(3, 20).Draw(rt, label+"_dex"),
		}
	}
	return refs
}
