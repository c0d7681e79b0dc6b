// Package dice provides the randomness abstraction and roll-result types
// used by initiative and any other tabletop roll.
package dice

import "fmt"

// RollResult is the audit trail for one evaluated dice expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // expression as written, e.g. "d20"
	Dice       []int  // kept die faces before the modifier
	Modifier   int    // flat modifier, may be negative
}

// Total returns the sum of the kept dice plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll for logs and GM screens:
//
//	"d20 → [17] +2 = 19"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String called with empty Expression")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
