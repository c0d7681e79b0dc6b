package dice

import (
	"fmt"
	"slices"
)

// D20 is the single twenty-sided die used for initiative and checks.
var D20 = MustParse("d20")

// Roll evaluates expr against src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) is expr.KeepHighest when set, else expr.Count.
func Roll(expr Expression, src Source) (RollResult, error) {
	if src == nil {
		return RollResult{}, fmt.Errorf("dice: nil source rolling %q", expr.Raw)
	}
	if expr.Count < 1 || expr.Sides < 2 {
		return RollResult{}, fmt.Errorf("dice: expression %q was not produced by Parse", expr.Raw)
	}

	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		kept = slices.Clone(rolled)
		slices.SortFunc(kept, func(a, b int) int { return b - a })
		kept = kept[:expr.KeepHighest]
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Modifier:   expr.Modifier,
	}, nil
}

// RollExpr parses and rolls expr in one call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// ExpressionRoller rolls whole expressions. *Roller implements it so each
// roll is logged with its expression and total.
type ExpressionRoller interface {
	Roll(expr Expression) (RollResult, error)
}

// RollWith rolls expr through src's own Roll when src is an
// ExpressionRoller, and through Roll(expr, src) otherwise.
//
// Precondition: src must be non-nil.
func RollWith(expr Expression, src Source) (RollResult, error) {
	if er, ok := src.(ExpressionRoller); ok {
		return er.Roll(expr)
	}
	return Roll(expr, src)
}
