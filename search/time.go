package search

import (
	"time"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/position"
)

// effectivelyInfinite stands in for "no clock given" — long enough that
// depth or an external stop is what actually ends the search.
const effectivelyInfinite = 365 * 24 * time.Hour

// ClockArgs carries the subset of UCI "go" arguments that feed time
// budgeting: explicit movetime, or remaining clock plus increment for
// both sides.
type ClockArgs struct {
	Movetime    time.Duration
	WTime, WInc time.Duration
	BTime, BInc time.Duration
}

// MovetimeFromArgs computes how long to spend on this move, mirroring
// the teacher's TimeControl.thinkingTime shape but following spec's
// exact formula: an explicit movetime wins outright; otherwise estimate
// moves-left as max(50-fullmove, 12), apply a 0.7 safety factor to
// time/movesLeft+inc, and cap at 60% of the remaining clock.
func MovetimeFromArgs(pos *position.Position, args ClockArgs) time.Duration {
	if args.Movetime > 0 {
		return args.Movetime
	}

	var clock, inc time.Duration
	if pos.Turn == board.White {
		clock, inc = args.WTime, args.WInc
	} else {
		clock, inc = args.BTime, args.BInc
	}
	if clock <= 0 {
		return effectivelyInfinite
	}

	movesLeft := 50 - pos.FullMoveNumber
	if movesLeft < 12 {
		movesLeft = 12
	}

	perMove := clock/time.Duration(movesLeft) + inc
	budget := time.Duration(float64(perMove) * 0.7)

	cap := time.Duration(float64(clock) * 0.6)
	if budget > cap {
		budget = cap
	}
	if budget < 0 {
		budget = 0
	}
	return budget
}
