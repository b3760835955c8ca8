package search

import (
	"sort"
	"time"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/eval"
	"github.com/phuang1024/swordfish/movegen"
	"github.com/phuang1024/swordfish/position"
)

// infinity is a window bound wide enough that it never itself clips a
// real score, including mate scores.
const infinity = eval.Mate + 1

// Limits bounds one search: depth, movetime, or both. A zero value
// searches to DefaultMaxDepth with no time limit.
type Limits struct {
	Depth    int
	Movetime time.Duration
}

// DefaultMaxDepth is used when Limits.Depth is unset.
const DefaultMaxDepth = 64

// initialAspirationWindow is the half-width used once a previous
// iteration's score is available to center on.
const initialAspirationWindow = 25

// nullMoveDepthLimit disables null-move pruning too close to the leaves,
// where the reduced search it relies on has nothing left to prune.
const nullMoveDepthLimit = 1

// nullMoveReduction is the fixed depth reduction (R) applied to the
// verification search after a null move.
const nullMoveReduction = 2

// hasNonPawnMaterial reports whether side has any knight, bishop, rook or
// queen left — the zugzwang guard for null-move pruning. Without it, NMP
// can return a false fail-high in king-and-pawn endings, where passing
// really can be the only good move.
func hasNonPawnMaterial(pos *position.Position, side board.Color) bool {
	return pos.ByPiece(side, board.Knight)|pos.ByPiece(side, board.Bishop)|
		pos.ByPiece(side, board.Rook)|pos.ByPiece(side, board.Queen) != 0
}

// ProgressFunc is called after each completed iterative-deepening
// iteration, ahead of UCI's "info depth ..." line.
type ProgressFunc func(depth int, score int32, nodes uint64, elapsed time.Duration, pv []board.Move)

// Searcher runs one negamax search at a time. It is not safe for
// concurrent use by more than one goroutine — the spec's concurrency
// model is single-threaded cooperative.
type Searcher struct {
	TT    *TT
	Nodes uint64

	deadline    time.Time
	hasDeadline bool
	aborted     bool
}

// NewSearcher builds a Searcher backed by tt. tt is owned by the caller
// and may be reused across many searches.
func NewSearcher(tt *TT) *Searcher {
	return &Searcher{TT: tt}
}

// Search runs iterative deepening from pos and returns the best move and
// its score (from the side-to-move's perspective) found by the last
// fully completed iteration. progress, if non-nil, is called once per
// completed depth.
func (s *Searcher) Search(pos *position.Position, limits Limits, progress ProgressFunc) (board.Move, int32) {
	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	start := time.Now()
	s.Nodes = 0
	s.aborted = false
	if limits.Movetime > 0 {
		s.deadline = start.Add(limits.Movetime)
		s.hasDeadline = true
	} else {
		s.hasDeadline = false
	}
	s.TT.NewGeneration()

	var bestMove board.Move
	var bestEval int32
	var bestPV []board.Move

	// Seed bestMove with some legal root move before the iterative
	// deepening loop runs: if movetime is tight enough to abort during
	// depth 1 itself, the driver still has a playable move to return
	// instead of the null move.
	if rootMoves, _ := movegen.Legal(pos); len(rootMoves) > 0 {
		bestMove = rootMoves[0]
	}

	for depth := 1; depth <= maxDepth; depth++ {
		var alpha, beta int32 = -infinity, infinity
		window := int32(initialAspirationWindow)
		if depth > 1 {
			alpha, beta = bestEval-window, bestEval+window
		}

		var score int32
		var pv []board.Move
		for {
			score, pv = s.negamax(pos, alpha, beta, depth, 0, true, false)
			if s.aborted {
				break
			}
			if score <= alpha {
				window *= 2
				alpha = bestEval - window
				continue
			}
			if score >= beta {
				window *= 2
				beta = bestEval + window
				continue
			}
			break
		}

		if s.aborted {
			break
		}

		bestEval = score
		if len(pv) > 0 {
			bestMove = pv[0]
			bestPV = pv
		}

		if progress != nil {
			progress(depth, score, s.Nodes, time.Since(start), bestPV)
		}

		if isMateScore(score) {
			break
		}
	}

	return bestMove, bestEval
}

func isMateScore(score int32) bool {
	return score >= mateThreshold || score <= -mateThreshold
}

func (s *Searcher) timeUp() bool {
	if !s.hasDeadline {
		return false
	}
	return time.Now().After(s.deadline)
}

// negamax is the unified search routine: root, interior, and quiescence
// nodes all flow through here, distinguished by isRoot and isQuiesce.
// Returns a score clamped to [alpha, beta] (fail-hard) and the principal
// variation from this node down.
func (s *Searcher) negamax(pos *position.Position, alpha, beta int32, depthBudget, ply int, isRoot, isQuiesce bool) (int32, []board.Move) {
	s.Nodes++

	// Time is checked only with enough depth left that the overhead of
	// checking doesn't dominate leaf nodes.
	if !isRoot && depthBudget > 3 && s.Nodes&1023 == 0 && s.timeUp() {
		s.aborted = true
		return alpha, nil
	}

	moves, attacked := movegen.Legal(pos)
	var ownKing board.Square
	if kingBB := pos.ByPiece(pos.Turn, board.King); kingBB != 0 {
		ownKing = kingBB.AsSquare()
	}
	staticEval := eval.Evaluate(pos, len(moves), attacked, ownKing, ply)
	if pos.Turn == board.Black {
		staticEval = -staticEval
	}

	if len(moves) == 0 {
		return clamp(staticEval, alpha, beta), nil
	}

	key := pos.Zobrist()
	var ttMove board.Move
	if entry, ok := s.TT.Probe(key); ok {
		ttMove = entry.Best
		if int(entry.Depth) >= depthBudget || (isQuiesce && entry.Bound == Quiescence) {
			stored := FromTT(entry.Eval, ply)
			switch entry.Bound {
			case Exact:
				return clamp(stored, alpha, beta), []board.Move{entry.Best}
			case FailLow:
				if stored <= alpha {
					return alpha, nil
				}
			case FailHigh:
				if stored >= beta {
					return beta, nil
				}
			case Quiescence:
				if isQuiesce {
					return clamp(stored, alpha, beta), nil
				}
			}
		}
	}

	if depthBudget <= 0 && !isQuiesce {
		return s.negamax(pos, alpha, beta, 0, ply, false, true)
	}

	// Null-move pruning: let the opponent move twice in a row and see if
	// the position is still good enough to fail high. Guarded against
	// zugzwang the way the teacher guards it (skip when the side to move
	// has no minor/major piece left, i.e. a pawn-only or bare-king
	// ending, where passing is often the only good move).
	inCheck := attacked.Has(ownKing)
	if !isRoot && !isQuiesce && !inCheck && depthBudget > nullMoveDepthLimit &&
		alpha > -mateThreshold && beta < mateThreshold &&
		hasNonPawnMaterial(pos, pos.Turn) {
		child := pos.Clone()
		child.PushNull()
		reduction := nullMoveReduction
		if depthBudget-1-reduction < 0 {
			reduction = depthBudget - 1
		}
		score, _ := s.negamax(child, -beta, -beta+1, depthBudget-1-reduction, ply+1, false, false)
		score = -score
		if s.aborted {
			return alpha, nil
		}
		if score >= beta {
			return beta, nil
		}
	}

	if isQuiesce {
		if staticEval >= beta {
			return beta, nil
		}
		if staticEval > alpha {
			alpha = staticEval
		}
		moves = captureMoves(pos, moves)
	}

	orderMoves(moves, ttMove, pos)

	var bestPV []board.Move
	var bestMove board.Move
	improved := false

	for _, m := range moves {
		if isQuiesce && !deltaWorthTrying(pos, m, alpha, staticEval) {
			continue
		}

		child := pos.Clone()
		child.Push(m)

		childDepth := depthBudget - 1
		if isQuiesce {
			childDepth = 0
		}
		score, childPV := s.negamax(child, -beta, -alpha, childDepth, ply+1, false, isQuiesce)
		score = -score
		if s.aborted {
			return alpha, nil
		}

		if score >= beta {
			s.TT.Store(key, int8(depthBudget), ToTT(score, ply), boundFor(isQuiesce, FailHigh), m)
			return beta, nil
		}
		if score > alpha {
			alpha = score
			improved = true
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
	}

	bound := FailLow
	if improved {
		bound = boundFor(isQuiesce, Exact)
	} else {
		bound = boundFor(isQuiesce, FailLow)
	}
	s.TT.Store(key, int8(depthBudget), ToTT(alpha, ply), bound, bestMove)

	return alpha, bestPV
}

func boundFor(isQuiesce bool, b Bound) Bound {
	if isQuiesce {
		return Quiescence
	}
	return b
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// captureMoves filters moves down to those that capture a piece
// (including en passant, which lands on an empty square so it needs the
// explicit EP check).
func captureMoves(pos *position.Position, moves []board.Move) []board.Move {
	out := moves[:0:0]
	for _, m := range moves {
		isEP := pos.PieceAt(m.From).Figure() == board.Pawn && m.To == pos.EP && pos.EP != board.NoSquare
		if pos.PieceAt(m.To) != board.NoPiece || isEP {
			out = append(out, m)
		}
	}
	return out
}

// deltaWorthTrying implements quiescence delta pruning: a capture whose
// best-case material swing cannot raise alpha above the static
// evaluation is skipped rather than searched.
func deltaWorthTrying(pos *position.Position, m board.Move, alpha, staticEval int32) bool {
	const deltaMargin = 200
	captured := pos.PieceAt(m.To)
	gain := int32(0)
	if captured != board.NoPiece {
		gain = figureValue(captured.Figure())
	} else if pos.PieceAt(m.From).Figure() == board.Pawn && m.To == pos.EP && pos.EP != board.NoSquare {
		gain = figureValue(board.Pawn)
	}
	if m.Promo != board.NoFigure {
		gain += figureValue(m.Promo) - figureValue(board.Pawn)
	}
	return staticEval+gain+deltaMargin > alpha
}

func figureValue(fig board.Figure) int32 {
	switch fig {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}

// orderMoves sorts moves in place: the TT move first, then captures by
// MVV-LVA (most valuable victim, least valuable attacker), then quiets.
func orderMoves(moves []board.Move, ttMove board.Move, pos *position.Position) {
	score := func(m board.Move) int {
		if m == ttMove {
			return 1 << 20
		}
		victim := pos.PieceAt(m.To)
		if victim == board.NoPiece {
			return 0
		}
		attacker := pos.PieceAt(m.From)
		return 1000 + 10*int(figureValue(victim.Figure())) - int(figureValue(attacker.Figure()))
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return score(moves[i]) > score(moves[j])
	})
}
