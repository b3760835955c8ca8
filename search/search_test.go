package search

import (
	"testing"
	"time"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/movegen"
	"github.com/phuang1024/swordfish/position"
)

func mustFEN(t *testing.T, fen string) *position.Position {
	t.Helper()
	pos, err := position.ParseFEN(board.NewZobristKeys(1), fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mustFEN(t, "8/8/8/8/4k3/4q3/8/4K3 b - - 0 1")
	s := NewSearcher(NewTT(4))
	move, score := s.Search(pos, Limits{Depth: 3}, nil)

	if move.IsNull() {
		t.Fatalf("expected a move, got the null move")
	}
	if !isMateScore(score) || score <= 0 {
		t.Fatalf("score = %d, want a positive mate score (black delivers mate)", score)
	}

	child := pos.Clone()
	child.Push(move)
	moves, attacked := movegen.Legal(child)
	if len(moves) != 0 {
		t.Fatalf("move %v did not deliver mate: %d legal moves remain", move, len(moves))
	}
	kingBB := child.ByPiece(board.White, board.King)
	if kingBB == 0 || !attacked.Has(kingBB.AsSquare()) {
		t.Fatalf("move %v did not leave the white king in check", move)
	}
}

func TestSearchReturnsLegalMoveUnderExpiredDeadline(t *testing.T) {
	// Even with a deadline that is already past by the time Search
	// starts, it must return a playable root move rather than the null
	// move: bestMove is seeded from the legal root moves before the
	// iterative deepening loop runs, so a cancelled early iteration can
	// never leave it unset.
	pos := position.NewStandard(board.NewZobristKeys(1))
	s := NewSearcher(NewTT(4))
	move, _ := s.Search(pos, Limits{Movetime: time.Nanosecond}, nil)
	if move.IsNull() {
		t.Fatalf("expected a legal root move, got the null move")
	}
	legal, _ := movegen.Legal(pos)
	found := false
	for _, m := range legal {
		if m == move {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("move %v is not among the legal root moves %v", move, legal)
	}
}

func TestSearchFromStartReturnsLegalMove(t *testing.T) {
	pos := position.NewStandard(board.NewZobristKeys(1))
	s := NewSearcher(NewTT(4))
	move, _ := s.Search(pos, Limits{Depth: 3}, nil)
	if move.IsNull() {
		t.Fatalf("expected a legal opening move, got the null move")
	}
}

func TestSearchReportsProgressPerDepth(t *testing.T) {
	pos := position.NewStandard(board.NewZobristKeys(1))
	s := NewSearcher(NewTT(4))
	var depths []int
	s.Search(pos, Limits{Depth: 3}, func(depth int, score int32, nodes uint64, elapsed time.Duration, pv []board.Move) {
		depths = append(depths, depth)
	})
	if len(depths) != 3 {
		t.Fatalf("expected progress callbacks for depths 1..3, got %v", depths)
	}
	for i, d := range depths {
		if d != i+1 {
			t.Fatalf("progress callback order = %v, want 1,2,3", depths)
		}
	}
}

func TestSearchNullMovePruningKeepsAWinningLine(t *testing.T) {
	// White is up a whole rook with an open position; null-move pruning
	// should cut the search down without losing the winning evaluation.
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	s := NewSearcher(NewTT(4))
	move, score := s.Search(pos, Limits{Depth: 4}, nil)
	if move.IsNull() {
		t.Fatalf("expected a move, got the null move")
	}
	if score <= 0 {
		t.Fatalf("score = %d, want a clearly winning score for White", score)
	}
}

func TestSearchPawnOnlyEndgameStillFindsLegalMove(t *testing.T) {
	// A bare king-and-pawn ending: null-move pruning must be suppressed
	// here (no minor/major piece for the side to move) or the search
	// could mis-evaluate a zugzwang position.
	pos := mustFEN(t, "8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	s := NewSearcher(NewTT(4))
	move, _ := s.Search(pos, Limits{Depth: 4}, nil)
	if move.IsNull() {
		t.Fatalf("expected a legal move in a king-and-pawn ending")
	}
}

func TestSearchFindsFreeQueenCapture(t *testing.T) {
	// Black's queen on d5 can take White's undefended queen on h5 along
	// the open fifth rank.
	pos := mustFEN(t, "4k3/8/8/3q3Q/8/8/8/4K3 b - - 0 1")
	s := NewSearcher(NewTT(4))
	move, score := s.Search(pos, Limits{Depth: 1}, nil)
	if move.From != board.SquareD5 || move.To != board.SquareH5 {
		t.Fatalf("move = %v, want d5h5 capturing the hanging queen", move)
	}
	if score <= 0 {
		t.Fatalf("score = %d, want a positive score: black wins a whole queen", score)
	}
}
