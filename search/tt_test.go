package search

import (
	"testing"

	"github.com/phuang1024/swordfish/board"
)

func TestProbeMissOnEmptyTable(t *testing.T) {
	tt := NewTT(1)
	if _, ok := tt.Probe(12345); ok {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestStoreThenProbeRoundTrips(t *testing.T) {
	tt := NewTT(1)
	move := board.Move{From: board.SquareE2, To: board.SquareE4}
	tt.Store(42, 6, 137, Exact, move)

	entry, ok := tt.Probe(42)
	if !ok {
		t.Fatalf("expected a hit after Store")
	}
	if entry.Eval != 137 || entry.Bound != Exact || entry.Best != move || entry.Depth != 6 {
		t.Fatalf("entry = %+v, want eval=137 bound=Exact move=%v depth=6", entry, move)
	}
}

func TestStoreRejectsShallowerWorseBoundSameGeneration(t *testing.T) {
	tt := NewTT(1)
	tt.Store(7, 10, 500, Exact, board.NullMove)
	tt.Store(7, 2, 999, FailLow, board.NullMove)

	entry, ok := tt.Probe(7)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if entry.Eval != 500 || entry.Bound != Exact {
		t.Fatalf("a shallower, lower-ranked bound should not have replaced the deeper exact entry; got %+v", entry)
	}
}

func TestStoreAllowsDeeperReplacementSameGeneration(t *testing.T) {
	tt := NewTT(1)
	tt.Store(7, 2, 999, FailLow, board.NullMove)
	tt.Store(7, 10, 500, FailLow, board.NullMove)

	entry, ok := tt.Probe(7)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if entry.Depth != 10 || entry.Eval != 500 {
		t.Fatalf("a deeper search at the same bound rank should replace; got %+v", entry)
	}
}

func TestNewGenerationAllowsOverwriteRegardlessOfDepth(t *testing.T) {
	tt := NewTT(1)
	tt.Store(7, 20, 1, Exact, board.NullMove)
	tt.NewGeneration()
	tt.Store(7, 1, 2, FailLow, board.NullMove)

	entry, ok := tt.Probe(7)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if entry.Eval != 2 || entry.Bound != FailLow {
		t.Fatalf("a new generation should overwrite even a shallower, lower-ranked entry; got %+v", entry)
	}
}

func TestMateScoreRoundTripsThroughPlyAdjustment(t *testing.T) {
	rootPly := 0
	nodePly := 4
	mateScore := int32(31990) // a mate-in-N score near the root

	stored := ToTT(mateScore, nodePly)
	backAtRoot := FromTT(stored, rootPly)
	backAtNode := FromTT(stored, nodePly)

	if backAtNode != mateScore {
		t.Fatalf("FromTT at the same ply should be identity: got %d, want %d", backAtNode, mateScore)
	}
	if backAtRoot == mateScore {
		t.Fatalf("a mate score probed at a different ply must be adjusted, not returned unchanged")
	}
}

func TestHashFullStartsAtZero(t *testing.T) {
	tt := NewTT(1)
	if got := tt.HashFull(); got != 0 {
		t.Fatalf("HashFull() on a fresh table = %d, want 0", got)
	}
}
