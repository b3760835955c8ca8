package uci

import (
	"strings"
	"testing"

	"github.com/phuang1024/swordfish/eval"
)

func TestExecuteUCIHandshake(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("uci"); err != nil {
		t.Fatalf("uci: %v", err)
	}
	if err := u.Execute("isready"); err != nil {
		t.Fatalf("isready: %v", err)
	}
}

func TestExecuteQuitReturnsErrQuit(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("quit"); err != ErrQuit {
		t.Fatalf("quit returned %v, want ErrQuit", err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("notacommand"); err == nil {
		t.Fatalf("expected an error for an unhandled command")
	}
}

func TestExecuteEmptyLineIsNoop(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("   "); err != nil {
		t.Fatalf("blank line should be a no-op, got %v", err)
	}
}

func TestPositionStartposWithMoves(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("position startpos moves e2e4 e7e5 g1f3"); err != nil {
		t.Fatalf("position: %v", err)
	}
	got := u.Engine.Position.FEN()
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got != want {
		t.Fatalf("fen = %q, want %q", got, want)
	}
}

func TestPositionFenWithMoves(t *testing.T) {
	u := NewUCI(nil)
	fen := "8/8/8/8/8/8/6k1/4K2R w K - 0 1"
	if err := u.Execute("position fen " + fen + " moves e1g1"); err != nil {
		t.Fatalf("position fen: %v", err)
	}
	got := u.Engine.Position.FEN()
	want := "8/8/8/8/8/8/6k1/5RK1 b - - 1 1"
	if got != want {
		t.Fatalf("fen after castling = %q, want %q", got, want)
	}
}

func TestPositionRejectsIllegalMove(t *testing.T) {
	u := NewUCI(nil)
	before := u.Engine.Position.FEN()
	err := u.Execute("position startpos moves e2e5")
	if err == nil {
		t.Fatalf("expected an error for an illegal move")
	}
	if u.Engine.Position.FEN() != before {
		t.Fatalf("position changed after a rejected illegal move")
	}
}

func TestEvalAndDCommandsDoNotError(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("eval"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if err := u.Execute("d"); err != nil {
		t.Fatalf("d: %v", err)
	}
}

func TestGoDepthReturnsBestMove(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("go depth 2"); err != nil {
		t.Fatalf("go depth 2: %v", err)
	}
}

func TestGoPerftDoesNotError(t *testing.T) {
	u := NewUCI(nil)
	if err := u.Execute("go perft 2"); err != nil {
		t.Fatalf("go perft 2: %v", err)
	}
}

func TestFormatScoreCentipawns(t *testing.T) {
	got := formatScore(37)
	if got != "score cp 37" {
		t.Fatalf("formatScore(37) = %q", got)
	}
}

func TestFormatScoreMateForSideToMove(t *testing.T) {
	got := formatScore(eval.Mate - 1)
	if !strings.HasPrefix(got, "score mate ") {
		t.Fatalf("formatScore near mate = %q, want a mate score", got)
	}
}

func TestFormatScoreMateAgainstSideToMove(t *testing.T) {
	got := formatScore(-(eval.Mate - 1))
	if !strings.HasPrefix(got, "score mate -") {
		t.Fatalf("formatScore near being mated = %q, want a negative mate score", got)
	}
}

func TestRenderBoardIncludesFEN(t *testing.T) {
	u := NewUCI(nil)
	out := renderBoard(u.Engine.Position)
	if !strings.Contains(out, "Fen: "+u.Engine.Position.FEN()) {
		t.Fatalf("rendered board missing FEN line:\n%s", out)
	}
}
