package position

import (
	"testing"

	"github.com/phuang1024/swordfish/board"
)

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(testKeys(), fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPushSimplePawnAdvance(t *testing.T) {
	pos := NewStandard(testKeys())
	pos.Push(board.Move{From: board.SquareA1 + 8*1 + 4, To: board.SquareA1 + 8*3 + 4}) // e2e4
	if pos.Turn != board.Black {
		t.Fatalf("turn = %v, want Black", pos.Turn)
	}
	if pos.EP != board.RankFile(2, 4) {
		t.Fatalf("ep = %v, want e3", pos.EP)
	}
	if pos.HalfMoveClock != 0 {
		t.Fatalf("halfmove clock = %d, want 0", pos.HalfMoveClock)
	}
	if pos.FullMoveNumber != 1 {
		t.Fatalf("fullmove = %d, want 1", pos.FullMoveNumber)
	}
	if err := pos.Verify(); err != nil {
		t.Fatalf("Verify(): %v", err)
	}
}

func TestPushEnPassantCapture(t *testing.T) {
	// White pawn e5, black just played d7d5 creating an ep target on d6.
	pos := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	pos.Push(board.Move{From: board.RankFile(4, 4), To: board.RankFile(5, 3)}) // e5d6 ep
	if pos.PieceAt(board.RankFile(5, 3)) != board.ColorFigure(board.White, board.Pawn) {
		t.Fatalf("expected white pawn on d6 after en passant")
	}
	if pos.PieceAt(board.RankFile(4, 3)) != board.NoPiece {
		t.Fatalf("expected captured black pawn removed from d5")
	}
	if err := pos.Verify(); err != nil {
		t.Fatalf("Verify(): %v", err)
	}
}

func TestPushCastlingMovesRook(t *testing.T) {
	pos := mustFEN(t, "8/8/8/8/8/8/6k1/4K2R w K - 0 1")
	pos.Push(board.Move{From: board.SquareE1, To: board.SquareG1}) // e1g1
	if pos.PieceAt(board.SquareG1) != board.ColorFigure(board.White, board.King) {
		t.Fatalf("king did not land on g1")
	}
	if pos.PieceAt(board.SquareF1) != board.ColorFigure(board.White, board.Rook) {
		t.Fatalf("rook did not land on f1")
	}
	if pos.PieceAt(board.SquareH1) != board.NoPiece {
		t.Fatalf("rook still on h1")
	}
	if pos.Castling != board.NoCastle {
		t.Fatalf("castling rights = %v, want none", pos.Castling)
	}
}

func TestPushPromotion(t *testing.T) {
	pos := mustFEN(t, "8/P7/8/8/8/8/8/k1K5 w - - 0 1")
	pos.Push(board.Move{From: board.SquareA7, To: board.SquareA8, Promo: board.Queen})
	if pos.PieceAt(board.SquareA8) != board.ColorFigure(board.White, board.Queen) {
		t.Fatalf("expected promoted queen on a8")
	}
	if pos.PieceAt(board.SquareA7) != board.NoPiece {
		t.Fatalf("pawn still on a7")
	}
}

func TestPushHalfmoveClockResetsOnCapture(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 10 20")
	pos.Push(board.Move{From: board.RankFile(3, 4), To: board.RankFile(4, 3)}) // exd5
	if pos.HalfMoveClock != 0 {
		t.Fatalf("halfmove clock = %d, want 0 after capture", pos.HalfMoveClock)
	}
}

func TestPushFullmoveIncrementsAfterBlack(t *testing.T) {
	pos := NewStandard(testKeys())
	pos.Push(board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4)}) // e4
	if pos.FullMoveNumber != 1 {
		t.Fatalf("fullmove after white move = %d, want 1", pos.FullMoveNumber)
	}
	pos.Push(board.Move{From: board.RankFile(6, 4), To: board.RankFile(4, 4)}) // e5
	if pos.FullMoveNumber != 2 {
		t.Fatalf("fullmove after black move = %d, want 2", pos.FullMoveNumber)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewStandard(testKeys())
	clone := pos.Clone()
	clone.Push(board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4)})
	if pos.Turn != board.White {
		t.Fatalf("original position mutated by clone's Push")
	}
	if clone.Turn != board.Black {
		t.Fatalf("clone did not reflect its own Push")
	}
}

func TestPushNullFlipsTurnAndClearsEP(t *testing.T) {
	pos := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	before := pos.FEN()
	pos.PushNull()
	if pos.Turn != board.Black {
		t.Fatalf("turn = %v, want Black after a null move", pos.Turn)
	}
	if pos.EP != board.NoSquare {
		t.Fatalf("ep = %v, want none after a null move", pos.EP)
	}
	if err := pos.Verify(); err != nil {
		t.Fatalf("Verify() after null move: %v", err)
	}
	pos.PushNull()
	if pos.FEN() == before {
		t.Fatalf("fen unchanged after pushing a null move and its reverse, want ep cleared to differ")
	}
}

func TestByPieceDisjointAfterMoves(t *testing.T) {
	pos := NewStandard(testKeys())
	pos.Push(board.Move{From: board.RankFile(1, 4), To: board.RankFile(3, 4)})
	pos.Push(board.Move{From: board.RankFile(6, 4), To: board.RankFile(4, 4)})
	pos.Push(board.Move{From: board.RankFile(0, 6), To: board.RankFile(2, 5)})
	if err := pos.Verify(); err != nil {
		t.Fatalf("Verify(): %v", err)
	}
}
