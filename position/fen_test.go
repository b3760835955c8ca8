package position

import (
	"testing"

	"github.com/phuang1024/swordfish/board"
)

func testKeys() *board.ZobristKeys {
	return board.NewZobristKeys(1)
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/8/8/8/4k3/4q3/8/4K3 b - - 0 1",
		"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
	}
	keys := testKeys()
	for _, fen := range fens {
		pos, err := ParseFEN(keys, fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestFENRejectsMalformed(t *testing.T) {
	keys := testKeys()
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",      // too few fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",             // too few ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",    // bad symbol
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",    // bad side
	}
	for _, fen := range bad {
		if _, err := ParseFEN(keys, fen); err == nil {
			t.Errorf("ParseFEN(%q): expected error, got none", fen)
		}
	}
}

func TestZobristLawThroughFEN(t *testing.T) {
	keys := testKeys()
	pos := NewStandard(keys)
	roundTripped, err := ParseFEN(keys, pos.FEN())
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.Zobrist() != roundTripped.Zobrist() {
		t.Fatalf("zobrist law violated: %x != %x", pos.Zobrist(), roundTripped.Zobrist())
	}
}

func TestVerifyStandardPosition(t *testing.T) {
	pos := NewStandard(testKeys())
	if err := pos.Verify(); err != nil {
		t.Fatalf("Verify(): %v", err)
	}
}
