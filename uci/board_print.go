package uci

import (
	"strings"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/position"
)

// renderBoard draws an 8x8 ASCII grid (rank 8 on top, matching how the
// position is normally read) plus the FEN and Zobrist key below it. Used
// only by the "d" debugging command (spec.md §6); never on the hot path.
func renderBoard(pos *position.Position) string {
	var b strings.Builder
	sep := "  +---+---+---+---+---+---+---+---+\n"

	for rank := 7; rank >= 0; rank-- {
		b.WriteString(sep)
		b.WriteByte(byte('1' + rank))
		b.WriteString(" |")
		for file := 0; file < 8; file++ {
			pi := pos.PieceAt(board.RankFile(rank, file))
			b.WriteByte(' ')
			b.WriteByte(pieceGlyph(pi))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}
	b.WriteString(sep)
	b.WriteString("    a   b   c   d   e   f   g   h\n\n")
	b.WriteString("Fen: " + pos.FEN() + "\n")
	b.WriteString("Key: ")
	b.WriteString(hex64(pos.Zobrist()))
	b.WriteByte('\n')
	return b.String()
}

// pieceGlyph returns the FEN letter for pi, or a space for an empty
// square (pos.PieceAt(sq).Symbol() would print '.' instead).
func pieceGlyph(pi board.Piece) byte {
	if pi == board.NoPiece {
		return ' '
	}
	return pi.Symbol()
}

const hexDigits = "0123456789abcdef"

func hex64(v uint64) string {
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
