package position

import "github.com/phuang1024/swordfish/board"

// RelativeView renames the side-to-move's bitboards as "mine" and the
// opponent's as "theirs", plus cached unions. It holds copies of the
// Position's bitboards taken when it was built, so it goes stale after a
// Push and must be rebuilt rather than retained.
type RelativeView struct {
	Side board.Color

	MP, MN, MB, MR, MQ, MK board.Bitboard // mine: pawn, knight, bishop, rook, queen, king
	TP, TN, TB, TR, TQ, TK board.Bitboard // theirs

	MPieces, TPieces, APieces board.Bitboard
}

// RelativeView builds a RelativeView for side. side need not be pos.Turn
// — movegen always asks for the side to move, but tests and the
// evaluator may ask for either side.
func (pos *Position) RelativeView(side board.Color) RelativeView {
	them := side.Opposite()
	v := RelativeView{
		Side: side,
		MP:   pos.ByPiece(side, board.Pawn),
		MN:   pos.ByPiece(side, board.Knight),
		MB:   pos.ByPiece(side, board.Bishop),
		MR:   pos.ByPiece(side, board.Rook),
		MQ:   pos.ByPiece(side, board.Queen),
		MK:   pos.ByPiece(side, board.King),
		TP:   pos.ByPiece(them, board.Pawn),
		TN:   pos.ByPiece(them, board.Knight),
		TB:   pos.ByPiece(them, board.Bishop),
		TR:   pos.ByPiece(them, board.Rook),
		TQ:   pos.ByPiece(them, board.Queen),
		TK:   pos.ByPiece(them, board.King),
	}
	v.MPieces = pos.ByColor[side]
	v.TPieces = pos.ByColor[them]
	v.APieces = v.MPieces | v.TPieces
	return v
}
