package board

// Direction offsets, (df, dr) pairs: file delta then rank delta.
var (
	KnightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	KingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	BishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	RookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// Ray steps (df, dr) from start while staying on the board, stopping at
// the first square set in blockers. includeStart adds the start square
// itself; includeStop adds the blocking square (if one was hit) to the
// result. Used directly for sliding attacks, and reused by movegen for
// pin rays and check rays.
func Ray(start Square, df, dr int, blockers Bitboard, includeStart, includeStop bool) Bitboard {
	var bb Bitboard
	if includeStart {
		bb |= start.Bitboard()
	}
	rank, file := start.Rank()+dr, start.File()+df
	for InBoard(rank, file) {
		sq := RankFile(rank, file)
		if blockers.Has(sq) {
			if includeStop {
				bb |= sq.Bitboard()
			}
			break
		}
		bb |= sq.Bitboard()
		rank += dr
		file += df
	}
	return bb
}

// SlidingAttack ORs together the rays in dirs from sq, stopping at (and
// including) the first occupant in occ.
func SlidingAttack(sq Square, dirs [4][2]int, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		bb |= Ray(sq, d[0], d[1], occ, false, true)
	}
	return bb
}

// BishopAttacks returns the squares a bishop on sq attacks given occ.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return SlidingAttack(sq, BishopDirs, occ)
}

// RookAttacks returns the squares a rook on sq attacks given occ.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return SlidingAttack(sq, RookDirs, occ)
}

// QueenAttacks returns the squares a queen on sq attacks given occ.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// Precomputed leaper attack tables and pawn attacks, built once at
// package init from the offset tables above.
var (
	KnightAttacks [SquareArraySize]Bitboard
	KingAttacks   [SquareArraySize]Bitboard
	PawnAttacks   [ColorArraySize][SquareArraySize]Bitboard
)

func leaperAttack(sq Square, offsets [8][2]int) Bitboard {
	var bb Bitboard
	rank, file := sq.Rank(), sq.File()
	for _, o := range offsets {
		r, f := rank+o[1], file+o[0]
		if InBoard(r, f) {
			bb |= RankFile(r, f).Bitboard()
		}
	}
	return bb
}

func init() {
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		KnightAttacks[sq] = leaperAttack(sq, KnightOffsets)
		KingAttacks[sq] = leaperAttack(sq, KingOffsets)

		rank, file := sq.Rank(), sq.File()
		var white, black Bitboard
		if InBoard(rank+1, file-1) {
			white |= RankFile(rank+1, file-1).Bitboard()
		}
		if InBoard(rank+1, file+1) {
			white |= RankFile(rank+1, file+1).Bitboard()
		}
		if InBoard(rank-1, file-1) {
			black |= RankFile(rank-1, file-1).Bitboard()
		}
		if InBoard(rank-1, file+1) {
			black |= RankFile(rank-1, file+1).Bitboard()
		}
		PawnAttacks[White][sq] = white
		PawnAttacks[Black][sq] = black
	}
}

// Forward returns the squares one rank towards the opponent from every
// square set in bb, for the given side.
func Forward(side Color, bb Bitboard) Bitboard {
	if side == White {
		return bb << 8
	}
	return bb >> 8
}

// PawnHomeRank returns the starting rank for side's pawns.
func PawnHomeRank(side Color) int {
	if side == White {
		return 1
	}
	return 6
}

// PawnPushDir returns +1 for White, -1 for Black.
func PawnPushDir(side Color) int {
	if side == White {
		return 1
	}
	return -1
}

// PromotionRank returns the rank a pawn promotes on for side.
func PromotionRank(side Color) int {
	if side == White {
		return 7
	}
	return 0
}
