// Package movegen implements legal move generation: a single pass that
// builds the opponent's attack set, counts checkers, finds pins, and then
// emits only legal moves for the side to move. There is no pseudo-legal
// stage to filter afterwards.
package movegen

import (
	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/position"
)

// allSquares is the pin mask used for a piece that isn't pinned.
const allSquares = board.Bitboard(^uint64(0))

var (
	bishopDirs = dirSlice(board.BishopDirs)
	rookDirs   = dirSlice(board.RookDirs)
	queenDirs  = append(append([][2]int{}, bishopDirs...), rookDirs...)
)

func dirSlice(a [4][2]int) [][2]int {
	return append([][2]int{}, a[0], a[1], a[2], a[3])
}

// Legal returns every legal move for the side to move in pos, plus the
// full attack set the opponent projects onto the board (own king treated
// as transparent, so a king cannot step backward along a checking ray).
// The attack set is exposed for evaluation and UCI "d" style debugging,
// not just internal reuse.
func Legal(pos *position.Position) ([]board.Move, board.Bitboard) {
	us := pos.Turn
	them := us.Opposite()
	view := pos.RelativeView(us)

	if view.MK == 0 {
		return nil, 0
	}
	kingSq := view.MK.AsSquare()
	occ := pos.Occupied()
	occNoKing := occ &^ view.MK

	attacked := attacksBy(view, them, occNoKing)
	checkers := attackersOf(kingSq, view, us, occ)
	pinned, pinMask := computePins(kingSq, occ, view.MPieces, view.TB, view.TR, view.TQ)

	moves := make([]board.Move, 0, 48)
	moves = genKingMoves(view, kingSq, attacked, moves)

	nCheckers := checkers.Popcnt()
	if nCheckers >= 2 {
		return moves, attacked
	}

	var allMask board.Bitboard
	var epAllowedCheckerSq board.Square = board.NoSquare
	if nCheckers == 0 {
		allMask = ^view.MPieces
	} else {
		checkerSq := checkers.AsSquare()
		captureMask := checkers
		pushMask := board.Bitboard(0)
		checkerFig := pos.PieceAt(checkerSq).Figure()
		if checkerFig == board.Bishop || checkerFig == board.Rook || checkerFig == board.Queen {
			df, dr := unitDir(kingSq, checkerSq)
			pushMask = board.Ray(kingSq, df, dr, occ, false, false)
		}
		allMask = (captureMask | pushMask) &^ view.MPieces
		epAllowedCheckerSq = checkerSq
	}

	moves = genKnightMoves(view, allMask, pinned, moves)
	moves = genSliderMoves(view.MB, bishopDirs, occ, view, allMask, pinned, pinMask, moves)
	moves = genSliderMoves(view.MR, rookDirs, occ, view, allMask, pinned, pinMask, moves)
	moves = genSliderMoves(view.MQ, queenDirs, occ, view, allMask, pinned, pinMask, moves)
	moves = genPawnMoves(pos, view, us, occ, allMask, pinned, pinMask, nCheckers, epAllowedCheckerSq, moves)

	if nCheckers == 0 {
		moves = genCastling(pos, view, us, occ, attacked, moves)
	}

	return moves, attacked
}

func unitDir(from, to board.Square) (int, int) {
	df := sign(to.File() - from.File())
	dr := sign(to.Rank() - from.Rank())
	return df, dr
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// attacksBy returns every square attacked by the pieces in theirs, using
// occ as the blocker set (the caller decides whether the defending king
// is transparent in occ).
func attacksBy(view position.RelativeView, them board.Color, occ board.Bitboard) board.Bitboard {
	var attacked board.Bitboard
	bb := view.TP
	for bb != 0 {
		sq := bb.Pop()
		attacked |= board.PawnAttacks[them][sq]
	}
	bb = view.TN
	for bb != 0 {
		attacked |= board.KnightAttacks[bb.Pop()]
	}
	bb = view.TB | view.TQ
	for bb != 0 {
		attacked |= board.BishopAttacks(bb.Pop(), occ)
	}
	bb = view.TR | view.TQ
	for bb != 0 {
		attacked |= board.RookAttacks(bb.Pop(), occ)
	}
	if view.TK != 0 {
		attacked |= board.KingAttacks[view.TK.AsSquare()]
	}
	return attacked
}

// attackersOf returns the opponent pieces (as a bitboard of their
// squares) that attack sq given occ. Used to find checkers on the real
// king square, where occ includes every piece on the board.
func attackersOf(sq board.Square, view position.RelativeView, us board.Color, occ board.Bitboard) board.Bitboard {
	var attackers board.Bitboard
	attackers |= board.PawnAttacks[us][sq] & view.TP
	attackers |= board.KnightAttacks[sq] & view.TN
	attackers |= board.BishopAttacks(sq, occ) & (view.TB | view.TQ)
	attackers |= board.RookAttacks(sq, occ) & (view.TR | view.TQ)
	attackers |= board.KingAttacks[sq] & view.TK
	return attackers
}

// pinDir pairs a direction with the opponent slider figures that can pin
// along it.
type pinDir struct {
	df, dr  int
	sliders board.Bitboard
}

// computePins walks all 8 rays from the king and finds own pieces that
// are the sole blocker between the king and an aligned enemy slider.
// Returns the set of pinned squares and, per square, the ray (inclusive
// of the pinner) the pinned piece may still move along. Unpinned squares
// are absent from the map; maskFor returns allSquares for them so callers
// can always intersect unconditionally.
func computePins(kingSq board.Square, occ, own, theirBishops, theirRooks, theirQueens board.Bitboard) (board.Bitboard, map[board.Square]board.Bitboard) {
	dirs := make([]pinDir, 0, 8)
	for _, d := range board.BishopDirs {
		dirs = append(dirs, pinDir{d[0], d[1], theirBishops | theirQueens})
	}
	for _, d := range board.RookDirs {
		dirs = append(dirs, pinDir{d[0], d[1], theirRooks | theirQueens})
	}

	var pinned board.Bitboard
	pinMask := make(map[board.Square]board.Bitboard)

	for _, d := range dirs {
		ray := board.Ray(kingSq, d.df, d.dr, occ, false, true)
		blocker := ray & occ
		if blocker == 0 || blocker&own == 0 {
			continue
		}
		blockerSq := blocker.AsSquare()
		occWithoutBlocker := occ &^ blocker
		ray2 := board.Ray(kingSq, d.df, d.dr, occWithoutBlocker, false, true)
		pinner := ray2 & occWithoutBlocker & d.sliders
		if pinner != 0 {
			pinned |= blocker
			pinMask[blockerSq] = ray2
		}
	}
	return pinned, pinMask
}

func maskFor(sq board.Square, pinned board.Bitboard, pinMask map[board.Square]board.Bitboard) board.Bitboard {
	if pinned.Has(sq) {
		return pinMask[sq]
	}
	return allSquares
}

func genKingMoves(view position.RelativeView, kingSq board.Square, attacked board.Bitboard, moves []board.Move) []board.Move {
	dests := board.KingAttacks[kingSq] &^ view.MPieces &^ attacked
	for dests != 0 {
		moves = append(moves, board.Move{From: kingSq, To: dests.Pop()})
	}
	return moves
}

func genKnightMoves(view position.RelativeView, allMask board.Bitboard, pinned board.Bitboard, moves []board.Move) []board.Move {
	bb := view.MN &^ pinned // a pinned knight never has a legal move
	for bb != 0 {
		from := bb.Pop()
		dests := board.KnightAttacks[from] & allMask
		for dests != 0 {
			moves = append(moves, board.Move{From: from, To: dests.Pop()})
		}
	}
	return moves
}

func genSliderMoves(pieces board.Bitboard, dirs [][2]int, occ board.Bitboard, view position.RelativeView, allMask board.Bitboard, pinned board.Bitboard, pinMask map[board.Square]board.Bitboard, moves []board.Move) []board.Move {
	bb := pieces
	for bb != 0 {
		from := bb.Pop()
		dests := slidingAttack(from, dirs, occ) & allMask & maskFor(from, pinned, pinMask)
		for dests != 0 {
			moves = append(moves, board.Move{From: from, To: dests.Pop()})
		}
	}
	return moves
}

func slidingAttack(sq board.Square, dirs [][2]int, occ board.Bitboard) board.Bitboard {
	var bb board.Bitboard
	for _, d := range dirs {
		bb |= board.Ray(sq, d[0], d[1], occ, false, true)
	}
	return bb
}

var promoFigures = [4]board.Figure{board.Queen, board.Rook, board.Bishop, board.Knight}

func genPawnMoves(pos *position.Position, view position.RelativeView, us board.Color, occ, allMask board.Bitboard, pinned board.Bitboard, pinMask map[board.Square]board.Bitboard, nCheckers int, epAllowedCheckerSq board.Square, moves []board.Move) []board.Move {
	dir := board.PawnPushDir(us)
	promoRank := board.PromotionRank(us)

	bb := view.MP
	for bb != 0 {
		from := bb.Pop()
		mask := maskFor(from, pinned, pinMask)
		fromRank, fromFile := from.Rank(), from.File()

		// single and double push
		oneRank := fromRank + dir
		if board.InBoard(oneRank, fromFile) {
			oneSq := board.RankFile(oneRank, fromFile)
			if !occ.Has(oneSq) {
				if oneSq.Bitboard()&allMask&mask != 0 {
					moves = appendPawnMove(moves, from, oneSq, oneRank, promoRank)
				}
				twoRank := fromRank + 2*dir
				if fromRank == board.PawnHomeRank(us) && board.InBoard(twoRank, fromFile) {
					twoSq := board.RankFile(twoRank, fromFile)
					if !occ.Has(twoSq) && twoSq.Bitboard()&allMask&mask != 0 {
						moves = append(moves, board.Move{From: from, To: twoSq})
					}
				}
			}
		}

		// diagonal captures
		for _, df := range [2]int{-1, 1} {
			capRank, capFile := fromRank+dir, fromFile+df
			if !board.InBoard(capRank, capFile) {
				continue
			}
			to := board.RankFile(capRank, capFile)
			if view.TPieces.Has(to) && to.Bitboard()&allMask&mask != 0 {
				moves = appendPawnMove(moves, from, to, capRank, promoRank)
			}
		}

		// en passant
		if pos.EP != board.NoSquare {
			ep := pos.EP
			if ep.Rank() == fromRank+dir && abs(ep.File()-fromFile) == 1 {
				if legalEnPassant(view, us, from, ep, occ, nCheckers, epAllowedCheckerSq, mask) {
					moves = append(moves, board.Move{From: from, To: ep})
				}
			}
		}
	}
	return moves
}

func appendPawnMove(moves []board.Move, from, to board.Square, toRank, promoRank int) []board.Move {
	if toRank == promoRank {
		for _, f := range promoFigures {
			moves = append(moves, board.Move{From: from, To: to, Promo: f})
		}
		return moves
	}
	return append(moves, board.Move{From: from, To: to})
}

// legalEnPassant applies the standard pin/check filters plus the
// horizontal-discovered-check test: removing both the capturing and
// captured pawns can unmask a rook or queen attacking the king along
// the fifth (or fourth, for Black) rank.
func legalEnPassant(view position.RelativeView, us board.Color, from, ep board.Square, occ board.Bitboard, nCheckers int, epAllowedCheckerSq board.Square, mask board.Bitboard) bool {
	if nCheckers == 1 {
		capSq := epCaptureSquareFor(ep, us)
		if epAllowedCheckerSq != capSq {
			return false
		}
	}
	if ep.Bitboard()&mask == 0 {
		return false
	}
	if view.MK == 0 {
		return true
	}
	kingSq := view.MK.AsSquare()
	capSq := epCaptureSquareFor(ep, us)
	occAfter := occ &^ from.Bitboard() &^ capSq.Bitboard() | ep.Bitboard()
	attackers := board.RookAttacks(kingSq, occAfter) & (view.TR | view.TQ)
	return attackers == 0
}

func epCaptureSquareFor(ep board.Square, mover board.Color) board.Square {
	if mover == board.White {
		return ep - 8
	}
	return ep + 8
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// genCastling is only called when the side to move is not in check.
func genCastling(pos *position.Position, view position.RelativeView, us board.Color, occ, attacked board.Bitboard, moves []board.Move) []board.Move {
	rank := us.KingHomeRank()
	kingStart := board.RankFile(rank, 4)
	if view.MK.AsSquare() != kingStart {
		return moves
	}

	kingSideRight, queenSideRight := board.WK, board.WQ
	if us == board.Black {
		kingSideRight, queenSideRight = board.BK, board.BQ
	}

	if pos.Castling&kingSideRight != 0 {
		f, g := board.RankFile(rank, 5), board.RankFile(rank, 6)
		if view.MR.Has(board.RankFile(rank, 7)) &&
			!occ.Has(f) && !occ.Has(g) && !attacked.Has(f) && !attacked.Has(g) {
			moves = append(moves, board.Move{From: kingStart, To: g})
		}
	}
	if pos.Castling&queenSideRight != 0 {
		d, c, b := board.RankFile(rank, 3), board.RankFile(rank, 2), board.RankFile(rank, 1)
		if view.MR.Has(board.RankFile(rank, 0)) &&
			!occ.Has(d) && !occ.Has(c) && !occ.Has(b) && !attacked.Has(d) && !attacked.Has(c) {
			moves = append(moves, board.Move{From: kingStart, To: c})
		}
	}
	return moves
}
