// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package position implements the chess board state: piece placement,
// side to move, castling rights, en-passant target, move counters, and
// the legality-assuming Push mutator.
package position

import (
	"fmt"

	"github.com/phuang1024/swordfish/board"
)

// FENStartPos is the standard starting position in FEN.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position encodes the chess board. A Position is only ever safe to share
// with a single goroutine at a time; speculative search clones it (see
// Clone) instead of mutating and unwinding.
type Position struct {
	ByFigure [board.FigureArraySize]board.Bitboard
	ByColor  [board.ColorArraySize]board.Bitboard

	Turn     board.Color
	Castling board.Castle
	EP       board.Square // board.NoSquare if none

	HalfMoveClock  int
	FullMoveNumber int

	zobrist uint64
	keys    *board.ZobristKeys
}

// NewEmpty returns a position with no pieces, White to move, no castling
// rights and no en-passant target. keys must not be nil.
func NewEmpty(keys *board.ZobristKeys) *Position {
	return &Position{
		Turn:           board.White,
		EP:             board.NoSquare,
		FullMoveNumber: 1,
		keys:           keys,
	}
}

// NewStandard returns the standard starting position.
func NewStandard(keys *board.ZobristKeys) *Position {
	pos, err := ParseFEN(keys, FENStartPos)
	if err != nil {
		panic("invalid builtin starting FEN: " + err.Error())
	}
	return pos
}

// Clone returns a deep copy of pos. Speculative search clones before
// mutating; the engine does not implement an inverse of Push.
func (pos *Position) Clone() *Position {
	cp := *pos
	return &cp
}

// Zobrist returns the incrementally maintained Zobrist hash of pos.
func (pos *Position) Zobrist() uint64 { return pos.zobrist }

// ByPiece is shorthand for ByColor[col] & ByFigure[fig].
func (pos *Position) ByPiece(col board.Color, fig board.Figure) board.Bitboard {
	return pos.ByColor[col] & pos.ByFigure[fig]
}

// Occupied returns the union of all occupied squares.
func (pos *Position) Occupied() board.Bitboard {
	return pos.ByColor[board.White] | pos.ByColor[board.Black]
}

// PieceAt returns the piece at sq, or NoPiece if the square is empty.
func (pos *Position) PieceAt(sq board.Square) board.Piece {
	var col board.Color
	if pos.ByColor[board.White].Has(sq) {
		col = board.White
	} else if pos.ByColor[board.Black].Has(sq) {
		col = board.Black
	} else {
		return board.NoPiece
	}
	for fig := board.FigureMinValue; fig <= board.FigureMaxValue; fig++ {
		if pos.ByFigure[fig].Has(sq) {
			return board.ColorFigure(col, fig)
		}
	}
	panic("square marked occupied but holds no figure: bitboards are corrupt")
}

// put places pi on sq, updating the Zobrist hash. Does nothing for
// NoPiece. Does not check sq is actually empty — callers that need that
// guarantee call clearSquare first.
func (pos *Position) put(sq board.Square, pi board.Piece) {
	if pi == board.NoPiece {
		return
	}
	pos.zobrist ^= pos.keys.Piece[pi][sq]
	bb := sq.Bitboard()
	pos.ByColor[pi.Color()] |= bb
	pos.ByFigure[pi.Figure()] |= bb
}

// remove clears pi from sq, updating the Zobrist hash. Does nothing for
// NoPiece.
func (pos *Position) remove(sq board.Square, pi board.Piece) {
	if pi == board.NoPiece {
		return
	}
	pos.zobrist ^= pos.keys.Piece[pi][sq]
	bb := ^sq.Bitboard()
	pos.ByColor[pi.Color()] &= bb
	pos.ByFigure[pi.Figure()] &= bb
}

// clearSquare removes whichever piece (if any) sits on sq.
func (pos *Position) clearSquare(sq board.Square) {
	pos.remove(sq, pos.PieceAt(sq))
}

// SetAt sets sq to pi, clearing every other bitboard at that square
// first (so overwriting a square never leaves stale bits in another
// figure/color plane). Used by FEN parsing and test setup, not by Push.
func (pos *Position) SetAt(sq board.Square, pi board.Piece) {
	pos.clearSquare(sq)
	pos.put(sq, pi)
}

func (pos *Position) setCastling(c board.Castle) {
	if c == pos.Castling {
		return
	}
	pos.zobrist ^= pos.keys.Castle[pos.Castling]
	pos.Castling = c
	pos.zobrist ^= pos.keys.Castle[pos.Castling]
}

func (pos *Position) setEP(sq board.Square) {
	if sq == pos.EP {
		return
	}
	if pos.EP != board.NoSquare {
		pos.zobrist ^= pos.keys.EnPassant[pos.EP.File()]
	}
	pos.EP = sq
	if pos.EP != board.NoSquare {
		pos.zobrist ^= pos.keys.EnPassant[pos.EP.File()]
	}
}

func (pos *Position) setTurn(c board.Color) {
	if c == pos.Turn {
		return
	}
	pos.zobrist ^= pos.keys.Color
	pos.Turn = c
}

// epCaptureSquare returns the square holding the pawn captured en
// passant when a pawn lands on to (the en-passant target).
func epCaptureSquare(to board.Square, mover board.Color) board.Square {
	if mover == board.White {
		return to - 8
	}
	return to + 8
}

// Push updates position state assuming move is legal for the side to
// move. Undefined behavior if it is not — movegen guarantees only legal
// moves ever reach Push.
func (pos *Position) Push(m board.Move) {
	us := pos.Turn
	from, to := m.From, m.To
	piece := pos.PieceAt(from)
	fig := piece.Figure()

	isEP := fig == board.Pawn && to == pos.EP && pos.EP != board.NoSquare
	isCapture := pos.PieceAt(to) != board.NoPiece || isEP
	isCastle := fig == board.King && abs(to.File()-from.File()) == 2

	// 1. Clear every bitboard at the destination (handles ordinary captures).
	pos.clearSquare(to)

	// 2. Move the piece; promotions replace the pawn with the new figure.
	pos.remove(from, piece)
	if m.Promo != board.NoFigure {
		pos.put(to, board.ColorFigure(us, m.Promo))
	} else {
		pos.put(to, piece)
	}

	// 3. Castling: hop the rook and clear the moving side's rights.
	if isCastle {
		rook, rookFrom, rookTo := board.CastlingRook(to)
		pos.remove(rookFrom, rook)
		pos.put(rookTo, rook)
	}
	pos.setCastling(pos.Castling &^ board.LostCastleRights[from] &^ board.LostCastleRights[to])

	// 4. En-passant capture: remove the opposing pawn one rank behind `to`.
	if isEP {
		capSq := epCaptureSquare(to, us)
		pos.remove(capSq, board.ColorFigure(us.Opposite(), board.Pawn))
	}

	// 5. Set the new en-passant target, or clear it.
	if fig == board.Pawn && abs(to.Rank()-from.Rank()) == 2 {
		pos.setEP(board.RankFile((from.Rank()+to.Rank())/2, from.File()))
	} else {
		pos.setEP(board.NoSquare)
	}

	// 6. Flip the side to move; increment the fullmove counter after Black.
	pos.setTurn(us.Opposite())
	if pos.Turn == board.White {
		pos.FullMoveNumber++
	}

	// 7. Reset the halfmove clock on any capture or pawn move, else bump it.
	if isCapture || fig == board.Pawn {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
}

// PushNull flips the side to move without moving a piece. Used only by
// search's null-move pruning, never by movegen-driven play: a null move
// is not a legal chess move, just a "what if the opponent got two moves
// in a row" probe. Clears the en-passant target the way a real move
// would (nothing can capture it after a skipped turn) but leaves the
// halfmove clock untouched.
func (pos *Position) PushNull() {
	pos.setEP(board.NoSquare)
	pos.setTurn(pos.Turn.Opposite())
	if pos.Turn == board.White {
		pos.FullMoveNumber++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Verify checks the position's structural invariants; used by tests and
// by the programmer-error fail-fast path, never by hot search code.
func (pos *Position) Verify() error {
	if pos.ByColor[board.White]&pos.ByColor[board.Black] != 0 {
		return fmt.Errorf("white and black occupancy overlap")
	}
	var union board.Bitboard
	for fig := board.FigureMinValue; fig <= board.FigureMaxValue; fig++ {
		if union&pos.ByFigure[fig] != 0 {
			return fmt.Errorf("figure bitboards overlap at figure %v", fig)
		}
		union |= pos.ByFigure[fig]
	}
	for col := board.ColorMinValue; col <= board.ColorMaxValue; col++ {
		if n := pos.ByPiece(col, board.King).Popcnt(); n != 1 {
			return fmt.Errorf("color %v has %d kings, want 1", col, n)
		}
	}
	if pos.ByFigure[board.Pawn]&(board.RankBb(0)|board.RankBb(7)) != 0 {
		return fmt.Errorf("pawn on rank 1 or 8")
	}
	return nil
}
