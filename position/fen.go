// fen.go implements Forsyth-Edwards Notation parsing and emission, grounded
// on the field-splitting and per-field parse/format helpers the teacher
// calls out to (ParsePiecePlacement, ParseSideToMove, ...).

package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phuang1024/swordfish/board"
)

// ParseFEN parses a complete six-field FEN string into a new Position.
func ParseFEN(keys *board.ZobristKeys, fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("fen: expected 6 fields, got %d", len(fields))
	}

	pos := NewEmpty(keys)
	if err := parsePiecePlacement(pos, fields[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(pos, fields[1]); err != nil {
		return nil, err
	}
	if err := parseCastling(pos, fields[2]); err != nil {
		return nil, err
	}
	if err := parseEP(pos, fields[3]); err != nil {
		return nil, err
	}
	clock, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("fen: bad halfmove clock: %w", err)
	}
	pos.HalfMoveClock = clock
	full, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("fen: bad fullmove number: %w", err)
	}
	pos.FullMoveNumber = full
	return pos, nil
}

func parsePiecePlacement(pos *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for i, rankField := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankField); j++ {
			ch := rankField[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pi, ok := board.PieceFromSymbol(ch)
			if !ok {
				return fmt.Errorf("fen: bad piece symbol %q", ch)
			}
			if file > 7 {
				return fmt.Errorf("fen: rank %d overflows 8 files", rank+1)
			}
			pos.SetAt(board.RankFile(rank, file), pi)
			file++
		}
		if file != 8 {
			return fmt.Errorf("fen: rank %d has %d files, want 8", rank+1, file)
		}
	}
	return nil
}

func parseSideToMove(pos *Position, field string) error {
	switch field {
	case "w":
		pos.setTurn(board.White)
	case "b":
		// The position starts as White; force the flip so the Zobrist
		// color term is applied exactly once.
		pos.Turn = board.White
		pos.setTurn(board.Black)
	default:
		return fmt.Errorf("fen: bad side to move %q", field)
	}
	return nil
}

func parseCastling(pos *Position, field string) error {
	if field == "-" {
		return nil
	}
	var c board.Castle
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'K':
			c |= board.WK
		case 'Q':
			c |= board.WQ
		case 'k':
			c |= board.BK
		case 'q':
			c |= board.BQ
		default:
			return fmt.Errorf("fen: bad castling symbol %q", field[i])
		}
	}
	pos.setCastling(c)
	return nil
}

func parseEP(pos *Position, field string) error {
	if field == "-" {
		pos.setEP(board.NoSquare)
		return nil
	}
	sq, err := board.SquareFromString(field)
	if err != nil {
		return fmt.Errorf("fen: bad en-passant square %q: %w", field, err)
	}
	pos.setEP(sq)
	return nil
}

// FEN renders pos as a complete six-field FEN string.
func (pos *Position) FEN() string {
	var b strings.Builder
	formatPiecePlacement(&b, pos)
	b.WriteByte(' ')
	b.WriteString(pos.Turn.String())
	b.WriteByte(' ')
	b.WriteString(pos.Castling.String())
	b.WriteByte(' ')
	b.WriteString(epFieldString(pos.EP))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.HalfMoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.FullMoveNumber))
	return b.String()
}

func epFieldString(sq board.Square) string {
	if sq == board.NoSquare {
		return "-"
	}
	return sq.String()
}

func formatPiecePlacement(b *strings.Builder, pos *Position) {
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pi := pos.PieceAt(board.RankFile(rank, file))
			if pi == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteByte(pi.Symbol())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
}
