package board

// Move is the compact move representation: source and destination
// squares plus an optional promotion figure. Everything else (capture,
// castling, en-passant) is derived from the position the move is played
// against, not stored in the move itself.
//
// The zero value (From=To=SquareA1, Promo=NoFigure) is the null-move
// sentinel: the transposition table stores it to mean "no best move
// recorded", and Search returns it when the root has no legal move.
// Null-move pruning does not use it; it calls Position.PushNull.
type Move struct {
	From, To Square
	Promo    Figure
}

// NullMove is the sentinel move carrying no information.
var NullMove = Move{}

// IsNull returns whether m is the null-move sentinel.
func (m Move) IsNull() bool {
	return m.From == SquareA1 && m.To == SquareA1 && m.Promo == NoFigure
}

var promoSymbol = map[Figure]string{
	NoFigure: "",
	Knight:   "n",
	Bishop:   "b",
	Rook:     "r",
	Queen:    "q",
}

// UCI renders the move in long algebraic UCI notation: <from><to>[promo].
func (m Move) UCI() string {
	return m.From.String() + m.To.String() + promoSymbol[m.Promo]
}

func (m Move) String() string { return m.UCI() }

// promoFigureFromSymbol parses a promotion letter (either case) from UCI
// move notation back into a Figure, the inverse of promoSymbol.
var promoFigureFromSymbol = map[byte]Figure{
	'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen,
	'N': Knight, 'B': Bishop, 'R': Rook, 'Q': Queen,
}

// MoveFromUCI parses a move in UCI notation against no particular
// position (it does not validate legality, only syntax).
func MoveFromUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, errInvalidSquare
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, err
	}
	promo := NoFigure
	if len(s) == 5 {
		var ok bool
		promo, ok = promoFigureFromSymbol[s[4]]
		if !ok {
			return NullMove, errInvalidSquare
		}
	}
	return Move{From: from, To: to, Promo: promo}, nil
}
