// Package perft counts leaf nodes of the legal move tree to a fixed
// depth, the standard correctness-and-speed oracle for move generators.
// Grounded on the teacher's perft tool: a counters struct broken down by
// move category, plus a Zobrist-indexed cache for repeated deep counts.
// The UCI "go perft" command uses Divide, which does not use the cache.
package perft

import (
	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/movegen"
	"github.com/phuang1024/swordfish/position"
)

// Counters breaks a perft leaf count down by move category, matching the
// categories the standard perft test suites report.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

func (c *Counters) add(o Counters) {
	c.Nodes += o.Nodes
	c.Captures += o.Captures
	c.EnPassant += o.EnPassant
	c.Castles += o.Castles
	c.Promotions += o.Promotions
}

// classify reports which leaf categories m falls into, evaluated against
// pos before the move is pushed.
func classify(pos *position.Position, m board.Move) (capture, enPassant, castle, promotion bool) {
	piece := pos.PieceAt(m.From)
	fig := piece.Figure()
	enPassant = fig == board.Pawn && m.To == pos.EP && pos.EP != board.NoSquare
	capture = pos.PieceAt(m.To) != board.NoPiece || enPassant
	castle = fig == board.King && abs(m.To.File()-m.From.File()) == 2
	promotion = m.Promo != board.NoFigure
	return
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Count returns the full leaf breakdown for pos at depth. depth 0 always
// returns one node (the position itself).
func Count(pos *position.Position, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	moves, _ := movegen.Legal(pos)
	var r Counters
	for _, m := range moves {
		if depth == 1 {
			capture, enPassant, castle, promotion := classify(pos, m)
			if capture {
				r.Captures++
			}
			if enPassant {
				r.EnPassant++
			}
			if castle {
				r.Castles++
			}
			if promotion {
				r.Promotions++
			}
		}
		child := pos.Clone()
		child.Push(m)
		r.add(Count(child, depth-1))
	}
	return r
}

// Nodes is shorthand for Count(pos, depth).Nodes, the number callers
// usually care about.
func Nodes(pos *position.Position, depth int) uint64 {
	return Count(pos, depth).Nodes
}

// cacheEntry memoizes one (position, depth) perft result by Zobrist key.
// Collisions are resolved by discarding the stale entry, same as the
// transposition table: a direct-mapped cache trades a few missed hits
// for O(1) lookups.
type cacheEntry struct {
	zobrist uint64
	depth   int
	result  Counters
	valid   bool
}

// Cache accelerates repeated perft runs over the same subtree, such as a
// sweep over increasing depths. Not safe for concurrent use.
type Cache struct {
	entries []cacheEntry
	mask    uint64
}

// NewCache builds a cache with 2^bits entries.
func NewCache(bits int) *Cache {
	if bits < 1 {
		bits = 1
	}
	size := uint64(1) << uint(bits)
	return &Cache{
		entries: make([]cacheEntry, size),
		mask:    size - 1,
	}
}

// CountCached behaves like Count but consults and populates c, which
// callers reuse across the depths of an iterative sweep.
func (c *Cache) CountCached(pos *position.Position, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	key := pos.Zobrist()
	idx := key & c.mask
	if e := &c.entries[idx]; e.valid && e.zobrist == key && e.depth == depth {
		return e.result
	}

	moves, _ := movegen.Legal(pos)
	var r Counters
	for _, m := range moves {
		if depth == 1 {
			capture, enPassant, castle, promotion := classify(pos, m)
			if capture {
				r.Captures++
			}
			if enPassant {
				r.EnPassant++
			}
			if castle {
				r.Castles++
			}
			if promotion {
				r.Promotions++
			}
		}
		child := pos.Clone()
		child.Push(m)
		r.add(c.CountCached(child, depth-1))
	}

	c.entries[idx] = cacheEntry{zobrist: key, depth: depth, result: r, valid: true}
	return r
}

// DivideEntry is one root move's subtree count, as reported by Divide
// (UCI's "go perft" convention: one line per root move, then a total).
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Divide runs perft one ply at a time over each legal root move,
// returning a per-move breakdown. Used both by the UCI "perft" command
// and to localize a discrepancy against a known-good node count: the
// first root move whose count disagrees pinpoints where move generation
// diverges.
func Divide(pos *position.Position, depth int) ([]DivideEntry, uint64) {
	if depth <= 0 {
		return nil, 1
	}

	moves, _ := movegen.Legal(pos)
	entries := make([]DivideEntry, 0, len(moves))
	var total uint64
	for _, m := range moves {
		child := pos.Clone()
		child.Push(m)
		n := Nodes(child, depth-1)
		entries = append(entries, DivideEntry{Move: m, Nodes: n})
		total += n
	}
	return entries, total
}
