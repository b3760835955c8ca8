// Package search implements iterative-deepening negamax with alpha-beta
// pruning, quiescence search, aspiration windows, and a Zobrist-hashed
// transposition table. Both the table and the Zobrist keys it is probed
// with are constructor-built values threaded through as parameters —
// never process-wide singletons — so two searches can run back to back
// with independently seeded keys.
package search

import (
	"unsafe"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/eval"
)

// Bound classifies what a stored score actually tells the caller.
// Ordering matters for replacement: Exact is the most informative, Empty
// the least.
type Bound uint8

const (
	Empty Bound = iota
	Quiescence
	FailLow
	FailHigh
	Exact
)

// Entry is one transposition table slot.
type Entry struct {
	Key        uint64
	Depth      int8
	Eval       int32
	Bound      Bound
	Best       board.Move
	Generation uint16
}

// TT is a fixed-size direct-mapped transposition table indexed by
// zobrist & mask. Collisions are resolved by the key check in Probe, not
// by chaining or a second index.
type TT struct {
	table      []Entry
	mask       uint64
	generation uint16
}

// NewTT builds a table sized to approximately sizeMB megabytes, rounded
// down to a power of two entry count so indexing can use a bitmask.
func NewTT(sizeMB int) *TT {
	entrySize := uint64(unsafe.Sizeof(Entry{}))
	if entrySize == 0 {
		entrySize = 1
	}
	count := uint64(sizeMB) << 20 / entrySize
	if count == 0 {
		count = 1
	}
	for count&(count-1) != 0 {
		count &= count - 1
	}
	return &TT{
		table: make([]Entry, count),
		mask:  count - 1,
	}
}

// Size returns the number of entries in the table.
func (tt *TT) Size() int { return len(tt.table) }

// NewGeneration advances the search generation, used both by the
// replacement policy and by HashFull's "how stale is this" accounting.
func (tt *TT) NewGeneration() { tt.generation++ }

// Probe returns the slot for key and whether it is a usable hit (the key
// matches and the bound is not Empty). A key mismatch at the slot is a
// silent collision, not an error — the caller treats it as a miss.
func (tt *TT) Probe(key uint64) (Entry, bool) {
	e := tt.table[key&tt.mask]
	if e.Key == key && e.Bound != Empty {
		return e, true
	}
	return Entry{}, false
}

// Store writes entry for key, replacing the existing slot only when the
// replacement policy says the new entry is more valuable:
//   - the new bound outranks the stored one (Exact > FailHigh > FailLow
//     > Quiescence > Empty), or
//   - the stored entry is from an earlier generation, or
//   - the new depth exceeds the stored depth minus the generation gap.
func (tt *TT) Store(key uint64, depth int8, eval int32, bound Bound, best board.Move) {
	idx := key & tt.mask
	cur := &tt.table[idx]

	genGap := int32(tt.generation) - int32(cur.Generation)
	replace := cur.Bound == Empty ||
		bound > cur.Bound ||
		genGap > 0 ||
		int32(depth) > int32(cur.Depth)-genGap

	if !replace {
		return
	}
	*cur = Entry{
		Key:        key,
		Depth:      depth,
		Eval:       eval,
		Bound:      bound,
		Best:       best,
		Generation: tt.generation,
	}
}

// HashFull estimates occupancy in permille, UCI's convention for the
// "hashfull" info field: sample instead of scanning the whole table.
func (tt *TT) HashFull() int {
	const sample = 1000
	n := len(tt.table)
	if n == 0 {
		return 0
	}
	if n < sample {
		used := 0
		for i := range tt.table {
			if tt.table[i].Bound != Empty && tt.table[i].Generation == tt.generation {
				used++
			}
		}
		return used * 1000 / n
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.table[i].Bound != Empty && tt.table[i].Generation == tt.generation {
			used++
		}
	}
	return used
}

// mateThreshold marks scores close enough to eval.Mate that they encode
// a forced mate rather than a material evaluation.
const mateThreshold = eval.Mate - 1000

// ToTT converts a score computed at ply plies from the search root into
// the ply-independent form stored in the table (mate distances are
// otherwise meaningless once reused from a different ply).
func ToTT(score int32, ply int) int32 {
	switch {
	case score >= mateThreshold:
		return score + int32(ply)
	case score <= -mateThreshold:
		return score - int32(ply)
	default:
		return score
	}
}

// FromTT reverses ToTT when an entry is read back at ply.
func FromTT(score int32, ply int) int32 {
	switch {
	case score >= mateThreshold:
		return score - int32(ply)
	case score <= -mateThreshold:
		return score + int32(ply)
	default:
		return score
	}
}
