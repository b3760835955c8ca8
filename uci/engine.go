// Package uci implements the UCI protocol driver: line-oriented command
// dispatch over the position/movegen/eval/search core, following the
// teacher's zurichess/uci.go shape (a dispatcher keyed by the leading
// command word, engine state held in one struct rather than globals).
package uci

import (
	"fmt"
	"time"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/eval"
	"github.com/phuang1024/swordfish/movegen"
	"github.com/phuang1024/swordfish/perft"
	"github.com/phuang1024/swordfish/position"
	"github.com/phuang1024/swordfish/search"
)

// DefaultHashTableSizeMB mirrors the teacher's DefaultHashTableSizeMB
// constant naming, used both as the UCI "Hash" option default and the
// size handed to search.NewTT when the driver is constructed directly.
const DefaultHashTableSizeMB = 64

// Engine bundles everything one UCI session needs: the live position, the
// Zobrist key table it was built from, the transposition table and the
// searcher that owns it. Nothing here is a package-level singleton —
// two Engines in the same process never share state.
type Engine struct {
	Keys     *board.ZobristKeys
	Position *position.Position
	TT       *search.TT
	Searcher *search.Searcher

	perftCache *perft.Cache
}

// NewEngine builds an Engine with a fresh standard starting position and
// a transposition table sized hashMB megabytes.
func NewEngine(hashMB int) *Engine {
	keys := board.NewZobristKeys(1)
	tt := search.NewTT(hashMB)
	return &Engine{
		Keys:       keys,
		Position:   position.NewStandard(keys),
		TT:         tt,
		Searcher:   search.NewSearcher(tt),
		perftCache: perft.NewCache(16),
	}
}

// SetPosition replaces the live position outright (used by the "position"
// command, never by Push — search clones instead of mutating in place).
func (e *Engine) SetPosition(pos *position.Position) {
	e.Position = pos
}

// Resize rebuilds the transposition table at a new size, discarding its
// contents — mirrors the teacher's "setoption name Hash" handler
// replacing GlobalHashTable outright rather than trying to resize live.
func (e *Engine) Resize(hashMB int) {
	e.TT = search.NewTT(hashMB)
	e.Searcher = search.NewSearcher(e.TT)
}

// ApplyUCIMove parses a move in UCI notation, validates it against the
// current legal move list, and pushes it if legal. Returns an error for
// syntactically invalid or illegal input; the position is left unchanged
// on error, matching the spec's input-error recovery policy (log, keep
// prior state).
func (e *Engine) ApplyUCIMove(uciMove string) error {
	m, err := board.MoveFromUCI(uciMove)
	if err != nil {
		return fmt.Errorf("bad move %q: %w", uciMove, err)
	}
	legal, _ := movegen.Legal(e.Position)
	found := false
	for _, lm := range legal {
		if lm == m {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("illegal move %q in current position", uciMove)
	}
	e.Position.Push(m)
	return nil
}

// searchInfo is what the driver reports per completed iterative-deepening
// depth; Format renders it as one UCI "info" line, with "pv" last per
// convention (spec.md §6).
type searchInfo struct {
	depth   int
	score   int32
	nodes   uint64
	elapsed time.Duration
	pv      []board.Move
	hashful int
}

func (si searchInfo) Format() string {
	elapsed := si.elapsed
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	nps := uint64(float64(si.nodes) / elapsed.Seconds())
	millis := elapsed.Milliseconds()

	scoreField := formatScore(si.score)

	s := fmt.Sprintf("info depth %d seldepth %d nodes %d nps %d time %d hashfull %d %s pv",
		si.depth, si.depth, si.nodes, nps, millis, si.hashful, scoreField)
	for _, m := range si.pv {
		s += " " + m.UCI()
	}
	return s
}

// formatScore renders score as UCI's "score cp <n>" or "score mate <n>",
// converting the stored mate-distance score into moves-to-mate the way
// the teacher's uciLogger.PrintPV does.
func formatScore(score int32) string {
	const mate = eval.Mate
	if score > mate-1000 {
		return fmt.Sprintf("score mate %d", (mate-score+1)/2)
	}
	if score < -(mate - 1000) {
		return fmt.Sprintf("score mate %d", -(mate+score+1)/2)
	}
	return fmt.Sprintf("score cp %d", score)
}
