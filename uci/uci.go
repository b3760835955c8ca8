package uci

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phuang1024/swordfish/board"
	"github.com/phuang1024/swordfish/eval"
	"github.com/phuang1024/swordfish/movegen"
	"github.com/phuang1024/swordfish/perft"
	"github.com/phuang1024/swordfish/position"
	"github.com/phuang1024/swordfish/search"
)

// ErrQuit is returned by Execute for the "quit" command; the driver loop
// treats it as the only non-error reason to stop reading lines.
var ErrQuit = errors.New("quit")

// UCI dispatches UCI protocol lines to an Engine, following the teacher's
// UCI.Execute shape: a regexp pulls the leading command word, a switch
// dispatches to one handler method per command. Unlike the teacher, this
// driver is single-threaded cooperative per spec.md §5 — "go" runs to
// completion (or its movetime deadline) before Execute returns, so there
// is no idle/ponder channel bookkeeping to do.
type UCI struct {
	Engine *Engine
	Log    *log.Logger
}

// NewUCI builds a driver around a fresh Engine with the default hash
// table size.
func NewUCI(logger *log.Logger) *UCI {
	return &UCI{
		Engine: NewEngine(DefaultHashTableSizeMB),
		Log:    logger,
	}
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute handles one input line. A malformed or unknown command returns
// a plain error and leaves engine state untouched — the caller logs it
// and keeps reading, per spec.md §7's input-error policy.
func (u *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	switch cmd {
	case "uci":
		return u.uci()
	case "isready":
		return u.isready()
	case "ucinewgame":
		return u.ucinewgame()
	case "position":
		return u.position(line)
	case "go":
		return u.goCmd(line)
	case "setoption":
		return u.setoption(line)
	case "d":
		return u.d()
	case "eval":
		return u.evalCmd()
	case "quit":
		return ErrQuit
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (u *UCI) uci() error {
	fmt.Println("id name swordfish")
	fmt.Println("id author the swordfish authors")
	fmt.Println()
	fmt.Printf("option name Hash type spin default %d min 1 max 65536\n", DefaultHashTableSizeMB)
	fmt.Println("uciok")
	return nil
}

func (u *UCI) isready() error {
	fmt.Println("readyok")
	return nil
}

func (u *UCI) ucinewgame() error {
	u.Engine.SetPosition(position.NewStandard(u.Engine.Keys))
	u.Engine.TT = search.NewTT(DefaultHashTableSizeMB)
	u.Engine.Searcher = search.NewSearcher(u.Engine.TT)
	return nil
}

func (u *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *position.Position
	var err error
	i := 0

	switch args[0] {
	case "startpos":
		pos = position.NewStandard(u.Engine.Keys)
		i = 1
	case "fen":
		j := 1
		for j < len(args) && args[j] != "moves" {
			j++
		}
		pos, err = position.ParseFEN(u.Engine.Keys, strings.Join(args[1:j], " "))
		i = j
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	prev := u.Engine.Position
	u.Engine.SetPosition(pos)

	if i < len(args) {
		if args[i] != "moves" {
			u.Engine.SetPosition(prev)
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, m := range args[i+1:] {
			if err := u.Engine.ApplyUCIMove(m); err != nil {
				u.Engine.SetPosition(prev)
				return err
			}
		}
	}
	return nil
}

func (u *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return fmt.Errorf("invalid setoption arguments")
	}
	if len(option) < 3 {
		return fmt.Errorf("missing setoption value")
	}
	switch option[1] {
	case "Hash":
		mb, err := strconv.Atoi(option[3])
		if err != nil {
			return fmt.Errorf("bad Hash value: %w", err)
		}
		u.Engine.Resize(mb)
		return nil
	default:
		return fmt.Errorf("unhandled option %s", option[1])
	}
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)

func (u *UCI) d() error {
	fmt.Println(renderBoard(u.Engine.Position))
	return nil
}

func (u *UCI) evalCmd() error {
	pos := u.Engine.Position
	moves, attacked := movegen.Legal(pos)
	var ownKing board.Square
	if kingBB := pos.ByPiece(pos.Turn, board.King); kingBB != 0 {
		ownKing = kingBB.AsSquare()
	}
	score := eval.Evaluate(pos, len(moves), attacked, ownKing, 0)
	if pos.Turn == board.Black {
		score = -score
	}
	fmt.Printf("Static evaluation: %d cp (side to move's perspective)\n", score)
	return nil
}

// validGoArgs lists every "go" subcommand keyword, used to find where a
// "searchmoves" token list ends.
var validGoArgs = map[string]bool{
	"searchmoves": true,
	"ponder":      true,
	"wtime":       true,
	"btime":       true,
	"winc":        true,
	"binc":        true,
	"movestogo":   true,
	"depth":       true,
	"nodes":       true,
	"mate":        true,
	"movetime":    true,
	"infinite":    true,
	"perft":       true,
}

func (u *UCI) goCmd(line string) error {
	args := strings.Fields(line)[1:]

	var clock search.ClockArgs
	var limits search.Limits
	perftDepth := -1

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for i+1 < len(args) && !validGoArgs[args[i+1]] {
				i++
			}
		case "depth":
			i++
			d, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("bad depth: %w", err)
			}
			limits.Depth = d
		case "movetime":
			i++
			ms, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("bad movetime: %w", err)
			}
			clock.Movetime = time.Duration(ms) * time.Millisecond
		case "wtime":
			i++
			ms, _ := strconv.Atoi(args[i])
			clock.WTime = time.Duration(ms) * time.Millisecond
		case "winc":
			i++
			ms, _ := strconv.Atoi(args[i])
			clock.WInc = time.Duration(ms) * time.Millisecond
		case "btime":
			i++
			ms, _ := strconv.Atoi(args[i])
			clock.BTime = time.Duration(ms) * time.Millisecond
		case "binc":
			i++
			ms, _ := strconv.Atoi(args[i])
			clock.BInc = time.Duration(ms) * time.Millisecond
		case "movestogo", "nodes", "mate":
			// Accepted for UCI compliance; movestogo/nodes/mate are not
			// part of spec.md's time/search model and are ignored, same
			// as the teacher ignoring "nodes"/"mate". Their value is skipped.
			i++
		case "ponder", "infinite":
		case "perft":
			i++
			d, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("bad perft depth: %w", err)
			}
			perftDepth = d
		default:
			return fmt.Errorf("invalid go argument %s", args[i])
		}
	}

	if perftDepth >= 0 {
		return u.runPerft(perftDepth)
	}

	limits.Movetime = search.MovetimeFromArgs(u.Engine.Position, clock)
	move, _ := u.Engine.Searcher.Search(u.Engine.Position, limits, func(depth int, score int32, nodes uint64, elapsed time.Duration, pv []board.Move) {
		info := searchInfo{
			depth:   depth,
			score:   score,
			nodes:   nodes,
			elapsed: elapsed,
			pv:      pv,
			hashful: u.Engine.TT.HashFull(),
		}
		fmt.Println(info.Format())
	})

	if move.IsNull() {
		fmt.Println("bestmove (none)")
	} else {
		fmt.Printf("bestmove %s\n", move.UCI())
	}
	return nil
}

// runPerft runs the "go perft N" supplemental command (spec.md §6's "go
// [...] perft N"): one "<move>: <nodes>" divide line per root move, then a
// "Nodes searched" total, using the shared perft package so the live engine
// and the test suite run the identical counter.
func (u *UCI) runPerft(depth int) error {
	entries, total := perft.Divide(u.Engine.Position, depth)
	for _, e := range entries {
		fmt.Printf("%s: %d\n", e.Move.UCI(), e.Nodes)
	}
	fmt.Printf("\nNodes searched: %d\n", total)
	return nil
}
