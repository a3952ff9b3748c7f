// Package usi contains a driver for using the engine under the USI protocol, the shogi
// analogue of UCI.
//
// See: http://shogidokoro.starfree.jp/usi.html
package usi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/logw"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/engine"
	"github.com/taotao54321/naitou/pkg/kifu"
)

const ProtocolName = "usi"

// state names the five phases of the USI session, matching the original engine's own state
// machine: a command valid in one phase is an error in another.
type state uint8

const (
	stateInitial state = iota
	stateNotReady
	stateReady
	stateWaitingPosition
	statePlaying
)

// Driver implements a USI driver for an engine. It is activated if sent "usi". Unlike a
// chess UCI driver, there is no pondering or background search to report: "go" always answers
// immediately, since the original engine has no time control.
type Driver struct {
	e *engine.Engine

	out chan<- string

	st        state
	timelimit bool

	quit   chan struct{}
	closed bool
}

// NewDriver starts a driver reading lines from in and writing protocol output to the
// returned channel, until "quit" or the input channel closes.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		st:   stateInitial,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if !d.closed {
		d.closed = true
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "USI protocol initialized")

	for line := range in {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]

		if name == "quit" {
			return
		}

		if err := d.onCmd(ctx, name, args); err != nil {
			logw.Errorf(ctx, "usi: %v: %v", name, err)
			return
		}
	}
}

func (d *Driver) onCmd(ctx context.Context, name string, args []string) error {
	switch d.st {
	case stateInitial:
		return d.onCmdInitial(ctx, name)
	case stateNotReady:
		return d.onCmdNotReady(ctx, name, args)
	case stateReady:
		return d.onCmdReady(ctx, name)
	case stateWaitingPosition:
		return d.onCmdWaitingPosition(ctx, name, args)
	case statePlaying:
		return d.onCmdPlaying(ctx, name, args)
	default:
		panic("usi: invalid state")
	}
}

func (d *Driver) onCmdInitial(ctx context.Context, name string) error {
	if name != "usi" {
		return fmt.Errorf("unexpected command %q in initial state", name)
	}

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	d.out <- "option name timelimit type check default false"
	d.out <- "usiok"

	d.st = stateNotReady
	return nil
}

func (d *Driver) onCmdNotReady(ctx context.Context, name string, args []string) error {
	switch name {
	case "isready":
		d.out <- "readyok"
		d.st = stateReady
		return nil
	case "setoption":
		return d.onCmdSetoption(args)
	default:
		return fmt.Errorf("unexpected command %q while not ready", name)
	}
}

// onCmdSetoption handles "setoption name timelimit value <true|false>" only; every other
// option is silently ignored, matching the original.
func (d *Driver) onCmdSetoption(args []string) error {
	if len(args) != 4 || args[0] != "name" || args[2] != "value" {
		return nil
	}
	if args[1] != "timelimit" {
		return nil
	}

	v, err := strconv.ParseBool(args[3])
	if err != nil {
		return fmt.Errorf("setoption: invalid bool %q: %w", args[3], err)
	}
	d.timelimit = v
	return nil
}

func (d *Driver) onCmdReady(ctx context.Context, name string) error {
	if name != "usinewgame" {
		return fmt.Errorf("unexpected command %q while ready", name)
	}
	d.st = stateWaitingPosition
	return nil
}

func (d *Driver) onCmdWaitingPosition(ctx context.Context, name string, args []string) error {
	switch name {
	case "position":
		if err := d.applyPosition(ctx, args); err != nil {
			return err
		}
		d.st = statePlaying
		return nil
	case "gameover":
		d.st = stateNotReady
		return nil
	default:
		return fmt.Errorf("unexpected command %q while waiting for position", name)
	}
}

func (d *Driver) onCmdPlaying(ctx context.Context, name string, args []string) error {
	switch name {
	case "go":
		return d.onCmdGo(ctx)
	case "position":
		return d.applyPosition(ctx, args)
	case "stop":
		// The engine never ponders or searches in the background; nothing to stop.
		return nil
	case "gameover":
		d.st = stateNotReady
		return nil
	default:
		return fmt.Errorf("unexpected command %q while playing", name)
	}
}

func (d *Driver) onCmdGo(ctx context.Context) error {
	entry, err := d.e.Go(ctx)
	if err != nil {
		return err
	}

	switch entry.Kind {
	case kifu.EntryMove, kifu.EntryMyWin:
		d.out <- fmt.Sprintf("bestmove %s", sfen.EncodeMove(entry.Move))
	case kifu.EntryYourWin:
		d.out <- "bestmove resign"
	case kifu.EntryYourSuicide:
		// The protocol has no token for this outcome: the opponent's last move was itself
		// illegal (a suicide into check). There is nothing to play.
		logw.Errorf(ctx, "usi: go: opponent move was a suicide, no bestmove to report")
	}
	return nil
}

// applyPosition parses a USI "position [sfen <...> | startpos] [moves ...]" argument list and
// resynchronizes the engine to it.
func (d *Driver) applyPosition(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: missing argument")
	}

	var start board.Position
	var rest []string

	switch args[0] {
	case "startpos":
		pos, err := sfen.DecodePosition(board.SfenHirate)
		if err != nil {
			panic(err) // the hirate constant always decodes
		}
		start = pos
		rest = args[1:]
	case "sfen":
		if len(args) < 5 {
			return fmt.Errorf("position: incomplete sfen")
		}
		pos, err := sfen.DecodePosition(strings.Join(args[:5], " "))
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		start = pos
		rest = args[5:]
	default:
		return fmt.Errorf("position: invalid magic %q", args[0])
	}

	if len(rest) > 0 && rest[0] == "moves" {
		rest = rest[1:]
	}
	moves, err := sfen.DecodeMoves(rest)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	// The current position, after replaying every recorded move from start, is taken to be the
	// engine's turn: a USI "position" command always describes the state right before the
	// engine is asked to move next.
	my := board.Sente
	if len(moves)%2 != 0 {
		my = board.Gote
	}

	handicap, ok := handicapFor(start, my)
	if !ok {
		return fmt.Errorf("position: unsupported handicap")
	}

	return d.e.ReplayPosition(ctx, handicap, d.timelimit, moves)
}

var allHandicaps = []board.Handicap{
	board.YourSente, board.YourHishaochi, board.YourNimaiochi,
	board.MySente, board.MyHishaochi, board.MyNimaiochi,
}

// handicapFor finds the handicap whose canonical initial position equals start and whose
// engine-side assignment matches my.
func handicapFor(start board.Position, my board.Side) (board.Handicap, bool) {
	for _, h := range allHandicaps {
		if h.My() != my {
			continue
		}
		want, err := sfen.DecodeHandicap(h)
		if err != nil {
			panic(err)
		}
		if want == start {
			return h, true
		}
	}
	return 0, false
}
