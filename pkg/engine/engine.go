// Package engine provides a mutex-guarded facade over pkg/ai's thinking routine, so that
// multiple owners (a protocol driver goroutine and, say, a concurrent health check) can share
// one process-level instance safely.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/kifu"
)

var version = build.NewVersion(0, 1, 0)

// Engine wraps an *ai.Ai with the name/author identity a protocol adapter reports, and a
// mutex so the thinking routine is never entered concurrently.
type Engine struct {
	name, author string

	mu     sync.Mutex
	ai     *ai.Ai
	logger ai.Logger
}

// Option is an engine creation option.
type Option func(*Engine)

// WithLogger configures the logger passed to every Think call. Defaults to ai.NullLogger.
func WithLogger(logger ai.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine for the given handicap and time-control setting.
func New(ctx context.Context, name, author string, handicap board.Handicap, timelimit bool, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		logger: ai.NullLogger{},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.ai = ai.NewAi(handicap, timelimit)

	logw.Infof(ctx, "Initialized engine: %v", e.Name())
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// Reset re-initializes the engine for a new game under the given handicap and time-control
// setting, discarding all prior game state (progress counters, opening-book state).
func (e *Engine) Reset(ctx context.Context, handicap board.Handicap, timelimit bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset handicap=%v timelimit=%v", handicap, timelimit)
	e.ai = ai.NewAi(handicap, timelimit)
}

// Position returns the current position.
func (e *Engine) Position() board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ai.Pos()
}

// IsMyTurn reports whether it is the engine's turn to move.
func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ai.IsMyTurn()
}

// MoveYour applies an opponent move. Returns an error if it is not currently the opponent's
// turn.
func (e *Engine) MoveYour(ctx context.Context, mv board.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ai.IsMyTurn() {
		return fmt.Errorf("engine: move %v: not opponent's turn", mv)
	}

	logw.Infof(ctx, "MoveYour %v", mv)
	e.ai.MoveYour(mv)
	return nil
}

// Go runs one thinking cycle and applies the resulting move (if any), returning the outcome.
// Returns an error if it is not currently the engine's turn.
func (e *Engine) Go(ctx context.Context) (kifu.RecordEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ai.IsMyTurn() {
		return kifu.RecordEntry{}, fmt.Errorf("engine: go: not engine's turn")
	}

	entry, _ := e.ai.StepMy(e.logger)
	logw.Infof(ctx, "Go -> %v", entry)
	return entry, nil
}

// ReplayPosition reconstructs game state by replaying a full move history from the handicap's
// initial position: for each move, if it is the engine's turn the engine thinks and asserts
// the result matches the recorded move (the engine's own history must be a deterministic
// function of the game so far), otherwise the move is applied as an opponent move. This lets
// a protocol adapter resynchronize the engine's persistent state (progress counters, opening
// book position) from a bare position-plus-moves command, rather than needing the process to
// have been alive for the whole game.
func (e *Engine) ReplayPosition(ctx context.Context, handicap board.Handicap, timelimit bool, moves []board.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "ReplayPosition handicap=%v timelimit=%v moves=%v", handicap, timelimit, moves)

	a := ai.NewAi(handicap, timelimit)
	for _, mv := range moves {
		if a.IsMyTurn() {
			entry, _ := a.StepMy(e.logger)
			var played board.Move
			switch entry.Kind {
			case kifu.EntryMove, kifu.EntryMyWin:
				played = entry.Move
			default:
				return fmt.Errorf("engine: replay: engine reported %v instead of a move", entry)
			}
			if !played.Equals(mv) {
				return fmt.Errorf("engine: replay: move mismatch (recorded %v, engine played %v)", mv, played)
			}
		} else {
			a.MoveYour(mv)
		}
	}

	e.ai = a
	return nil
}
