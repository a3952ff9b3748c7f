// Package randomopp drives a full game between the engine and an opponent that plays a
// uniformly random legal move every turn. When the opponent has no legal move left, the
// game ends without a further record entry.
package randomopp

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/seekerror/logw"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/kifu"
	"github.com/taotao54321/naitou/pkg/movegen"
)

// DefaultMaxPly bounds a game's length so a cycle of repeated positions (shogi has no
// built-in draw rule here) cannot run forever.
const DefaultMaxPly = 500

// Play runs one game to completion (or until maxPly entries have been recorded) and returns
// the full record. The opponent's moves are chosen uniformly at random from movegen.MovesLegal
// via rng; pass a seeded *rand.Rand for reproducible games.
func Play(ctx context.Context, handicap board.Handicap, timelimit bool, logger ai.Logger, rng *rand.Rand, maxPly int) kifu.Record {
	if logger == nil {
		logger = ai.NullLogger{}
	}
	if maxPly <= 0 {
		maxPly = DefaultMaxPly
	}

	a := ai.NewAi(handicap, timelimit)
	record := kifu.NewRecord(handicap, timelimit)

	for ply := 0; ply < maxPly; ply++ {
		if a.IsMyTurn() {
			entry, _ := a.StepMy(logger)
			record.Add(entry)
			logw.Infof(ctx, "ply %d: engine plays %v", ply, entry)

			switch entry.Kind {
			case kifu.EntryMove:
				continue
			default:
				return record
			}
		}

		mv, ok := chooseRandomMove(a.Pos(), rng)
		if !ok {
			// The opponent has no legal reply at all: a literal checkmate or stalemate the
			// engine's own heuristic win detection may not have flagged via EntryMyWin on the
			// preceding entry. There is no dedicated RecordEntry for this (the thinking routine
			// never needs to enumerate the opponent's full legal move set itself), so the game
			// simply ends here without a further entry.
			logw.Infof(ctx, "ply %d: opponent has no legal move, game over", ply)
			return record
		}

		a.MoveYour(mv)
		record.Add(kifu.NewEntryMove(mv))
		logw.Infof(ctx, "ply %d: opponent plays %v", ply, mv)
	}

	logw.Infof(ctx, "game reached max ply %d without a decided outcome", maxPly)
	return record
}

func chooseRandomMove(pos board.Position, rng *rand.Rand) (board.Move, bool) {
	mvs := movegen.MovesLegal(pos)
	if len(mvs) == 0 {
		return board.Move{}, false
	}
	return mvs[rng.Intn(len(mvs))], true
}

// Summary reports a short human-readable description of how a finished record ended.
func Summary(r kifu.Record) string {
	if len(r.Entries) == 0 {
		return "no moves played"
	}
	last := r.Entries[len(r.Entries)-1]
	switch last.Kind {
	case kifu.EntryMyWin:
		return fmt.Sprintf("engine wins by move %v", last.Move)
	case kifu.EntryYourWin:
		return "engine resigns (its own position judged lost)"
	case kifu.EntryYourSuicide:
		return "opponent played a suicidal move"
	default:
		return fmt.Sprintf("game ended mid-play after %d entries", len(r.Entries))
	}
}
