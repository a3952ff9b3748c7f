package movegen

import (
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/effect"
)

// MovesLegal enumerates every fully legal move pos's side to move has available: every
// pseudo-legal move (per MovesPseudoLegal) that does not leave the mover's own king capturable
// afterward. Pawn-drop checkmate ("uchifuzume") is not excluded here, matching the original;
// only outright self-check is filtered.
//
// This is not used by the thinking routine itself, which never needs a full legal move list
// for its own side (pseudo-legal generation plus the mate test after the fact suffices there).
// It exists for callers that need a genuine legal move set: the random-opponent driver and
// tests.
func MovesLegal(pos board.Position) []board.Move {
	eb := effect.FromBoard(pos.Board(), pos.Side())
	mvs := MovesPseudoLegal(pos, eb)

	var legal []board.Move
	for _, mv := range mvs {
		cmd, err := pos.DoMove(mv)
		if err != nil {
			continue
		}
		ok := !pos.CanCaptureKing()
		pos.UndoMove(cmd)
		if ok {
			legal = append(legal, mv)
		}
	}
	return legal
}
