package movegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/movegen"
)

func TestMovesLegalHirateCount(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	mvs := movegen.MovesLegal(pos)

	// The standard shogi starting position has exactly 30 legal moves for the side to move.
	assert.Len(t, mvs, 30)
	for _, mv := range mvs {
		assert.False(t, mv.IsDrop, "no pieces are in hand at the start of the game")
	}
}

func TestMovesLegalNoPseudoLegalSelfCapture(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	mvs := movegen.MovesLegal(pos)
	for _, mv := range mvs {
		if mv.IsDrop {
			continue
		}
		cell := pos.Board().At(mv.Dst)
		assert.False(t, cell.IsSide(pos.Side()), "move %v captures own piece", mv)
	}
}
