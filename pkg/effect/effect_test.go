package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/effect"
)

func TestFromBoardHirateRooksAndBishopsBearOnOwnPawns(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	eb := effect.FromBoard(pos.Board(), pos.Side())

	// Sente's rook sits at 2h and bears directly on its own pawn at 2g.
	cell := eb.At(board.SqFromXY(8, 7))
	info := cell[board.Sente]
	assert.GreaterOrEqual(t, info.Count, uint8(1))
	assert.True(t, info.HasAttacker)
}

func TestFromBoardScanOrderDoesNotChangeEffectPresence(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	ebSente := effect.FromBoard(pos.Board(), board.Sente)
	ebGote := effect.FromBoard(pos.Board(), board.Gote)

	sq := board.SqFromXY(8, 7)
	assert.Equal(t, ebSente.At(sq)[board.Sente].Count, ebGote.At(sq)[board.Sente].Count)
}

func TestEmptyBoardHasNoEffects(t *testing.T) {
	eb := effect.Empty()
	for _, sq := range board.IterValid() {
		cell := eb.At(sq)
		assert.Equal(t, uint8(0), cell[board.Sente].Count)
		assert.Equal(t, uint8(0), cell[board.Gote].Count)
	}
}
