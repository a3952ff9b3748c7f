package board_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
)

func TestDoMoveUndoMoveNondropRoundTrip(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)
	before := pos

	mv := board.NewMoveNondrop(board.SqFromXY(7, 7), board.SqFromXY(7, 6), false)
	cmd, err := pos.DoMove(mv)
	require.NoError(t, err)
	assert.Equal(t, board.Gote, pos.Side())

	pos.UndoMove(cmd)
	assert.Equal(t, before, pos)
}

func TestDoMoveUndoMoveDropRoundTrip(t *testing.T) {
	var hands board.Hands
	hands.Inc(board.Sente, board.Pawn)
	pos := board.NewPosition(board.Sente, board.EmptyBoard(), hands, 1)
	before := pos

	mv := board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))
	cmd, err := pos.DoMove(mv)
	require.NoError(t, err)
	assert.True(t, pos.Board().At(board.SqFromXY(5, 5)).IsSide(board.Sente))

	pos.UndoMove(cmd)
	assert.Equal(t, before, pos)
}

func TestDoMoveRejectsOccupiedDropSquare(t *testing.T) {
	pos, err := sfen.DecodePosition("sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b P 1")
	require.NoError(t, err)

	mv := board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 3))
	_, err = pos.DoMove(mv)
	assert.Error(t, err)
}

func TestCanCaptureKingFalseAtHirate(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)
	assert.False(t, pos.CanCaptureKing())
}

func TestRandomProducesBothKings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pos := board.Random(rng)

	assert.NotPanics(t, func() { pos.SqKing(board.Sente) })
	assert.NotPanics(t, func() { pos.SqKing(board.Gote) })
}
