package sfen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
)

func TestDecodeEncodePositionRoundTrip(t *testing.T) {
	for _, s := range []string{board.SfenHirate, board.SfenHishaochi, board.SfenNimaiochi} {
		pos, err := sfen.DecodePosition(s)
		require.NoError(t, err)
		assert.Equal(t, s, sfen.EncodePosition(pos))
	}
}

func TestDecodeHandicapMatchesHandicapInitialSfen(t *testing.T) {
	for _, h := range []board.Handicap{
		board.YourSente, board.YourHishaochi, board.YourNimaiochi,
		board.MySente, board.MyHishaochi, board.MyNimaiochi,
	} {
		pos, err := sfen.DecodeHandicap(h)
		require.NoError(t, err)
		assert.Equal(t, h.InitialSfen(), sfen.EncodePosition(pos))
	}
}

func TestDecodeMoveRoundTrip(t *testing.T) {
	nondrop := board.NewMoveNondrop(board.SqFromXY(7, 7), board.SqFromXY(7, 6), false)
	s := sfen.EncodeMove(nondrop)
	mv, err := sfen.DecodeMove(s)
	require.NoError(t, err)
	assert.True(t, mv.Equals(nondrop))

	drop := board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))
	s = sfen.EncodeMove(drop)
	mv, err = sfen.DecodeMove(s)
	require.NoError(t, err)
	assert.True(t, mv.Equals(drop))

	promo := board.NewMoveNondrop(board.SqFromXY(2, 3), board.SqFromXY(2, 2), true)
	s = sfen.EncodeMove(promo)
	mv, err = sfen.DecodeMove(s)
	require.NoError(t, err)
	assert.True(t, mv.Equals(promo))
}

func TestDecodeKifuWithMoves(t *testing.T) {
	s := board.SfenHirate + " moves 7g7f 3c3d"
	k, err := sfen.DecodeKifu(s)
	require.NoError(t, err)
	assert.Len(t, k.Moves, 2)
}

func TestDecodePositionRejectsGarbage(t *testing.T) {
	_, err := sfen.DecodePosition("sfen not-a-valid-board b - 1")
	assert.Error(t, err)
}
