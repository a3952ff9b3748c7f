package movegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/effect"
	"github.com/taotao54321/naitou/pkg/movegen"
)

func TestMovesPseudoLegalHirateMatchesLegalCount(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	eb := effect.FromBoard(pos.Board(), pos.Side())
	pseudo := movegen.MovesPseudoLegal(pos, eb)

	// No pins exist in the starting position, so pseudo-legal and fully-legal move sets
	// coincide.
	assert.Len(t, pseudo, 30)
}

func TestIsLegalNondropRejectsCaptureOfOwnPiece(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)
	eb := effect.FromBoard(pos.Board(), pos.Side())

	// Sente's own pawn at 7g to 7f is a normal legal move...
	mv := board.NewMoveNondrop(board.SqFromXY(7, 7), board.SqFromXY(7, 6), false)
	assert.True(t, movegen.IsLegalNondrop(pos, eb, mv))

	// ...but the king stepping sideways onto Sente's own adjacent gold general is not.
	bad := board.NewMoveNondrop(board.SqFromXY(5, 9), board.SqFromXY(4, 9), false)
	assert.False(t, movegen.IsLegalNondrop(pos, eb, bad))
}
