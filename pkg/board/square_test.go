package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taotao54321/naitou/pkg/board"
)

func TestSqFromXYRoundTrip(t *testing.T) {
	sq := board.SqFromXY(5, 5)
	assert.Equal(t, board.SqX(5), sq.X())
	assert.Equal(t, board.SqY(5), sq.Y())
	assert.True(t, sq.IsValid())
}

func TestSqInv(t *testing.T) {
	sq := board.SqFromXY(3, 7)
	inv := sq.Inv()
	assert.Equal(t, board.SqX(7), inv.X())
	assert.Equal(t, board.SqY(3), inv.Y())
	// Inverting twice recovers the original square.
	assert.Equal(t, sq, inv.Inv())
}

func TestSqRelIsIdentityForSente(t *testing.T) {
	sq := board.SqFromXY(4, 8)
	assert.Equal(t, sq, sq.Rel(board.Sente))
	assert.Equal(t, sq.Inv(), sq.Rel(board.Gote))
}

func TestSqDist(t *testing.T) {
	a := board.SqFromXY(1, 1)
	b := board.SqFromXY(4, 3)
	assert.Equal(t, 3, a.Dist(b))
}

func TestCanPromote(t *testing.T) {
	// Rank 3 is within Sente's promotion zone (ranks 1-3), rank 4 is not.
	assert.True(t, board.SqY(3).CanPromote(board.Sente))
	assert.False(t, board.SqY(4).CanPromote(board.Sente))
	// From Gote's view ranks 7-9 are the promotion zone.
	assert.True(t, board.SqY(7).CanPromote(board.Gote))
	assert.False(t, board.SqY(6).CanPromote(board.Gote))
}

func TestCanPutPawnLastRank(t *testing.T) {
	assert.False(t, board.SqY(1).CanPut(board.Sente, board.Pawn))
	assert.True(t, board.SqY(2).CanPut(board.Sente, board.Pawn))
	assert.False(t, board.SqY(1).CanPut(board.Sente, board.Knight))
	assert.False(t, board.SqY(2).CanPut(board.Sente, board.Knight))
	assert.True(t, board.SqY(3).CanPut(board.Sente, board.Knight))
}

func TestIterValidCount(t *testing.T) {
	assert.Len(t, board.IterValid(), 81)
	assert.Len(t, board.IterOk(), board.BoardSize)
}

func TestIterValidSimOrderDiffersBySide(t *testing.T) {
	sente := board.IterValidSim(board.Sente)
	gote := board.IterValidSim(board.Gote)
	assert.Equal(t, sente[0], gote[len(gote)-1])
	assert.NotEqual(t, sente, gote)
}
