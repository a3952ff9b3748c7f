package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/effect"
	"github.com/taotao54321/naitou/pkg/pretty"
	"github.com/taotao54321/naitou/pkg/thinklog"
)

func TestPrettySq(t *testing.T) {
	// Display file digit d maps to internal SqX via x = 10-d; file "７" is x=3.
	sq := board.SqFromXY(3, 6)
	assert.Equal(t, "７六", pretty.PrettySq(sq))
}

func TestPrettyMove(t *testing.T) {
	drop := board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))
	assert.Equal(t, "５五歩打", pretty.PrettyMove(drop))

	// File "７" is x=3, file "６" is x=4.
	nondrop := board.NewMoveNondrop(board.SqFromXY(3, 7), board.SqFromXY(4, 6), false)
	assert.Equal(t, "７七６六", pretty.PrettyMove(nondrop))

	// File "２" is x=8.
	promo := board.NewMoveNondrop(board.SqFromXY(8, 3), board.SqFromXY(8, 2), true)
	assert.Equal(t, "２三２二成", pretty.PrettyMove(promo))
}

func TestPrettyHand(t *testing.T) {
	var h board.Hand
	h.Set(board.Pawn, 3)
	h.Set(board.Rook, 1)

	assert.Equal(t, "飛 歩3", pretty.PrettyHand(h))
}

func TestPrettyBoardNonEmpty(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	s := pretty.PrettyBoard(pos.Board())
	assert.Contains(t, s, "玉")
	assert.Contains(t, s, "v玉")
}

func TestPrettyEffectBoardRenders(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	eb := effect.FromBoard(pos.Board(), pos.Side())
	s := pretty.PrettyEffectBoard(eb)
	assert.NotEmpty(t, s)
}

func TestPrettyLogRendersACompletedThinkingCycle(t *testing.T) {
	a := ai.NewAi(board.MySente, false)
	recorder := thinklog.NewRecordingLogger()
	a.Think(recorder)

	s := pretty.PrettyLog(recorder.IntoLog())
	assert.NotEmpty(t, s)
}
