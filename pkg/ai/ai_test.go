package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/kifu"
)

func TestNewAiMySenteThinksFirstMove(t *testing.T) {
	a := ai.NewAi(board.MySente, false)
	require.True(t, a.IsMyTurn())

	entry, _ := a.StepMy(ai.NullLogger{})
	switch entry.Kind {
	case kifu.EntryMove, kifu.EntryMyWin:
		if !entry.Move.IsDrop {
			assert.NotEqual(t, entry.Move.Src, entry.Move.Dst)
		}
	default:
		t.Fatalf("unexpected opening entry kind: %v", entry.Kind)
	}

	// The position should have advanced to the opponent's turn.
	assert.False(t, a.IsMyTurn())
}

func TestNewAiYourSenteWaitsForOpponent(t *testing.T) {
	a := ai.NewAi(board.YourSente, false)
	assert.False(t, a.IsMyTurn())
	assert.True(t, a.IsYourTurn())
}

func TestMoveYourAdvancesTurn(t *testing.T) {
	a := ai.NewAi(board.YourSente, false)
	require.True(t, a.IsYourTurn())

	mv := board.NewMoveNondrop(board.SqFromXY(7, 7), board.SqFromXY(7, 6), false)
	a.MoveYour(mv)

	assert.True(t, a.IsMyTurn())
}

func TestStepMyIsDeterministicFromTheOpeningPosition(t *testing.T) {
	a1 := ai.NewAi(board.MySente, false)
	a2 := ai.NewAi(board.MySente, false)

	e1, _ := a1.StepMy(ai.NullLogger{})
	e2, _ := a2.StepMy(ai.NullLogger{})

	assert.Equal(t, e1.Kind, e2.Kind)
	assert.True(t, e1.Move.Equals(e2.Move), "engine's opening move must be deterministic")
}
