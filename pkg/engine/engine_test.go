package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/engine"
)

func TestNewAndTurn(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "test", board.YourSente, false)

	assert.Contains(t, e.Name(), "naitou")
	assert.Equal(t, "test", e.Author())
	// YourSente: the engine plays Gote, so the opponent (Sente) moves first.
	assert.False(t, e.IsMyTurn())
}

func TestMoveYourWrongTurn(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "test", board.MySente, false, engine.WithLogger(ai.NullLogger{}))

	// MySente: the engine is to move first.
	require.True(t, e.IsMyTurn())
	err := e.MoveYour(ctx, board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5)))
	assert.Error(t, err)
}

func TestGoWrongTurn(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "test", board.YourSente, false)

	require.False(t, e.IsMyTurn())
	_, err := e.Go(ctx)
	assert.Error(t, err)
}

func TestReplayPositionEmpty(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "naitou", "test", board.YourSente, false)

	require.NoError(t, e.ReplayPosition(ctx, board.MySente, false, nil))
	assert.True(t, e.IsMyTurn())
}
