package randomopp_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/kifu"
	"github.com/taotao54321/naitou/pkg/randomopp"
)

func TestPlayTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	record := randomopp.Play(context.Background(), board.YourSente, false, ai.NullLogger{}, rng, 200)

	assert.Equal(t, board.YourSente, record.Handicap)
	assert.NotEmpty(t, record.Entries)
	assert.LessOrEqual(t, len(record.Entries), 200)
}

func TestSummary(t *testing.T) {
	r := kifu.NewRecord(board.YourSente, false)
	r.Add(kifu.NewEntryMyWin(board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))))
	assert.Contains(t, randomopp.Summary(r), "engine wins")

	r2 := kifu.NewRecord(board.YourSente, false)
	r2.Add(kifu.NewEntryYourWin())
	assert.Contains(t, randomopp.Summary(r2), "resigns")
}
