package kifu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/kifu"
)

func TestRecordStringParseRoundTrip(t *testing.T) {
	r := kifu.NewRecord(board.YourSente, true)
	r.Add(kifu.NewEntryMove(board.NewMoveNondrop(board.SqFromXY(7, 7), board.SqFromXY(7, 6), false)))
	r.Add(kifu.NewEntryMove(board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))))
	r.Add(kifu.NewEntryMyWin(board.NewMoveNondrop(board.SqFromXY(2, 2), board.SqFromXY(2, 3), true)))

	s := r.String()
	parsed, err := kifu.ParseRecord(s)
	require.NoError(t, err)

	assert.Equal(t, r.Handicap, parsed.Handicap)
	assert.Equal(t, r.Timelimit, parsed.Timelimit)
	require.Len(t, parsed.Entries, len(r.Entries))
	for i, e := range r.Entries {
		assert.Equal(t, e.Kind, parsed.Entries[i].Kind)
		assert.True(t, e.Move.Equals(parsed.Entries[i].Move))
	}
}

func TestEntryStringParseRoundTrip(t *testing.T) {
	entries := []kifu.RecordEntry{
		kifu.NewEntryMove(board.NewMoveDrop(board.Pawn, board.SqFromXY(5, 5))),
		kifu.NewEntryMyWin(board.NewMoveNondrop(board.SqFromXY(2, 2), board.SqFromXY(2, 3), false)),
		kifu.NewEntryYourSuicide(),
		kifu.NewEntryYourWin(),
	}
	for _, e := range entries {
		parsed, err := kifu.ParseEntry(e.String())
		require.NoError(t, err)
		assert.Equal(t, e.Kind, parsed.Kind)
	}
}

func TestParseRecordRejectsBadHandicap(t *testing.T) {
	_, err := kifu.ParseRecord("not-a-handicap\nfalse\nsfen garbage\n")
	assert.Error(t, err)
}
