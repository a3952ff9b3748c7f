package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/book"
)

func TestFormationFromHandicap(t *testing.T) {
	assert.Equal(t, book.Nakabisha, book.FormationFromHandicap(board.YourSente, true))
	assert.Equal(t, book.Sikenbisha, book.FormationFromHandicap(board.YourSente, false))
	assert.Equal(t, book.Nakabisha, book.FormationFromHandicap(board.MySente, true))
	assert.Equal(t, book.YourHishaochi, book.FormationFromHandicap(board.YourHishaochi, false))
	assert.Equal(t, book.YourNimaiochi, book.FormationFromHandicap(board.YourNimaiochi, true))
	assert.Equal(t, book.MyHishaochi, book.FormationFromHandicap(board.MyHishaochi, false))
	assert.Equal(t, book.MyNimaiochi, book.FormationFromHandicap(board.MyNimaiochi, true))
}

func TestNewStateFormation(t *testing.T) {
	s := book.NewState(book.Nakabisha)
	assert.Equal(t, book.Nakabisha, s.Formation())
}

func TestProcessReturnsMoveFromHirate(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	s := book.NewState(book.Nakabisha)
	mv, ok := s.Process(pos, 0)
	require.True(t, ok)
	assert.False(t, mv.IsDrop)
}

func TestProcessExhaustsEventually(t *testing.T) {
	pos, err := sfen.DecodePosition(board.SfenHirate)
	require.NoError(t, err)

	s := book.NewState(book.Nakabisha)
	for i := 0; i < 1000; i++ {
		if _, ok := s.Process(pos, uint8(i)); !ok {
			assert.Equal(t, book.Nothing, s.Formation())
			return
		}
	}
	t.Fatal("book never exhausted after 1000 calls against a static position")
}
