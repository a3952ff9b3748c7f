package price_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/price"
)

func TestOfAccessorsMatchTables(t *testing.T) {
	assert.Equal(t, price.Table0[board.Pawn], price.Of0(board.Pawn))
	assert.Equal(t, price.Table1[board.Rook], price.Of1(board.Rook))
	assert.Equal(t, price.Table2[board.King], price.Of2(board.King))
	assert.Equal(t, price.Table3[board.Dragon], price.Of3(board.Dragon))
}

func TestKingIsMostValuableInEveryTable(t *testing.T) {
	for _, table := range [][board.NumPieces]uint8{price.Table0, price.Table1, price.Table2, price.Table3} {
		for pt, v := range table {
			if board.Piece(pt) == board.King {
				continue
			}
			assert.Less(t, v, table[board.King])
		}
	}
}
