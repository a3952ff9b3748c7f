// Package price holds the four piece-value tables the evaluator indexes by piece kind and
// by context (attacker comparison, hanging-piece detection, exchange tweak steps).
package price

import "github.com/taotao54321/naitou/pkg/board"

// Table0 through Table3 are indexed by piece kind in declaration order: Pawn, Lance,
// Knight, Silver, Bishop, Rook, Gold, King, ProPawn, ProLance, ProKnight, ProSilver, Horse,
// Dragon. Each table is used by a different evaluation concern in pkg/ai; the values
// themselves, and which table a given step reads from, are load-bearing constants carried
// over verbatim.
var (
	Table0 = [board.NumPieces]uint8{1, 4, 4, 8, 16, 17, 8, 40, 2, 5, 6, 8, 20, 22}
	Table1 = [board.NumPieces]uint8{1, 4, 4, 8, 16, 17, 8, 40, 8, 8, 8, 8, 22, 22}
	Table2 = [board.NumPieces]uint8{1, 4, 4, 8, 16, 17, 8, 40, 2, 8, 8, 8, 22, 22}
	Table3 = [board.NumPieces]uint8{1, 4, 4, 8, 16, 17, 8, 40, 1, 4, 4, 8, 20, 22}
)

func Of0(pt board.Piece) uint8 { return Table0[pt] }
func Of1(pt board.Piece) uint8 { return Table1[pt] }
func Of2(pt board.Piece) uint8 { return Table2[pt] }
func Of3(pt board.Piece) uint8 { return Table3[pt] }
