// Package board contains shogi board representation and utilities: squares, pieces, hands
// and positions on the 11x11 wall-framed playing field.
package board

import "fmt"

// CellKind discriminates the three states a board cell can be in.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall
	CellOccupied
)

// BoardCell is the content of a single board square: empty, the impassable wall frame, or
// occupied by a piece of one side.
type BoardCell struct {
	Kind  CellKind
	Side  Side
	Piece Piece
}

func EmptyCell() BoardCell {
	return BoardCell{Kind: CellEmpty}
}

func WallCell() BoardCell {
	return BoardCell{Kind: CellWall}
}

func OccupiedCell(side Side, pt Piece) BoardCell {
	return BoardCell{Kind: CellOccupied, Side: side, Piece: pt}
}

func (c BoardCell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

func (c BoardCell) IsWall() bool {
	return c.Kind == CellWall
}

func (c BoardCell) IsOccupied() bool {
	return c.Kind == CellOccupied
}

// IsSide returns true iff the cell holds a piece belonging to side.
func (c BoardCell) IsSide(side Side) bool {
	return c.Kind == CellOccupied && c.Side == side
}

// PieceAt returns the occupying piece kind and whether the cell is occupied.
func (c BoardCell) PieceAt() (Piece, bool) {
	if c.Kind != CellOccupied {
		return 0, false
	}
	return c.Piece, true
}

// SidePiece returns the occupying side and piece kind, and whether the cell is occupied.
func (c BoardCell) SidePiece() (Side, Piece, bool) {
	if c.Kind != CellOccupied {
		return 0, 0, false
	}
	return c.Side, c.Piece, true
}

func (c BoardCell) String() string {
	switch c.Kind {
	case CellEmpty:
		return "."
	case CellWall:
		return "#"
	default:
		if c.Side == Sente {
			return c.Piece.String()
		}
		return "v" + c.Piece.String()
	}
}

// Board is the flat 11x11 wall-framed playing field. The wall frame (x or y in {0,10}) is
// always CellWall and never mutated after construction.
type Board struct {
	cells [boardSize]BoardCell
}

// EmptyBoard returns a board with the wall frame set and all playing squares empty.
func EmptyBoard() Board {
	var b Board
	for _, sq := range IterOk() {
		if sq.IsValid() {
			b.cells[sq] = EmptyCell()
		} else {
			b.cells[sq] = WallCell()
		}
	}
	return b
}

func (b Board) At(sq Sq) BoardCell {
	return b.cells[sq]
}

func (b *Board) Set(sq Sq, c BoardCell) {
	b.cells[sq] = c
}

// Row returns the 9 playing cells of rank y, x ascending 1..=9.
func (b Board) Row(y SqY) [9]BoardCell {
	var row [9]BoardCell
	for i, x := range IterXValid() {
		row[i] = b.At(SqFromXY(x, y))
	}
	return row
}

func (b Board) String() string {
	s := ""
	for _, y := range IterYValid() {
		for _, cell := range b.Row(y) {
			s += fmt.Sprintf("%3v", cell)
		}
		s += "\n"
	}
	return s
}
