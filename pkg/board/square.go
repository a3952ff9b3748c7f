package board

import "fmt"

// SqX is a board x-coordinate (file), 0..10 with the wall frame at 0 and 10. Valid playing
// files are 1..=9.
type SqX int8

// SqY is a board y-coordinate (rank), 0..10 with the wall frame at 0 and 10. Valid playing
// ranks are 1..=9.
type SqY int8

func (x SqX) IsOk() bool {
	return 0 <= x && x <= 10
}

func (x SqX) IsValid() bool {
	return 1 <= x && x <= 9
}

// Inv returns the 180-degree-rotated coordinate.
func (x SqX) Inv() SqX {
	return 10 - x
}

// Rel returns x as seen from side's point of view (Sente is the identity view).
func (x SqX) Rel(side Side) SqX {
	if side == Sente {
		return x
	}
	return x.Inv()
}

func (x SqX) Get() int {
	return int(x)
}

func (x SqX) String() string {
	return fmt.Sprintf("%d", int(x))
}

// IterXOk iterates all on-board x-coordinates including the wall frame, 0..=10.
func IterXOk() []SqX {
	xs := make([]SqX, 0, 11)
	for x := SqX(0); x <= 10; x++ {
		xs = append(xs, x)
	}
	return xs
}

// IterXValid iterates the 9 playing x-coordinates, 1..=9.
func IterXValid() []SqX {
	xs := make([]SqX, 0, 9)
	for x := SqX(1); x <= 9; x++ {
		xs = append(xs, x)
	}
	return xs
}

func (y SqY) IsOk() bool {
	return 0 <= y && y <= 10
}

func (y SqY) IsValid() bool {
	return 1 <= y && y <= 9
}

func (y SqY) Inv() SqY {
	return 10 - y
}

func (y SqY) Rel(side Side) SqY {
	if side == Sente {
		return y
	}
	return y.Inv()
}

func (y SqY) Get() int {
	return int(y)
}

func (y SqY) String() string {
	return fmt.Sprintf("%d", int(y))
}

// CanPromote returns true iff a piece arriving at this rank from side's point of view is
// within the promotion zone (the far 3 ranks).
func (y SqY) CanPromote(side Side) bool {
	rel := y.Rel(side)
	return 1 <= rel && rel <= 3
}

// CanPut returns true iff a piece of kind pt can legally be dropped on a square at this
// rank, from side's point of view: pawns and lances cannot be dropped on the last rank,
// knights cannot be dropped on the last two ranks.
func (y SqY) CanPut(side Side, pt Piece) bool {
	rel := y.Rel(side)
	switch pt {
	case Pawn, Lance:
		return 2 <= rel && rel <= 9
	case Knight:
		return 3 <= rel && rel <= 9
	default:
		return y.IsValid()
	}
}

func IterYOk() []SqY {
	ys := make([]SqY, 0, 11)
	for y := SqY(0); y <= 10; y++ {
		ys = append(ys, y)
	}
	return ys
}

func IterYValid() []SqY {
	ys := make([]SqY, 0, 9)
	for y := SqY(1); y <= 9; y++ {
		ys = append(ys, y)
	}
	return ys
}

// Sq is a square index into the 11x11 wall-framed board: Sq = 11*y + x.
type Sq int16

// SqInvalid is the sentinel used where no square applies.
const SqInvalid Sq = 99

// BoardSize is the total number of cells in the 11x11 wall-framed board.
const BoardSize = 11 * 11

const boardSize = BoardSize

func NewSq(v int) Sq {
	return Sq(v)
}

func SqFromXY(x SqX, y SqY) Sq {
	return Sq(11*int(y) + int(x))
}

func (s Sq) X() SqX {
	return SqX(int(s) % 11)
}

func (s Sq) Y() SqY {
	return SqY(int(s) / 11)
}

func (s Sq) IsOk() bool {
	return 0 <= s && int(s) < boardSize
}

func (s Sq) IsValid() bool {
	return s.X().IsValid() && s.Y().IsValid()
}

func (s Sq) CanPromote(side Side) bool {
	return s.Y().CanPromote(side)
}

func (s Sq) CanPut(side Side, pt Piece) bool {
	return s.Y().CanPut(side, pt)
}

// Inv returns the 180-degree-rotated square.
func (s Sq) Inv() Sq {
	return Sq(boardSize-1) - s
}

func (s Sq) Rel(side Side) Sq {
	if side == Sente {
		return s
	}
	return s.Inv()
}

func (s Sq) Add(d int) Sq {
	return s + Sq(d)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (s Sq) DistX(o Sq) int {
	return absInt(s.X().Get() - o.X().Get())
}

func (s Sq) DistY(o Sq) int {
	return absInt(s.Y().Get() - o.Y().Get())
}

// Dist returns the chess-distance (max of x/y distance) between two squares.
func (s Sq) Dist(o Sq) int {
	dx, dy := s.DistX(o), s.DistY(o)
	if dx > dy {
		return dx
	}
	return dy
}

func (s Sq) Get() int {
	return int(s)
}

func (s Sq) String() string {
	return fmt.Sprintf("(%d,%d)", s.X().Get(), s.Y().Get())
}

// IterOk iterates all squares of the 11x11 wall-framed board, ascending.
func IterOk() []Sq {
	sqs := make([]Sq, 0, boardSize)
	for s := Sq(0); int(s) < boardSize; s++ {
		sqs = append(sqs, s)
	}
	return sqs
}

// IterOkRev iterates all squares of the 11x11 wall-framed board, descending.
func IterOkRev() []Sq {
	sqs := make([]Sq, 0, boardSize)
	for s := Sq(boardSize - 1); s >= 0; s-- {
		sqs = append(sqs, s)
	}
	return sqs
}

// IterValid iterates the 81 playing squares in ascending index order.
func IterValid() []Sq {
	sqs := make([]Sq, 0, 81)
	for _, s := range IterOk() {
		if s.IsValid() {
			sqs = append(sqs, s)
		}
	}
	return sqs
}

// IterValidRev iterates the 81 playing squares in descending index order.
func IterValidRev() []Sq {
	sqs := make([]Sq, 0, 81)
	for _, s := range IterOkRev() {
		if s.IsValid() {
			sqs = append(sqs, s)
		}
	}
	return sqs
}

// IterValidSim iterates the 81 playing squares in the order the original engine scans them
// as seen by side my: descending for Sente, ascending for Gote. This scan order is
// load-bearing for effect board construction, evaluation loops and move generation:
// changing it changes which candidate wins a tie.
func IterValidSim(my Side) []Sq {
	if my == Sente {
		return IterValidRev()
	}
	return IterValid()
}
