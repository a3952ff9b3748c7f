package board

import (
	"fmt"
	"math/rand"
)

// PawnMask is a bitmask over files 1..=9 recording which files already hold a pawn of a
// given side, used to enforce the two-pawn rule ("nifu") for drops.
type PawnMask uint16

func EmptyPawnMask() PawnMask {
	return 0
}

// PawnMaskFromBoardSide scans board for side's pawns and records their files.
func PawnMaskFromBoardSide(b Board, side Side) PawnMask {
	var mask PawnMask
	for _, x := range IterXValid() {
		for _, y := range IterYValid() {
			if pt, ok := b.At(SqFromXY(x, y)).PieceAt(); ok && b.At(SqFromXY(x, y)).Side == side && pt == Pawn {
				mask = mask.Set(x)
			}
		}
	}
	return mask
}

func (m PawnMask) Test(x SqX) bool {
	return m&(1<<uint(x.Get())) != 0
}

func (m PawnMask) Set(x SqX) PawnMask {
	return m | (1 << uint(x.Get()))
}

// MoveCmd records enough information about an applied move to undo it exactly: the captured
// piece (if any) for a board move, or nothing extra for a drop.
type MoveCmd struct {
	IsDrop     bool
	Src        Sq
	Dst        Sq
	Pt         Piece
	Promote    bool
	Capture    Piece
	HasCapture bool
}

// PtCapture returns the captured piece kind, if any.
func (c MoveCmd) PtCapture() (Piece, bool) {
	return c.Capture, c.HasCapture
}

// CanPromote returns true iff a piece of kind pt moving from src to dst, for side, is
// eligible to promote: the piece kind must be promotable and either endpoint must lie in
// the promotion zone.
func CanPromote(side Side, pt Piece, src, dst Sq) bool {
	return pt.CanPromote() && (src.CanPromote(side) || dst.CanPromote(side))
}

// Position is a full shogi game state: the board, both hands, the side to move and the
// ply count.
type Position struct {
	side  Side
	board Board
	hands Hands
	ply   int
}

// EmptyPosition returns an all-empty position with Sente to move at ply 1.
func EmptyPosition() Position {
	return Position{side: Sente, board: EmptyBoard(), ply: 1}
}

func NewPosition(side Side, b Board, h Hands, ply int) Position {
	return Position{side: side, board: b, hands: h, ply: ply}
}

func (p Position) Side() Side        { return p.side }
func (p Position) Board() Board      { return p.board }
func (p Position) Hands() Hands      { return p.hands }
func (p Position) Hand(side Side) Hand {
	return p.hands.Of(side)
}
func (p Position) Ply() int { return p.ply }

func (p *Position) SetSide(side Side) { p.side = side }
func (p *Position) SetPly(ply int)    { p.ply = ply }

// SqKing returns the square of side's king. Panics if absent (an invariant violation: every
// legal position has exactly one king per side).
func (p Position) SqKing(side Side) Sq {
	for _, sq := range IterValid() {
		if s, pt, ok := p.board.At(sq).SidePiece(); ok && s == side && pt == King {
			return sq
		}
	}
	panic(fmt.Sprintf("position has no %v king", side))
}

// CanCaptureKing returns true iff side to move could capture the opponent's king outright,
// i.e. the opponent is left in check. Used by movegen.MovesLegal to drop moves that leave the
// mover's own king capturable.
func (p Position) CanCaptureKing() bool {
	my := p.side
	yourKing := p.SqKing(my.Inv())
	for _, dst := range iterEffectsDestinations(p.board, my) {
		if dst == yourKing {
			return true
		}
	}
	return false
}

// iterEffectsDestinations enumerates every destination square any of side's pieces
// threatens, ignoring shadowed/ranged blocking nuance beyond the first blocker. This is a
// minimal melee+ranged walker; the full shadow-aware walker lives in pkg/effect and is used
// for evaluation, not for this simple capture test.
func iterEffectsDestinations(b Board, side Side) []Sq {
	var out []Sq
	for _, sq := range IterValid() {
		s, pt, ok := b.At(sq).SidePiece()
		if !ok || s != side {
			continue
		}
		for _, di := range pt.EffectsMelee(side) {
			dst := sq.Add(di)
			if !dst.IsOk() {
				continue
			}
			if c := b.At(dst); !c.IsWall() && !c.IsSide(side) {
				out = append(out, dst)
			}
		}
		for _, di := range pt.EffectsRanged(side) {
			for cur := sq.Add(di); cur.IsOk(); cur = cur.Add(di) {
				c := b.At(cur)
				if c.IsWall() {
					break
				}
				if c.IsSide(side) {
					break
				}
				out = append(out, cur)
				if c.IsOccupied() {
					break
				}
			}
		}
	}
	return out
}

// DoMove applies a move in place and returns a command sufficient to undo it. Returns an
// error if the move is not even structurally applicable to the current position (these are
// ordinary, recoverable failures arising from untrusted USI/record input; internal callers
// that already validated legality never see them).
func (p *Position) DoMove(mv Move) (MoveCmd, error) {
	my := p.side

	if mv.IsDrop {
		return p.doDrop(my, mv)
	}
	return p.doNondrop(my, mv)
}

func (p *Position) doNondrop(my Side, mv Move) (MoveCmd, error) {
	srcCell := p.board.At(mv.Src)
	if !srcCell.IsSide(my) {
		return MoveCmd{}, fmt.Errorf("src is not my piece")
	}
	pt := srcCell.Piece

	dstCell := p.board.At(mv.Dst)
	if dstCell.IsSide(my) {
		return MoveCmd{}, fmt.Errorf("dst is my piece")
	}

	newPt := pt
	if mv.Promote {
		if !CanPromote(my, pt, mv.Src, mv.Dst) {
			return MoveCmd{}, fmt.Errorf("cannot promote")
		}
		newPt = pt.ToPromoted()
	}

	capture, hasCapture := dstCell.PieceAt()

	p.board.Set(mv.Src, EmptyCell())
	p.board.Set(mv.Dst, OccupiedCell(my, newPt))
	if hasCapture {
		raw := capture
		if raw.IsPromoted() {
			raw = raw.ToRaw()
		}
		p.hands.Inc(my, raw)
	}
	p.side = my.Inv()
	p.ply++

	return MoveCmd{Src: mv.Src, Dst: mv.Dst, Pt: pt, Promote: mv.Promote, Capture: capture, HasCapture: hasCapture}, nil
}

func (p *Position) doDrop(my Side, mv Move) (MoveCmd, error) {
	pt := mv.Pt
	if p.hands.Get(my, pt) == 0 {
		return MoveCmd{}, fmt.Errorf("not in hand")
	}

	dstCell := p.board.At(mv.Dst)
	if !dstCell.IsEmpty() {
		return MoveCmd{}, fmt.Errorf("dst is not empty")
	}

	p.hands.Dec(my, pt)
	p.board.Set(mv.Dst, OccupiedCell(my, pt))
	p.side = my.Inv()
	p.ply++

	return MoveCmd{IsDrop: true, Pt: pt, Dst: mv.Dst}, nil
}

// UndoMove reverses the effect of the corresponding DoMove call. cmd must be the exact
// value DoMove returned; any mismatch is an internal invariant violation and panics rather
// than returning an error.
func (p *Position) UndoMove(cmd MoveCmd) {
	p.side = p.side.Inv()
	my := p.side
	p.ply--

	if cmd.IsDrop {
		cell := p.board.At(cmd.Dst)
		if !cell.IsSide(my) || cell.Piece != cmd.Pt {
			panic("dst mismatch")
		}
		p.board.Set(cmd.Dst, EmptyCell())
		p.hands.Inc(my, cmd.Pt)
		return
	}

	cell := p.board.At(cmd.Dst)
	if !cell.IsSide(my) {
		panic("dst mismatch")
	}
	p.board.Set(cmd.Src, OccupiedCell(my, cmd.Pt))
	if cmd.HasCapture {
		raw := cmd.Capture
		if raw.IsPromoted() {
			raw = raw.ToRaw()
		}
		if !raw.IsHand() {
			panic("dst is not opponent piece")
		}
		p.hands.Dec(my, raw)
		p.board.Set(cmd.Dst, OccupiedCell(my.Inv(), cmd.Capture))
	} else {
		p.board.Set(cmd.Dst, EmptyCell())
	}
}

// Random generates a structurally plausible random position, used only as a test fixture
// (mirrors the upstream engine's own property-test generator). It is not reachable from any
// production code path; randomness elsewhere in the module is confined to the self-play
// opponent driver.
func Random(rng *rand.Rand) Position {
	const probHand = 0.2

	pos := EmptyPosition()
	pos.side = Side(rng.Intn(2))
	pos.ply = 1 + rng.Intn(255)

	pickSq := func(pt Piece, side Side) Sq {
		for {
			x := SqX(1 + rng.Intn(9))
			y := SqY(1 + rng.Intn(9))
			sq := SqFromXY(x, y)
			if !pos.board.At(sq).IsEmpty() {
				continue
			}
			if !sq.CanPut(side, pt) {
				continue
			}
			if pt == Pawn {
				mask := PawnMaskFromBoardSide(pos.board, side)
				if mask.Test(x) {
					continue
				}
			}
			return sq
		}
	}

	pos.board.Set(pickSq(King, Sente), OccupiedCell(Sente, King))
	pos.board.Set(pickSq(King, Gote), OccupiedCell(Gote, King))

	type count struct {
		pt Piece
		n  int
	}
	counts := []count{
		{Pawn, 18}, {Lance, 4}, {Knight, 4}, {Silver, 4},
		{Bishop, 2}, {Rook, 2}, {Gold, 4},
	}

	for _, c := range counts {
		for i := 0; i < c.n; i++ {
			side := Side(rng.Intn(2))
			if rng.Float64() < probHand {
				pos.hands.Inc(side, c.pt)
				continue
			}
			sq := pickSq(c.pt, side)
			pt := c.pt
			if pt.CanPromote() && rng.Float64() < 0.5 {
				pt = pt.ToPromoted()
			}
			pos.board.Set(sq, OccupiedCell(side, pt))
		}
	}

	return pos
}
