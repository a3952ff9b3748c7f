// Package effect builds per-square, per-side effect (control) boards: how many pieces of a
// side bear on a square, and which is the cheapest attacker. Ranged pieces additionally
// project a one-square "support" shadow past a blocking friendly piece, used by the
// evaluator to judge whether a piece would still be defended if the blocker moved.
package effect

import (
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/price"
)

// Info is the effect state of one side on one square: how many of that side's pieces bear
// on it, and the cheapest non-shadow attacker, if any.
type Info struct {
	Count       uint8
	Attacker    board.Piece
	HasAttacker bool
}

// Cell holds both sides' Info for a square.
type Cell [board.NumSides]Info

// Board is a full per-square, per-side effect board.
type Board struct {
	cells [board.BoardSize]Cell
}

func Empty() Board {
	return Board{}
}

func (e Board) At(sq board.Sq) Cell {
	return e.cells[sq]
}

func (e *Board) add(sq board.Sq, side board.Side, pt board.Piece, isSupport bool) {
	info := &e.cells[sq][side]
	info.Count++
	if !isSupport {
		if !info.HasAttacker || price.Of0(pt) < price.Of0(info.Attacker) {
			info.Attacker = pt
			info.HasAttacker = true
		}
	}
}

// FromBoard builds the full effect board. my determines only the square scan order used
// while walking each side's pieces; the scan order does not change which effects exist, but
// does change which attacker wins a tie under chmin's first-writer-wins rule, so it must
// match the original engine's scan order exactly to reproduce its move choice.
func FromBoard(b board.Board, my board.Side) Board {
	eb := Empty()
	for _, side := range board.Sides() {
		for _, hit := range IterSupportEffects(b, side, my) {
			eb.add(hit.Dst, side, hit.Pt, hit.IsSupport)
		}
	}
	return eb
}

// Hit is one (square, direction) effect: the attacking piece's square and kind, the
// destination square it bears on, and whether this is a one-square shadow/support effect
// past a blocking friendly piece rather than a direct effect.
type Hit struct {
	IsSupport bool
	Src       board.Sq
	Dst       board.Sq
	Pt        board.Piece
}

// IterSupportEffects enumerates every effect (direct and one-square shadow) side's pieces
// exert on the board, scanning squares in my's simulated order.
func IterSupportEffects(b board.Board, side board.Side, my board.Side) []Hit {
	var hits []Hit
	for _, src := range board.IterValidSim(my) {
		s, pt, ok := b.At(src).SidePiece()
		if !ok || s != side {
			continue
		}
		hits = append(hits, meleeSupportEffects(b, side, src, pt)...)
		hits = append(hits, rangedSupportEffects(b, side, src, pt)...)
	}
	return hits
}

// meleeSupportEffects never shadows: a melee piece bears an effect on every reachable
// square, regardless of what occupies it (own piece, enemy piece, or empty).
func meleeSupportEffects(b board.Board, side board.Side, src board.Sq, pt board.Piece) []Hit {
	var hits []Hit
	for _, di := range pt.EffectsMelee(side) {
		dst := src.Add(di)
		if !dst.IsOk() {
			continue
		}
		if b.At(dst).IsWall() {
			continue
		}
		hits = append(hits, Hit{Src: src, Dst: dst, Pt: pt})
	}
	return hits
}

func rangedSupportEffects(b board.Board, side board.Side, src board.Sq, pt board.Piece) []Hit {
	var hits []Hit
	for _, dir := range pt.EffectsRanged(side) {
		hits = append(hits, uniRangedSupportEffects(b, side, src, dir, pt)...)
	}
	return hits
}

type walkState int

const (
	stateNormal walkState = iota
	stateSupport
	stateBreak
)

// uniRangedSupportEffects walks one ranged direction from src, yielding direct effects
// until a blocker, then (if the blocker is a friendly piece that can itself continue the
// same direction) one further shadow/support effect past it.
func uniRangedSupportEffects(b board.Board, side board.Side, src board.Sq, dir int, pt board.Piece) []Hit {
	var hits []Hit
	state := stateNormal

	for cur := src.Add(dir); cur.IsOk() && state != stateBreak; cur = cur.Add(dir) {
		cell := b.At(cur)

		switch state {
		case stateNormal:
			if cell.IsWall() {
				state = stateBreak
				continue
			}
			// The direct effect is recorded on every square along the ray, including one
			// occupied by the mover's own piece: a friendly blocker is still directly
			// defended by the piece behind it. Only the *next* square's treatment (another
			// direct hit, a support shadow, or nothing) depends on what sits here.
			hits = append(hits, Hit{Src: src, Dst: cur, Pt: pt})
			if cell.IsSide(side) {
				blockerPt, _ := cell.PieceAt()
				if canSupport(side, dir, blockerPt) {
					state = stateSupport
				} else {
					state = stateBreak
				}
				continue
			}
			if cell.IsOccupied() {
				state = stateBreak
			}

		case stateSupport:
			if !cell.IsWall() {
				hits = append(hits, Hit{IsSupport: true, Src: src, Dst: cur, Pt: pt})
			}
			state = stateBreak
		}
	}
	return hits
}

// canSupport returns true iff a piece of kind pt, belonging to side, can itself bear an
// effect along direction dir (a raw offset), and so projects a one-square shadow past
// itself when it blocks another piece of the same side along that direction. Kings never
// support: blocking behind a king is never treated as defended by the king itself.
func canSupport(side board.Side, dir int, pt board.Piece) bool {
	if pt == board.King {
		return false
	}
	for _, di := range pt.EffectsMelee(side) {
		if di == dir {
			return true
		}
	}
	for _, di := range pt.EffectsRanged(side) {
		if di == dir {
			return true
		}
	}
	return false
}
