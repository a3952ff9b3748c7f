// Package movegen generates shogi moves for both the engine's own side and its opponent.
// The two sides use genuinely different generators (the opponent's evasion generator is
// structured around escaping the current side's own king, not around general legality), and
// even their hand-piece drop orders differ — this asymmetry is carried over verbatim rather
// than unified, since unifying it would change tie-break order and therefore change which
// move the engine picks.
package movegen

import (
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/effect"
)

// dropOrderMy is the drop piece-kind order used when generating the engine's own moves.
// Gold precedes Bishop and Rook here; the opponent's evasion-drop generator uses a
// different order (see your.go) and the two must not be unified.
var dropOrderMy = []board.Piece{board.Pawn, board.Lance, board.Knight, board.Silver, board.Gold, board.Bishop, board.Rook}

// IsLegalNondrop reports whether a non-drop move is structurally legal for pos's side to
// move, matching the main candidate search's own notion of legality: a king move into a
// square the opponent already bears on is let through just like any other piece's move, the
// resulting suicide caught later by post-generation loss evaluation rather than filtered out
// here. eb is accepted for symmetry with the book-legal check below but is not consulted by
// this function.
func IsLegalNondrop(pos board.Position, eb effect.Board, mv board.Move) bool {
	my := pos.Side()
	b := pos.Board()

	srcSide, pt, ok := b.At(mv.Src).SidePiece()
	if !ok || srcSide != my {
		return false
	}
	if b.At(mv.Dst).IsSide(my) {
		return false
	}

	switch pt {
	case board.King:
		if !legalMelee(board.King, my, mv) {
			return false
		}
	case board.Lance:
		if !legalRangedDir(pos, mv, -11*my.Sgn()) {
			return false
		}
	case board.Bishop:
		if !legalBishop(pos, mv) {
			return false
		}
	case board.Rook:
		if !legalRook(pos, mv) {
			return false
		}
	case board.Horse:
		if mv.Src.Dist(mv.Dst) >= 2 && !legalBishop(pos, mv) {
			return false
		}
	case board.Dragon:
		if mv.Src.Dist(mv.Dst) >= 2 && !legalRook(pos, mv) {
			return false
		}
	default:
		if !legalMelee(pt, my, mv) {
			return false
		}
	}

	if mv.Promote && !board.CanPromote(my, pt, mv.Src, mv.Dst) {
		return false
	}
	return true
}

func legalMelee(pt board.Piece, side board.Side, mv board.Move) bool {
	d := mv.Dst.Get() - mv.Src.Get()
	for _, di := range pt.EffectsMelee(side) {
		if di == d {
			return true
		}
	}
	return false
}

// legalKing is the opening book's stricter king-move predicate: a normal king step plus an
// outright ban on moving into a square the opponent already bears on. It is never used by
// the main candidate search, only by IsBookLegalNondrop below.
func legalKing(eb effect.Board, my board.Side, mv board.Move) bool {
	if !legalMelee(board.King, my, mv) {
		return false
	}
	return eb.At(mv.Dst)[my.Inv()].Count == 0
}

// IsBookLegalNondrop reports whether a non-drop move is legal under the opening book's
// stricter notion of legality: everything IsLegalNondrop requires, plus an outright ban on a
// king move into a square the opponent already bears on. This is used only when filtering
// canned opening-book moves; the main candidate search always uses IsLegalNondrop (via
// MovesPseudoLegal) and lets a suicidal king move through for the post-generation loss
// evaluation to catch instead.
func IsBookLegalNondrop(pos board.Position, eb effect.Board, mv board.Move) bool {
	if !IsLegalNondrop(pos, eb, mv) {
		return false
	}

	my := pos.Side()
	srcSide, pt, ok := pos.Board().At(mv.Src).SidePiece()
	if !ok || srcSide != my || pt != board.King {
		return true
	}
	return legalKing(eb, my, mv)
}

func legalBishop(pos board.Position, mv board.Move) bool {
	for _, dir := range []int{12, 10, -10, -12} {
		if dirMatches(mv, dir) {
			return legalRangedDir(pos, mv, dir)
		}
	}
	return false
}

func legalRook(pos board.Position, mv board.Move) bool {
	for _, dir := range []int{11, -11, 1, -1} {
		if dirMatches(mv, dir) {
			return legalRangedDir(pos, mv, dir)
		}
	}
	return false
}

func dirMatches(mv board.Move, dir int) bool {
	d := mv.Dst.Get() - mv.Src.Get()
	return d != 0 && d%dir == 0 && d/dir > 0
}

// legalRangedDir checks that every square strictly between src and dst along dir is empty.
func legalRangedDir(pos board.Position, mv board.Move, dir int) bool {
	step := mv.Src.Dist(mv.Dst)
	if step <= 1 {
		return true
	}
	b := pos.Board()
	cur := mv.Src
	for i := 0; i < step-1; i++ {
		cur = cur.Add(dir)
		if !b.At(cur).IsEmpty() {
			return false
		}
	}
	return true
}

// MovesPseudoLegal generates every move pos's side to move can make: all legal non-drop
// moves (per IsLegalNondrop — suicides allowed, including a king moving into an attacked
// square) plus all legal drops. The scan order over squares is board.IterValidSim(my) —
// load-bearing for move-ordering sensitive callers, even though the result set itself does
// not depend on scan order.
func MovesPseudoLegal(pos board.Position, eb effect.Board) []board.Move {
	my := pos.Side()
	b := pos.Board()

	var moves []board.Move
	for _, sq := range board.IterValidSim(my) {
		cell := b.At(sq)
		if cell.IsSide(my) {
			moves = append(moves, movesNondropFrom(pos, eb, sq, cell)...)
		} else if cell.IsEmpty() {
			moves = append(moves, movesDropTo(pos, sq)...)
		}
	}
	return moves
}

func movesNondropFrom(pos board.Position, eb effect.Board, src board.Sq, cell board.BoardCell) []board.Move {
	my := pos.Side()
	pt := cell.Piece

	var moves []board.Move
	for _, dst := range candidateDsts(pos, src, pt) {
		cand := board.NewMoveNondrop(src, dst, false)
		if IsLegalNondrop(pos, eb, cand) {
			moves = append(moves, cand)
		}
		if pt.CanPromote() && (src.CanPromote(my) || dst.CanPromote(my)) {
			candP := board.NewMoveNondrop(src, dst, true)
			if IsLegalNondrop(pos, eb, candP) {
				moves = append(moves, candP)
			}
		}
	}
	return moves
}

// candidateDsts enumerates destination squares structurally reachable by pt from src,
// ignoring blocking (legality, including blocking, is checked by IsLegalNondrop).
func candidateDsts(pos board.Position, src board.Sq, pt board.Piece) []board.Sq {
	my := pos.Side()
	b := pos.Board()

	seen := map[board.Sq]bool{}
	var dsts []board.Sq
	add := func(sq board.Sq) {
		if sq.IsOk() && !seen[sq] {
			seen[sq] = true
			dsts = append(dsts, sq)
		}
	}

	for _, di := range pt.EffectsMelee(my) {
		dst := src.Add(di)
		if dst.IsOk() && !b.At(dst).IsSide(my) && !b.At(dst).IsWall() {
			add(dst)
		}
	}
	for _, dir := range pt.EffectsRanged(my) {
		for cur := src.Add(dir); cur.IsOk(); cur = cur.Add(dir) {
			c := b.At(cur)
			if c.IsWall() || c.IsSide(my) {
				break
			}
			add(cur)
			if c.IsOccupied() {
				break
			}
		}
	}
	return dsts
}

func movesDropTo(pos board.Position, dst board.Sq) []board.Move {
	my := pos.Side()
	mask := board.PawnMaskFromBoardSide(pos.Board(), my)

	var moves []board.Move
	for _, pt := range dropOrderMy {
		if pos.Hand(my).Get(pt) == 0 {
			continue
		}
		if !dst.CanPut(my, pt) {
			continue
		}
		if pt == board.Pawn && mask.Test(dst.X()) {
			continue
		}
		moves = append(moves, board.NewMoveDrop(pt, dst))
	}
	return moves
}
