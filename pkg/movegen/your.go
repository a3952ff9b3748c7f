package movegen

import (
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/effect"
)

// dropOrderYour is the drop piece-kind order used by the opponent's evasion-drop
// generator. Gold comes last here, unlike dropOrderMy — this is not an oversight, the two
// generators genuinely iterate hand pieces in different orders and unifying them would
// silently change which evasion the engine considers first when several tie.
var dropOrderYour = board.IterHand()

// evasionNeighbor lists the 8 squares around a king plus the king's own square (the 0 entry
// is a structural no-op: the king's square is never empty, so it is always filtered out by the
// "dst must be empty" check, but it is kept in the offset list for fidelity).
var evasionNeighbor = []int{-12, -11, -10, -1, 0, 1, 10, 11, 12}

// EvasionMoves generates every candidate response pos's side to move has to being in
// check: king moves, drops adjacent to the king (to block or to give the king flight), and
// every other piece's moves. It is deliberately over-generous: callers (the mate test) apply
// each candidate and check whether the king is still attacked afterwards, rather than this
// generator proving safety up front.
func EvasionMoves(pos board.Position) []board.Move {
	your := pos.Side()
	kingSq := pos.SqKing(your)

	var moves []board.Move
	moves = append(moves, evasionKingMoves(pos, kingSq)...)
	moves = append(moves, evasionDropMoves(pos, kingSq)...)
	moves = append(moves, evasionOtherMoves(pos, kingSq)...)
	return moves
}

func evasionKingMoves(pos board.Position, kingSq board.Sq) []board.Move {
	your := pos.Side()
	b := pos.Board()

	var moves []board.Move
	for _, di := range board.King.EffectsMelee(your) {
		dst := kingSq.Add(di)
		if !dst.IsOk() {
			continue
		}
		cell := b.At(dst)
		if cell.IsWall() || cell.IsSide(your) {
			continue
		}
		moves = append(moves, board.NewMoveNondrop(kingSq, dst, false))
	}
	return moves
}

func evasionDropMoves(pos board.Position, kingSq board.Sq) []board.Move {
	your := pos.Side()
	mask := board.PawnMaskFromBoardSide(pos.Board(), your)
	b := pos.Board()

	var moves []board.Move
	for _, off := range evasionNeighbor {
		dst := kingSq.Add(off)
		if !dst.IsOk() || !b.At(dst).IsEmpty() {
			continue
		}
		for _, pt := range dropOrderYour {
			if pos.Hand(your).Get(pt) == 0 {
				continue
			}
			if !dst.CanPut(your, pt) {
				continue
			}
			if pt == board.Pawn && mask.Test(dst.X()) {
				continue
			}
			moves = append(moves, board.NewMoveDrop(pt, dst))
		}
	}
	return moves
}

func evasionOtherMoves(pos board.Position, kingSq board.Sq) []board.Move {
	b := pos.Board()
	your := pos.Side()

	var moves []board.Move
	for _, sq := range board.IterValid() {
		if sq == kingSq {
			continue
		}
		cell := b.At(sq)
		if !cell.IsSide(your) {
			continue
		}
		moves = append(moves, movesNondropFrom(pos, effect.Empty(), sq, cell)...)
	}
	return moves
}
