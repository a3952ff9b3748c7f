// Package book implements the opening book: a per-formation state machine that proposes
// moves until the current formation's branch and move tables are exhausted, at which point
// the caller falls back to full search.
//
// Book data is authored with my as Gote; bookSq inverts squares when my is actually Sente.
package book

import (
	"github.com/taotao54321/naitou/pkg/board"
)

func bitTest(x uint32, bit int) bool {
	return x&(1<<uint(bit)) != 0
}

func bitSet(x uint32, bit int) uint32 {
	return x | (1 << uint(bit))
}

func bitClear(x uint32, bit int) uint32 {
	return x &^ (1 << uint(bit))
}

func bitAssign(x uint32, bit int, value bool) uint32 {
	if value {
		return bitSet(x, bit)
	}
	return bitClear(x, bit)
}

// Formation identifies one of the named opening structures the book knows how to steer
// toward, plus the Nothing sentinel meaning the book has nothing left to say.
type Formation uint8

const (
	Nakabisha Formation = iota
	Sikenbisha
	Kakugawari
	Sujichigai
	YourHishaochi
	YourNimaiochi
	MyHishaochi
	MyNimaiochi
	Nothing
)

// FormationFromHandicap picks the opening formation to steer toward for a given handicap and
// time-control. Even games open Nakabisha under a time limit, Sikenbisha otherwise; handicap
// games are named directly after the handicap.
func FormationFromHandicap(handicap board.Handicap, timelimit bool) Formation {
	switch handicap {
	case board.YourSente, board.MySente:
		if timelimit {
			return Nakabisha
		}
		return Sikenbisha
	case board.YourHishaochi:
		return YourHishaochi
	case board.YourNimaiochi:
		return YourNimaiochi
	case board.MyHishaochi:
		return MyHishaochi
	default:
		return MyNimaiochi
	}
}

// branchMove is a direct response instruction: if sqYour holds a ptYour piece of the
// opponent's, answer with the nondrop move srcMy to dstMy.
type branchMove struct {
	sqYour board.Sq
	ptYour board.Piece
	srcMy  board.Sq
	dstMy  board.Sq
}

// branchChange is a formation-change instruction: if sqYour holds a ptYour piece of the
// opponent's within ply moves, switch to formation and restart the branch scan.
type branchChange struct {
	sqYour    board.Sq
	ptYour    board.Piece
	formation Formation
	ply       uint8
}

// branchEntry is either a branchMove or a branchChange; exactly one of the two fields is
// non-nil.
type branchEntry struct {
	move   *branchMove
	change *branchChange
}

func newBranchMove(sqYour board.Sq, ptYour board.Piece, srcMy, dstMy board.Sq) branchEntry {
	return branchEntry{move: &branchMove{sqYour: sqYour, ptYour: ptYour, srcMy: srcMy, dstMy: dstMy}}
}

func newBranchChange(sqYour board.Sq, ptYour board.Piece, formation Formation, ply uint8) branchEntry {
	return branchEntry{change: &branchChange{sqYour: sqYour, ptYour: ptYour, formation: formation, ply: ply}}
}

// movesEntry is a scripted book move: always a nondrop, never a promotion.
type movesEntry struct {
	srcMy board.Sq
	dstMy board.Sq
}

func xy(x, y int) board.Sq {
	return board.SqFromXY(board.SqX(x), board.SqY(y))
}

// bookSq corrects a book-authored square (authored with my as Gote) for the side actually
// playing my.
func bookSq(sq board.Sq, my board.Side) board.Sq {
	if my == board.Sente {
		return sq.Inv()
	}
	return sq
}

// State is the per-game book progress: the formation currently being steered toward, and
// which branch/move table entries have already been used.
type State struct {
	formation  Formation
	doneBranch uint32 // one flag bit per branch table entry (at most 16 entries per table)
	doneMoves  uint32 // one flag bit per moves table entry (at most 24 entries per table)
}

// NewState starts book tracking toward the given formation.
func NewState(formation Formation) State {
	return State{formation: formation}
}

func (s State) Formation() Formation {
	return s.formation
}

func (s *State) changeFormation(formation Formation) {
	s.formation = formation
	s.doneBranch = 0
	s.doneMoves = 0
}

// Process returns the book's next move for pos, or false once the formation has been
// exhausted (in which case s.Formation() becomes Nothing and the book has nothing further to
// say for the rest of the game).
//
// When progressPly is 0, playing a book move does not mark its entry done, in either the
// branch table or the moves table — this mirrors the original engine's own off-by-one quirk for the player to move first and
// is kept deliberately rather than "fixed".
//
// Process performs no legality or material-loss check; callers must validate the returned
// move themselves.
func (s *State) Process(pos board.Position, progressPly uint8) (board.Move, bool) {
	if s.formation == Nothing {
		panic("book: Process called with formation already exhausted")
	}

	my := pos.Side()
	your := my.Inv()
	b := pos.Board()

outer:
	for {
		entries := getBranch(s.formation)
		for i, e := range entries {
			if bitTest(s.doneBranch, i) {
				continue
			}
			switch {
			case e.move != nil:
				sqYour := bookSq(e.move.sqYour, my)
				srcMy := bookSq(e.move.srcMy, my)
				dstMy := bookSq(e.move.dstMy, my)
				if isSidePt(b, sqYour, your, e.move.ptYour) {
					s.doneBranch = bitAssign(s.doneBranch, i, progressPly != 0)
					return board.NewMoveNondrop(srcMy, dstMy, false), true
				}
			case e.change != nil:
				sqYour := bookSq(e.change.sqYour, my)
				if isSidePt(b, sqYour, your, e.change.ptYour) && progressPly <= e.change.ply {
					s.changeFormation(e.change.formation)
					continue outer
				}
			}
		}
		break
	}

	moves := getMoves(s.formation)
	for i, e := range moves {
		if bitTest(s.doneMoves, i) {
			continue
		}
		s.doneMoves = bitAssign(s.doneMoves, i, progressPly != 0)
		srcMy := bookSq(e.srcMy, my)
		dstMy := bookSq(e.dstMy, my)
		return board.NewMoveNondrop(srcMy, dstMy, false), true
	}

	s.formation = Nothing
	return board.Move{}, false
}

func isSidePt(b board.Board, sq board.Sq, side board.Side, pt board.Piece) bool {
	s, p, ok := b.At(sq).SidePiece()
	return ok && s == side && p == pt
}

func getBranch(formation Formation) []branchEntry {
	switch formation {
	case Nakabisha:
		return branchNakabisha
	case Sikenbisha:
		return branchSikenbisha
	case Kakugawari:
		return branchKakugawari
	case Sujichigai:
		return branchSujichigai
	case YourHishaochi:
		return branchYourHishaochi
	case YourNimaiochi:
		return branchYourNimaiochi
	case MyHishaochi:
		return branchMyHishaochi
	case MyNimaiochi:
		return branchMyNimaiochi
	default:
		panic("book: getBranch called with formation Nothing")
	}
}

func getMoves(formation Formation) []movesEntry {
	switch formation {
	case Nakabisha:
		return movesNakabisha
	case Sikenbisha:
		return movesSikenbisha
	case Kakugawari:
		return movesKakugawari
	case Sujichigai:
		return movesSujichigai
	case YourHishaochi:
		return movesYourHishaochi
	case YourNimaiochi:
		return movesYourNimaiochi
	case MyHishaochi:
		return movesMyHishaochi
	case MyNimaiochi:
		return movesMyNimaiochi
	default:
		panic("book: getMoves called with formation Nothing")
	}
}

var branchNakabisha = []branchEntry{
	newBranchChange(xy(8, 2), board.Bishop, Kakugawari, 5),
	newBranchChange(xy(8, 2), board.Horse, Kakugawari, 5),
	newBranchMove(xy(5, 5), board.Bishop, xy(5, 3), xy(5, 4)),
	newBranchMove(xy(6, 6), board.Bishop, xy(6, 4), xy(6, 5)),
	newBranchMove(xy(6, 6), board.Silver, xy(6, 4), xy(6, 5)),
	newBranchMove(xy(8, 6), board.Silver, xy(6, 1), xy(7, 2)),
	newBranchMove(xy(6, 6), board.Pawn, xy(8, 2), xy(7, 3)),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(8, 5), board.Pawn, xy(8, 2), xy(7, 3)),
	newBranchMove(xy(7, 5), board.Silver, xy(6, 4), xy(6, 5)),
}

var branchSikenbisha = []branchEntry{
	newBranchChange(xy(8, 2), board.Bishop, Kakugawari, 5),
	newBranchChange(xy(8, 2), board.Horse, Kakugawari, 5),
	newBranchMove(xy(5, 5), board.Bishop, xy(5, 3), xy(5, 4)),
	newBranchMove(xy(6, 6), board.Bishop, xy(6, 4), xy(6, 5)),
	newBranchMove(xy(6, 6), board.Silver, xy(6, 4), xy(6, 5)),
	newBranchMove(xy(8, 6), board.Silver, xy(6, 2), xy(7, 2)),
	newBranchMove(xy(6, 6), board.Pawn, xy(8, 2), xy(7, 3)),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(8, 5), board.Pawn, xy(8, 2), xy(7, 3)),
	newBranchMove(xy(7, 5), board.Silver, xy(6, 4), xy(6, 5)),
}

var branchKakugawari = []branchEntry{
	newBranchChange(xy(6, 5), board.Bishop, Sujichigai, 5),
	newBranchChange(xy(5, 6), board.Bishop, Sujichigai, 5),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
}

var branchSujichigai = []branchEntry{
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(9, 6), board.Pawn, xy(9, 3), xy(9, 4)),
}

var branchYourHishaochi = []branchEntry{
	newBranchMove(xy(9, 6), board.Pawn, xy(9, 3), xy(9, 4)),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(8, 2), board.Bishop, xy(7, 1), xy(8, 2)),
	newBranchMove(xy(8, 2), board.Horse, xy(7, 1), xy(8, 2)),
}

var branchYourNimaiochi = []branchEntry{
	newBranchMove(xy(5, 6), board.Pawn, xy(5, 3), xy(5, 4)),
}

var branchMyHishaochi = []branchEntry{
	newBranchMove(xy(8, 5), board.Pawn, xy(8, 2), xy(7, 3)),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(9, 6), board.Pawn, xy(9, 3), xy(9, 4)),
}

var branchMyNimaiochi = []branchEntry{
	newBranchMove(xy(9, 6), board.Pawn, xy(9, 3), xy(9, 4)),
	newBranchMove(xy(1, 6), board.Pawn, xy(1, 3), xy(1, 4)),
	newBranchMove(xy(5, 6), board.Pawn, xy(5, 3), xy(5, 4)),
	newBranchMove(xy(7, 5), board.Pawn, xy(7, 1), xy(8, 2)),
}

func me(srcX, srcY, dstX, dstY int) movesEntry {
	return movesEntry{srcMy: xy(srcX, srcY), dstMy: xy(dstX, dstY)}
}

var movesNakabisha = []movesEntry{
	me(7, 3, 7, 4),
	me(6, 3, 6, 4),
	me(7, 1, 6, 2),
	me(2, 2, 5, 2),
	me(6, 2, 6, 3),
	me(5, 1, 4, 2),
	me(4, 2, 3, 2),
	me(3, 1, 4, 2),
	me(8, 2, 7, 3),
	me(5, 3, 5, 4),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(4, 1, 4, 2),
	me(6, 1, 6, 2),
	me(6, 2, 5, 3),
	me(5, 2, 8, 2),
	me(8, 3, 8, 4),
	me(8, 4, 8, 5),
	me(6, 4, 6, 5),
}

var movesSikenbisha = []movesEntry{
	me(7, 3, 7, 4),
	me(6, 3, 6, 4),
	me(7, 1, 7, 2),
	me(2, 2, 6, 2),
	me(7, 2, 6, 3),
	me(5, 1, 4, 2),
	me(4, 2, 3, 2),
	me(3, 2, 2, 2),
	me(3, 1, 3, 2),
	me(6, 1, 5, 2),
	me(8, 2, 7, 3),
	me(4, 3, 4, 4),
	me(5, 2, 4, 3),
	me(3, 3, 3, 4),
	me(6, 2, 6, 1),
	me(1, 3, 1, 4),
	me(6, 4, 6, 5),
}

var movesKakugawari = []movesEntry{
	me(7, 3, 7, 4),
	me(7, 1, 8, 2),
	me(8, 2, 7, 3),
	me(3, 1, 4, 2),
	me(2, 3, 2, 4),
	me(6, 1, 7, 2),
	me(2, 4, 2, 5),
	me(4, 1, 5, 2),
	me(5, 1, 6, 1),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(3, 3, 3, 4),
	me(6, 1, 7, 1),
	me(7, 1, 8, 2),
	me(6, 3, 6, 4),
	me(5, 2, 6, 3),
	me(1, 3, 1, 4),
	me(2, 1, 3, 3),
	me(4, 4, 4, 5),
	me(4, 3, 5, 4),
}

var movesSujichigai = []movesEntry{
	me(7, 3, 7, 4),
	me(7, 1, 8, 2),
	me(4, 1, 5, 2),
	me(6, 1, 7, 2),
	me(8, 2, 7, 3),
	me(3, 1, 4, 2),
	me(2, 3, 2, 4),
	me(2, 4, 2, 5),
	me(5, 1, 6, 1),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(5, 3, 5, 4),
	me(3, 3, 3, 4),
	me(2, 1, 3, 3),
	me(1, 3, 1, 4),
	me(9, 3, 9, 4),
	me(7, 3, 6, 4),
	me(4, 4, 4, 5),
}

var movesYourHishaochi = []movesEntry{
	me(7, 3, 7, 4),
	me(2, 3, 2, 4),
	me(2, 4, 2, 5),
	me(6, 1, 7, 2),
	me(3, 1, 4, 2),
	me(4, 1, 5, 2),
	me(5, 1, 6, 1),
	me(5, 3, 5, 4),
	me(3, 3, 3, 4),
	me(7, 1, 6, 2),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(2, 1, 3, 3),
	me(1, 3, 1, 4),
	me(9, 3, 9, 4),
	me(8, 2, 7, 3),
	me(4, 4, 4, 5),
}

var movesYourNimaiochi = []movesEntry{
	me(7, 3, 7, 4),
	me(4, 3, 4, 4),
	me(4, 4, 4, 5),
	me(2, 2, 4, 2),
	me(3, 3, 3, 4),
	me(3, 4, 3, 5),
	me(3, 1, 3, 2),
	me(3, 2, 3, 3),
	me(6, 1, 7, 2),
	me(4, 1, 5, 2),
	me(5, 1, 6, 1),
	me(7, 1, 6, 2),
	me(5, 3, 5, 4),
	me(3, 3, 3, 4),
	me(2, 1, 3, 3),
	me(1, 3, 1, 4),
	me(9, 3, 9, 4),
	me(4, 2, 4, 1),
	me(3, 5, 3, 6),
}

var movesMyHishaochi = []movesEntry{
	me(7, 3, 7, 4),
	me(6, 3, 6, 4),
	me(6, 1, 7, 2),
	me(7, 1, 6, 2),
	me(6, 2, 6, 3),
	me(5, 1, 4, 2),
	me(4, 2, 3, 2),
	me(3, 1, 4, 2),
	me(5, 3, 5, 4),
	me(9, 3, 9, 4),
	me(1, 3, 1, 4),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(4, 1, 4, 2),
	me(3, 3, 3, 4),
	me(8, 2, 7, 3),
}

var movesMyNimaiochi = []movesEntry{
	me(6, 1, 7, 2),
	me(3, 1, 4, 2),
	me(5, 3, 5, 4),
	me(4, 2, 5, 3),
	me(4, 1, 4, 2),
	me(4, 3, 4, 4),
	me(4, 2, 4, 3),
	me(3, 3, 3, 4),
	me(5, 1, 4, 2),
	me(9, 3, 9, 4),
	me(1, 3, 1, 4),
	me(2, 1, 3, 3),
	me(7, 1, 6, 2),
	me(4, 4, 4, 5),
}
