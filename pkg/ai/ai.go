// Package ai implements the thinking routine: evaluating the root position and every
// pseudo-legal candidate move, tweaking each candidate's evaluation through a long sequence
// of heuristic adjustments, and picking the best one by a lexicographic comparator.
//
// Every evaluation field is a uint8, and every adjustment in tweakEval relies on Go's
// unsigned-integer wraparound semantics to reproduce the original engine's 8-bit overflow
// arithmetic exactly: no wrapping-arithmetic helper type is needed since Go's +/- on uint8
// already wrap silently, unlike the source language's.
package ai

import (
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
	"github.com/taotao54321/naitou/pkg/book"
	"github.com/taotao54321/naitou/pkg/effect"
	"github.com/taotao54321/naitou/pkg/kifu"
	"github.com/taotao54321/naitou/pkg/movegen"
	"github.com/taotao54321/naitou/pkg/price"
)

// Logger receives a detailed trace of one thinking cycle: the progress counters and book
// state at entry, the root evaluation, every candidate's effect board and successive
// evaluation tweaks, and the final outcome. Implementations that don't need the trace can
// embed NullLogger.
type Logger interface {
	LogProgress(ply, level, levelSub uint8)
	LogBookState(s book.State)

	LogRootEval(e RootEval)
	LogRootEffectBoard(eb effect.Board)

	StartCandidate(mv board.Move)
	LogCandidateEffectBoard(eb effect.Board)
	LogCandidatePositionEval(e PositionEval)
	LogCandidateEval(e CandEval)
	LogCandidateImproved()
	EndCandidate()

	LogBestEval(e BestEval)
	LogRecordEntry(e kifu.RecordEntry)
}

// NullLogger implements Logger by discarding everything. Embed it to implement Logger while
// overriding only the methods of interest.
type NullLogger struct{}

func (NullLogger) LogProgress(ply, level, levelSub uint8) {}
func (NullLogger) LogBookState(s book.State)              {}
func (NullLogger) LogRootEval(e RootEval)                 {}
func (NullLogger) LogRootEffectBoard(eb effect.Board)         {}
func (NullLogger) StartCandidate(mv board.Move)                {}
func (NullLogger) LogCandidateEffectBoard(eb effect.Board)         {}
func (NullLogger) LogCandidatePositionEval(e PositionEval)          {}
func (NullLogger) LogCandidateEval(e CandEval)                 {}
func (NullLogger) LogCandidateImproved()                        {}
func (NullLogger) EndCandidate()                                {}
func (NullLogger) LogBestEval(e BestEval)                  {}
func (NullLogger) LogRecordEntry(e kifu.RecordEntry)        {}

// CandInfo is the fixed information about one candidate move, captured before it is applied:
// which piece kinds are involved, what (if anything) it captures, and where both kings stood
// in the root position.
type CandInfo struct {
	Move       board.Move
	PtSrc      board.Piece // the piece moved or dropped, raw kind even if the move promotes
	PtDst      board.Piece // the piece kind after the move (promoted, if it promotes)
	PtCapture  board.Piece
	HasCapture bool
	SqKingMy   board.Sq // my king's square in the root position
	SqKingYour board.Sq // your king's square in the root position
}

func newCandInfo(pos board.Position, mv board.Move) CandInfo {
	my := pos.Side()
	your := my.Inv()

	var ptSrc, ptDst board.Piece
	if mv.IsDrop {
		ptSrc, ptDst = mv.Pt, mv.Pt
	} else {
		s, pt, ok := pos.Board().At(mv.Src).SidePiece()
		if !ok || s != my {
			panic("ai: candidate move has no my piece at src")
		}
		ptSrc = pt
		if mv.Promote {
			ptDst = pt.ToPromoted()
		} else {
			ptDst = pt
		}
	}

	ptCapture, hasCapture := pos.Board().At(mv.Dst).PieceAt()
	hasCapture = hasCapture && pos.Board().At(mv.Dst).IsSide(your)

	return CandInfo{
		Move:       mv,
		PtSrc:      ptSrc,
		PtDst:      ptDst,
		PtCapture:  ptCapture,
		HasCapture: hasCapture,
		SqKingMy:   pos.SqKing(my),
		SqKingYour: pos.SqKing(your),
	}
}

// RootEval is the evaluation of the root position, computed once per thinking cycle.
type RootEval struct {
	AdvPrice    uint8 // the value of the opponent's piece on the biggest gain square
	DisadvPrice uint8 // the value of my piece on the biggest loss square
	PowerMy     uint8 // my material/progress "power" score
	PowerYour   uint8 // your material/progress "power" score
	RbpMy       uint8 // my rooks and bishops in hand plus all my promoted pieces on the board
}

// PositionEval is the evaluation of a resulting position (the root, or after a candidate
// move is applied).
type PositionEval struct {
	AdvPrice         uint8
	AdvSq            board.Sq
	DisadvPrice      uint8
	DisadvSq         board.Sq
	HangingYour      bool
	KingSafetyFarMy  uint8
	KingThreatFarMy  uint8
	KingThreatFarYour uint8
	KingThreatNearMy uint8
	NChokeMy         uint8
	NLooseMy         uint8
	NPromotedMy      uint8
	NPromotedYour    uint8
}

// CandEval is a candidate move's evaluation, derived from a PositionEval plus move-specific
// context. Every field is repeatedly adjusted by tweakEval.
type CandEval struct {
	AdvPrice       uint8
	CapturePrice   uint8
	DisadvPrice    uint8
	DstToYourKing  uint8
	IsSacrifice    bool
	Nega           uint8
	Posi           uint8
	ToMyKing       uint8
}

// BestEval is the evaluation of the best candidate found so far.
type BestEval struct {
	AdvPrice          uint8
	AdvSq             board.Sq
	CapturePrice      uint8
	DisadvPrice       uint8
	DisadvSq          board.Sq
	DstToYourKing     uint8
	KingSafetyFarMy   uint8
	KingThreatFarMy   uint8
	KingThreatFarYour uint8
	NLooseMy          uint8
	NPromotedMy       uint8
	Nega              uint8
	Posi              uint8
	ToMyKing          uint8
}

// DefaultBestEval returns the sentinel BestEval that any candidate with DisadvPrice below 40
// improves upon — so the first such candidate examined always replaces it.
func DefaultBestEval() BestEval {
	return BestEval{
		AdvPrice:        0,
		AdvSq:           board.SqInvalid,
		DisadvPrice:     99,
		DisadvSq:        board.SqInvalid,
		DstToYourKing:   99,
		KingThreatFarMy: 99,
		NLooseMy:        99,
		Nega:            99,
	}
}

type tweakResult int

const (
	tweakNormal tweakResult = iota
	tweakYourMate
	tweakReject
)

type mateJudge int

const (
	mateNonmate mateJudge = iota
	mateMate
	mateDropPawnMate
)

// naitouDropSrc returns the original engine's piece-kind ID used to compare drop candidates
// against the current best-drop source, cheaper pieces getting a smaller ID.
func naitouDropSrc(pt board.Piece) uint8 {
	switch pt {
	case board.Rook:
		return 207
	case board.Bishop:
		return 206
	case board.Gold:
		return 205
	case board.Silver:
		return 204
	case board.Knight:
		return 203
	case board.Lance:
		return 202
	case board.Pawn:
		return 201
	default:
		panic("ai: naitouDropSrc: not a hand piece")
	}
}

// StepMyCmd records enough state to undo one StepMy call.
type StepMyCmd struct {
	MoveCmd           board.MoveCmd
	HasMoveCmd        bool
	ProgressPly       uint8
	ProgressLevel     uint8
	ProgressLevelSub  uint8
	BookState         book.State
	NaitouBestSrc     uint8
}

// MoveYourCmd records enough state to undo one MoveYour call.
type MoveYourCmd struct {
	MoveCmd       board.MoveCmd
	MvYour        board.Move
	HasMvYour     bool
	ProgressPly   uint8
	ProgressLevel uint8
}

// Ai is the engine's full playing state: which side it plays, the current position, and the
// progress/book-tracking state that the original engine never resets between positions.
type Ai struct {
	my          board.Side
	pos         board.Position
	mvYour      board.Move
	hasMvYour   bool
	progressPly uint8

	progressLevel    uint8
	progressLevelSub uint8
	bookState        book.State

	// naitouBestSrc is needed when comparing a drop candidate against the current best
	// move, and is deliberately not reset between positions — it persists exactly like the
	// original engine's own global.
	naitouBestSrc uint8
}

// NewAi starts a new game under the given handicap and time-control setting.
func NewAi(handicap board.Handicap, timelimit bool) *Ai {
	my := handicap.My()
	pos, err := initialPosition(handicap)
	if err != nil {
		panic(err)
	}

	formation := book.FormationFromHandicap(handicap, timelimit)
	bookState := book.NewState(formation)

	return &Ai{
		my:        my,
		pos:       pos,
		bookState: bookState,
	}
}

func (a *Ai) My() board.Side        { return a.my }
func (a *Ai) Pos() board.Position   { return a.pos }
func (a *Ai) IsMyTurn() bool        { return a.pos.Side() == a.my }
func (a *Ai) IsYourTurn() bool      { return !a.IsMyTurn() }
func (a *Ai) ProgressPly() uint8    { return a.progressPly }
func (a *Ai) ProgressLevel() uint8  { return a.progressLevel }

func (a *Ai) incrementProgressPly() {
	if a.progressPly < 100 {
		a.progressPly++
	}
}

// StepMy runs Think and, if it returned a move, applies it. Returns the record entry and an
// undo command.
func (a *Ai) StepMy(logger Logger) (kifu.RecordEntry, StepMyCmd) {
	progressPly := a.progressPly
	progressLevel := a.progressLevel
	progressLevelSub := a.progressLevelSub
	bookState := a.bookState
	naitouBestSrc := a.naitouBestSrc

	entry := a.Think(logger)

	var mvCmd board.MoveCmd
	hasMvCmd := false
	switch entry.Kind {
	case kifu.EntryMove, kifu.EntryMyWin:
		mvCmd = a.moveMy(entry.Move)
		hasMvCmd = true
	}

	return entry, StepMyCmd{
		MoveCmd:          mvCmd,
		HasMoveCmd:       hasMvCmd,
		ProgressPly:      progressPly,
		ProgressLevel:    progressLevel,
		ProgressLevelSub: progressLevelSub,
		BookState:        bookState,
		NaitouBestSrc:    naitouBestSrc,
	}
}

func (a *Ai) UndoStepMy(cmd StepMyCmd) {
	if cmd.HasMoveCmd {
		a.pos.UndoMove(cmd.MoveCmd)
	}
	a.progressPly = cmd.ProgressPly
	a.progressLevel = cmd.ProgressLevel
	a.progressLevelSub = cmd.ProgressLevelSub
	a.bookState = cmd.BookState
	a.naitouBestSrc = cmd.NaitouBestSrc
}

// moveMy applies mv (assumed to be my side's move, typically the one Think returned) to the
// internal position.
func (a *Ai) moveMy(mv board.Move) board.MoveCmd {
	if a.pos.Side() != a.my {
		panic("ai: moveMy called out of turn")
	}
	cmd, err := a.pos.DoMove(mv)
	if err != nil {
		panic(err)
	}
	a.incrementProgressPly()
	return cmd
}

// MoveYour applies the opponent's move to the internal position.
func (a *Ai) MoveYour(mv board.Move) MoveYourCmd {
	mvYour, hasMvYour := a.mvYour, a.hasMvYour
	progressPly := a.progressPly
	progressLevel := a.progressLevel

	your := a.my.Inv()
	if a.pos.Side() != your {
		panic("ai: MoveYour called out of turn")
	}

	cmd, err := a.pos.DoMove(mv)
	if err != nil {
		panic(err)
	}
	a.mvYour, a.hasMvYour = mv, true
	a.incrementProgressPly()

	if a.progressPly >= 51 && a.progressLevel < 2 {
		a.progressLevel++
	}
	if a.progressPly >= 71 {
		a.progressLevel = 3
	}

	return MoveYourCmd{
		MoveCmd:       cmd,
		MvYour:        mvYour,
		HasMvYour:     hasMvYour,
		ProgressPly:   progressPly,
		ProgressLevel: progressLevel,
	}
}

func (a *Ai) UndoMoveYour(cmd MoveYourCmd) {
	a.pos.UndoMove(cmd.MoveCmd)
	a.mvYour, a.hasMvYour = cmd.MvYour, cmd.HasMvYour
	a.progressPly = cmd.ProgressPly
	a.progressLevel = cmd.ProgressLevel
}

// dstsSpecial are the 3 opponent destination squares (from my's viewpoint) that, within the
// first 6 plies, always force the opening-book path regardless of what thinkNonbook found.
var dstsSpecial = []board.Sq{sqXY(4, 5), sqXY(5, 4), sqXY(2, 8)}

func sqXY(x, y int) board.Sq {
	return board.SqFromXY(board.SqX(x), board.SqY(y))
}

// Think runs one full thinking cycle and returns the resulting record entry, logging the
// whole trace to logger.
func (a *Ai) Think(logger Logger) kifu.RecordEntry {
	my := a.my

	entry, isMateYour := a.thinkGo(logger)

	switch entry.Kind {
	case kifu.EntryYourSuicide, kifu.EntryYourWin:
		// unchanged
	case kifu.EntryMove:
		mv := entry.Move
		cmd, err := a.pos.DoMove(mv)
		if err != nil {
			panic(err)
		}
		eb := effect.FromBoard(a.pos.Board(), my)
		advPrice := a.evalAdv(a.pos, eb).advPrice
		a.pos.UndoMove(cmd)

		if advPrice >= 31 && isMateYour {
			entry = kifu.NewEntryMyWin(mv)
		}
	}

	logger.LogRecordEntry(entry)
	return entry
}

// thinkGo is Think without the final MyWin-upgrade pass, returning whether the chosen
// candidate was judged a forced mate of your king.
func (a *Ai) thinkGo(logger Logger) (kifu.RecordEntry, bool) {
	my := a.my
	if a.pos.Side() != my {
		panic("ai: thinkGo called out of turn")
	}

	logger.LogProgress(a.progressPly, a.progressLevel, a.progressLevelSub)
	logger.LogBookState(a.bookState)

	mvBest, hasBest, rootEval, bestEval, isMateYour := a.thinkNonbook(logger)

	// The first 6 plies always force the opening-book path for certain opponent replies.
	if a.progressPly <= 6 && a.hasMvYour && a.progressLevel == 0 {
		cond := false
		for _, dst := range dstsSpecial {
			if dst == a.mvYour.Dst.Rel(my) {
				cond = true
				break
			}
		}
		if cond {
			if mv, ok := a.processOpening(); ok {
				return kifu.NewEntryMove(mv), isMateYour
			}
			a.progressLevel = 1
		}
	}

	if rootEval.AdvPrice >= 31 {
		return kifu.NewEntryYourSuicide(), isMateYour
	}
	if bestEval.DisadvPrice >= 31 {
		return kifu.NewEntryYourWin(), isMateYour
	}

	if !hasBest {
		panic("ai: thinkGo: no best move despite not being over")
	}

	nonquiet := rootEval.AdvPrice > 0 || rootEval.DisadvPrice > 0 || bestEval.CapturePrice > 0

	if a.progressLevel == 0 && nonquiet {
		a.progressLevelSub++
		if a.progressLevelSub >= 5 {
			a.progressLevel = 1
		}
	}

	if a.progressLevel > 0 || nonquiet {
		return kifu.NewEntryMove(mvBest), isMateYour
	}

	if bestEval.Posi != bestEval.AdvPrice && bestEval.Posi >= 8 {
		return kifu.NewEntryMove(mvBest), isMateYour
	}

	if a.progressLevel == 0 {
		if mv, ok := a.processOpening(); ok {
			return kifu.NewEntryMove(mv), isMateYour
		}
		a.progressLevel = 1
	}

	return kifu.NewEntryMove(mvBest), isMateYour
}

// processOpening consults the book, filtering out anything illegal, anything where the
// destination is not defended by more of my pieces than your pieces attack it with, and
// anything that loses material (except one scripted exception matching the original
// engine's own behavior for a specific early opponent reply).
func (a *Ai) processOpening() (board.Move, bool) {
	my := a.my
	your := my.Inv()

	if a.bookState.Formation() == book.Nothing {
		return board.Move{}, false
	}

	eb := effect.FromBoard(a.pos.Board(), my)

	for {
		mv, ok := a.bookState.Process(a.pos, a.progressPly)
		if !ok {
			return board.Move{}, false
		}

		if !movegen.IsBookLegalNondrop(a.pos, eb, mv) {
			continue
		}

		dstCell := eb.At(mv.Dst)
		if dstCell[my].Count <= dstCell[your].Count {
			continue
		}

		disadv := func() bool {
			cmd, err := a.pos.DoMove(mv)
			if err != nil {
				panic(err)
			}
			defer a.pos.UndoMove(cmd)
			eb2 := effect.FromBoard(a.pos.Board(), my)
			posEval, _ := a.evalPosition(eb2, nil)
			return posEval.DisadvPrice > 0
		}()

		if disadv {
			exempt := a.progressPly <= 6 && a.hasMvYour && a.mvYour.Dst.Rel(my) == sqXY(4, 5)
			if !exempt {
				continue
			}
		}

		return mv, true
	}
}

// thinkNonbook runs the full candidate search, ignoring the book. A suicidal move is allowed
// through (its DisadvPrice then reaches 31 or more, and thinkGo reports YourWin), but
// dropping a pawn to give checkmate ("uchifuzume") is not.
func (a *Ai) thinkNonbook(logger Logger) (board.Move, bool, RootEval, BestEval, bool) {
	my := a.my

	eb := effect.FromBoard(a.pos.Board(), my)
	logger.LogRootEffectBoard(eb)

	rootEval := a.evalRoot(eb)
	logger.LogRootEval(rootEval)

	bestEval := DefaultBestEval()

	if rootEval.AdvPrice >= 30 {
		return board.Move{}, false, rootEval, bestEval, false
	}

	var mvBest board.Move
	hasBest := false
	isMateYour := false

	for _, mvCand := range movegen.MovesPseudoLegal(a.pos, eb) {
		logger.StartCandidate(mvCand)

		cand := newCandInfo(a.pos, mvCand)

		improved, candIsMateYour := a.tryImproveBest(rootEval, &bestEval, cand, logger)

		if improved {
			logger.LogCandidateImproved()
		}
		logger.EndCandidate()

		if improved || candIsMateYour {
			a.updateNaitouBestSrc(mvCand)
			mvBest, hasBest = mvCand, true
		}
		if candIsMateYour {
			isMateYour = true
			break
		}
	}

	logger.LogBestEval(bestEval)

	return mvBest, hasBest, rootEval, bestEval, isMateYour
}

// EvalRoot evaluates the root position.
func (a *Ai) EvalRoot(eb effect.Board) RootEval {
	return a.evalRoot(eb)
}

func (a *Ai) evalRoot(eb effect.Board) RootEval {
	my := a.my
	your := my.Inv()

	posEval, _ := a.evalPosition(eb, nil)
	rbpMy, powerMy := a.evalPower(a.pos, my, posEval.NPromotedMy)
	_, powerYour := a.evalPower(a.pos, your, posEval.NPromotedYour)

	return RootEval{
		AdvPrice:    posEval.AdvPrice,
		DisadvPrice: posEval.DisadvPrice,
		PowerMy:     powerMy,
		PowerYour:   powerYour,
		RbpMy:       rbpMy,
	}
}

// evalPower returns (rbp, power) for side. Overflow is possible and intended: power is an
// 8-bit score that wraps around on overflow, built from side's hand pieces, its promoted
// pieces and a ply factor.
func (a *Ai) evalPower(pos board.Position, side board.Side, nPromoted uint8) (uint8, uint8) {
	hand := pos.Hand(side)
	rbp := hand.Get(board.Rook) + hand.Get(board.Bishop) + nPromoted
	gs := hand.Get(board.Gold) + hand.Get(board.Silver)
	kl := hand.Get(board.Knight) + hand.Get(board.Lance)
	p := hand.Get(board.Pawn)

	plyFactor := a.progressPly / 11
	if plyFactor >= 7 {
		plyFactor *= 2
	}

	var power uint8
	power += rbp * 8
	power += 4 * gs
	power += 2 * kl
	power += p
	power += plyFactor

	return rbp, power
}

// evalPosition evaluates the current position. If cand is non-nil, the position is treated
// as the leaf after applying cand, and a CandEval is also returned.
func (a *Ai) evalPosition(eb effect.Board, cand *CandInfo) (PositionEval, *CandEval) {
	my := a.my
	your := my.Inv()

	var sqKingMy, sqKingYour board.Sq
	if cand != nil {
		sqKingMy, sqKingYour = cand.SqKingMy, cand.SqKingYour
	} else {
		sqKingMy, sqKingYour = a.pos.SqKing(my), a.pos.SqKing(your)
	}

	posi, advPrice, advSq := a.evalAdvFull(a.pos, eb)
	nega, disadvPrice, disadvSq, isSacrificeMy := a.evalDisadv(a.pos, eb, cand)
	hangingYour := a.evalHanging(a.pos.Board(), eb)
	nLooseMy := a.evalNLoose(a.pos.Board(), eb)
	nPromotedMy, nPromotedYour := a.evalNPromoted(a.pos.Board())
	kingSafetyFarMy, kingThreatFarMy, kingThreatFarYour, kingThreatNearMy, nChokeMy :=
		a.evalAroundKings(eb, sqKingMy, sqKingYour)

	posEval := PositionEval{
		AdvPrice:          advPrice,
		AdvSq:             advSq,
		DisadvPrice:       disadvPrice,
		DisadvSq:          disadvSq,
		HangingYour:       hangingYour,
		KingSafetyFarMy:   kingSafetyFarMy,
		KingThreatFarMy:   kingThreatFarMy,
		KingThreatFarYour: kingThreatFarYour,
		KingThreatNearMy:  kingThreatNearMy,
		NChokeMy:          nChokeMy,
		NLooseMy:          nLooseMy,
		NPromotedMy:       nPromotedMy,
		NPromotedYour:     nPromotedYour,
	}

	if cand == nil {
		return posEval, nil
	}

	var capturePrice uint8
	if cand.HasCapture {
		capturePrice = price.Of0(cand.PtCapture)
	}
	dstToYourKing := uint8(cand.Move.Dst.Dist(sqKingYour))
	var toMyKing uint8
	if cand.Move.IsDrop {
		toMyKing = uint8(cand.Move.Dst.Dist(sqKingMy))
	} else {
		toMyKing = uint8(cand.Move.Src.Dist(sqKingMy))
	}

	candEval := CandEval{
		AdvPrice:      advPrice,
		CapturePrice:  capturePrice,
		DisadvPrice:   disadvPrice,
		DstToYourKing: dstToYourKing,
		IsSacrifice:   isSacrificeMy,
		Nega:          nega,
		Posi:          posi,
		ToMyKing:      toMyKing,
	}
	return posEval, &candEval
}

type advResult struct {
	sumPrice uint8
	advPrice uint8
}

func (a *Ai) evalAdv(pos board.Position, eb effect.Board) advResult {
	sum, adv, _ := a.evalAdvFull(pos, eb)
	return advResult{sumPrice: sum, advPrice: adv}
}

func (a *Ai) evalAdvFull(pos board.Position, eb effect.Board) (uint8, uint8, board.Sq) {
	my := a.my

	var sumPrice uint8
	var advPrice uint8
	advSq := board.SqInvalid

	for _, sq := range board.IterValidSim(my) {
		if !a.isAdvSq(pos, eb, sq) {
			continue
		}
		ptYour, _ := pos.Board().At(sq).PieceAt()
		p := price.Of1(ptYour)

		sumPrice += p
		if p > advPrice {
			advPrice = p
			advSq = sq
		}
	}

	return sumPrice, advPrice, advSq
}

func (a *Ai) isAdvSq(pos board.Position, eb effect.Board, sq board.Sq) bool {
	my := a.my
	your := my.Inv()

	s, ptYour, ok := pos.Board().At(sq).SidePiece()
	if !ok || s != your {
		return false
	}

	cell := eb.At(sq)
	effMy := cell[my].Count
	effYour := cell[your].Count

	switch {
	case effMy == 0:
		return false
	case effYour == 0:
		return true
	default:
		atkMy := cell[my].Attacker
		priceMy := price.Of1(atkMy)
		priceYour := price.Of1(ptYour)
		if priceMy < priceYour {
			return true
		}
		if priceMy == priceYour {
			return a.progressLevel != 0
		}
		return false
	}
}

func (a *Ai) evalDisadv(pos board.Position, eb effect.Board, cand *CandInfo) (uint8, uint8, board.Sq, bool) {
	my := a.my

	var nega uint8
	var disadvPrice uint8
	disadvSq := board.SqInvalid
	isSacrificeMy := false
	exchange := false

	for _, sq := range board.IterValidSim(my) {
		isDisadv, exchangeEnable := a.isDisadvSq(pos, eb, sq)
		if !isDisadv {
			continue
		}
		if exchangeEnable {
			exchange = true
		}

		if cand != nil && sq == cand.Move.Dst && !cand.HasCapture {
			isSacrificeMy = true
		}

		ptMy, _ := pos.Board().At(sq).PieceAt()
		p := price.Of3(ptMy)

		nega += p
		if p > disadvPrice {
			disadvPrice = p
			disadvSq = sq
		}

		if exchange {
			nega--
			disadvPrice--
		}
	}

	return nega, disadvPrice, disadvSq, isSacrificeMy
}

func (a *Ai) isDisadvSq(pos board.Position, eb effect.Board, sq board.Sq) (bool, bool) {
	my := a.my
	your := my.Inv()

	s, ptMy, ok := pos.Board().At(sq).SidePiece()
	if !ok || s != my {
		return false, false
	}

	cell := eb.At(sq)
	effMy := cell[my].Count
	effYour := cell[your].Count

	if effYour == 0 {
		return false, false
	}
	if ptMy == board.King {
		return true, false
	}
	if effMy == 0 {
		return true, false
	}

	atkMy := cell[my].Attacker
	atkYour := cell[your].Attacker
	pricePtMy := price.Of3(ptMy)
	priceAtkMy := price.Of3(atkMy)
	priceAtkYour := price.Of2(atkYour)

	if effMy < effYour {
		return pricePtMy+priceAtkMy >= priceAtkYour, false
	}
	if pricePtMy > priceAtkYour {
		return true, true
	}
	return false, false
}

func (a *Ai) evalHanging(b board.Board, eb effect.Board) bool {
	my := a.my
	your := my.Inv()

	for _, sq := range board.IterValid() {
		if sq.Y().Rel(my).Get() < 6 {
			continue
		}
		s, pt, ok := b.At(sq).SidePiece()
		if !ok || s != your {
			continue
		}
		if pt != board.Pawn && pt != board.Lance {
			continue
		}
		dst := sq.Add(11 * my.Sgn())
		if !dst.IsOk() {
			continue
		}
		if eb.At(dst)[my].Count < eb.At(dst)[your].Count {
			return true
		}
	}
	return false
}

func (a *Ai) evalNLoose(b board.Board, eb effect.Board) uint8 {
	my := a.my

	var n uint8
	for _, sq := range board.IterValid() {
		s, pt, ok := b.At(sq).SidePiece()
		if !ok || s != my {
			continue
		}
		switch pt {
		case board.King, board.Knight, board.Lance, board.Pawn:
			continue
		}
		if eb.At(sq)[my].Count == 0 {
			n++
		}
	}
	return n
}

func (a *Ai) evalNPromoted(b board.Board) (uint8, uint8) {
	var nMy, nYour uint8
	for _, sq := range board.IterValid() {
		for _, side := range board.Sides() {
			s, pt, ok := b.At(sq).SidePiece()
			if !ok || s != side || !pt.IsPromoted() {
				continue
			}
			if side == a.my {
				nMy++
			} else {
				nYour++
			}
		}
	}
	return nMy, nYour
}

func (a *Ai) evalAroundKings(eb effect.Board, sqKingMy, sqKingYour board.Sq) (uint8, uint8, uint8, uint8, uint8) {
	my := a.my
	your := my.Inv()

	var kingSafetyFarMy, kingThreatFarMy, kingThreatFarYour, kingThreatNearMy, nChokeMy uint8

	for _, sq := range board.IterValid() {
		cell := eb.At(sq)
		distToMy := sq.Dist(sqKingMy)
		distToYour := sq.Dist(sqKingYour)

		if distToMy <= 2 {
			kingSafetyFarMy += cell[my].Count
			kingThreatFarMy += cell[your].Count
		}
		if distToMy == 1 {
			kingThreatNearMy += cell[your].Count
			if cell[your].Count >= cell[my].Count {
				nChokeMy++
			}
		}
		if distToYour <= 2 {
			kingThreatFarYour += cell[my].Count
		}
	}

	return kingSafetyFarMy, kingThreatFarMy, kingThreatFarYour, kingThreatNearMy, nChokeMy
}

// tryImproveBest applies cand, evaluates and tweaks it, and updates bestEval in place if it
// improves on the current best. Returns (improved, candIsMateYour).
func (a *Ai) tryImproveBest(rootEval RootEval, bestEval *BestEval, cand CandInfo, logger Logger) (bool, bool) {
	my := a.my

	cmd, err := a.pos.DoMove(cand.Move)
	if err != nil {
		panic(err)
	}

	eb := effect.FromBoard(a.pos.Board(), my)
	logger.LogCandidateEffectBoard(eb)

	posEval, candEvalPtr := a.evalPosition(eb, &cand)
	candEval := *candEvalPtr

	logger.LogCandidatePositionEval(posEval)
	logger.LogCandidateEval(candEval)

	tweakRes := a.tweakEval(rootEval, posEval, &candEval, cand, logger)

	a.pos.UndoMove(cmd)

	if tweakRes == tweakReject {
		return false, false
	}
	isMateYour := tweakRes == tweakYourMate

	improved := a.canImproveBest(rootEval, posEval, candEval, *bestEval, cand.Move)
	if improved {
		bestEval.AdvPrice = candEval.AdvPrice
		bestEval.AdvSq = posEval.AdvSq
		bestEval.CapturePrice = candEval.CapturePrice
		bestEval.DisadvPrice = candEval.DisadvPrice
		bestEval.DisadvSq = posEval.DisadvSq
		bestEval.DstToYourKing = candEval.DstToYourKing
		bestEval.KingSafetyFarMy = posEval.KingSafetyFarMy
		bestEval.KingThreatFarMy = posEval.KingThreatFarMy
		bestEval.KingThreatFarYour = posEval.KingThreatFarYour
		bestEval.NLooseMy = posEval.NLooseMy
		bestEval.NPromotedMy = posEval.NPromotedMy
		bestEval.Nega = candEval.Nega
		bestEval.Posi = candEval.Posi
		bestEval.ToMyKing = candEval.ToMyKing
	}

	return improved, isMateYour
}

// tweakEval applies the full sequence of heuristic corrections to candEval, in the exact
// order the original engine applies them; order matters because every step mutates state
// later steps read. Reproduces 8-bit wraparound throughout via Go's native uint8 arithmetic.
func (a *Ai) tweakEval(rootEval RootEval, posEval PositionEval, candEval *CandEval, cand CandInfo, logger Logger) tweakResult {
	my := a.my

	sqKingMy := cand.SqKingMy
	sqKingYour := cand.SqKingYour

	isMateYour := false

	if candEval.DisadvPrice < 30 && candEval.AdvPrice >= 30 && candEval.DstToYourKing < 3 {
		switch a.judgeMateYour(cand.Move) {
		case mateNonmate:
		case mateDropPawnMate:
			return tweakReject
		case mateMate:
			isMateYour = true
			candEval.AdvPrice = 60
			candEval.CapturePrice = 60
			candEval.DisadvPrice = 0
		}
	}
	logger.LogCandidateEval(*candEval)

	if candEval.DisadvPrice < 20 && cand.PtDst == board.Pawn && candEval.CapturePrice > 0 {
		candEval.Nega--
	}
	logger.LogCandidateEval(*candEval)

	if candEval.IsSacrifice && rootEval.DisadvPrice < 30 && !isMateYour {
		return tweakReject
	}
	logger.LogCandidateEval(*candEval)

	if posEval.HangingYour {
		candEval.Nega += 4
	}
	logger.LogCandidateEval(*candEval)

	if (rootEval.PowerMy >= 15 || rootEval.PowerYour >= 15) &&
		candEval.Nega < 3 &&
		posEval.DisadvSq.Dist(sqKingMy) >= 4 {
		candEval.Nega -= candEval.DisadvPrice
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 25 || rootEval.PowerYour >= 25 {
		if posEval.AdvSq.Dist(sqKingMy) >= 3 && posEval.AdvSq.Dist(sqKingYour) >= 4 {
			candEval.Posi -= candEval.AdvPrice
		}
		logger.LogCandidateEval(*candEval)

		if candEval.DisadvPrice < 7 &&
			posEval.DisadvSq.Dist(sqKingMy) >= 3 &&
			posEval.DisadvSq.Dist(sqKingYour) >= 3 {
			candEval.Nega -= candEval.DisadvPrice
		}
		logger.LogCandidateEval(*candEval)

		if candEval.CapturePrice > 0 {
			dstToMyKing := cand.Move.Dst.Dist(sqKingMy)
			dstToYourKing := cand.Move.Dst.Dist(sqKingYour)
			if dstToYourKing <= 2 {
				candEval.CapturePrice += 2
			} else if dstToMyKing >= 4 && dstToYourKing >= 4 {
				candEval.CapturePrice -= 3
			}
		}
	}
	logger.LogCandidateEval(*candEval)

	if candEval.AdvPrice >= 30 &&
		posEval.KingThreatFarYour < 12 &&
		rootEval.RbpMy < 4 &&
		rootEval.PowerMy < 35 &&
		(candEval.Posi-candEval.AdvPrice) < 3 {
		candEval.Posi -= candEval.AdvPrice
	}
	logger.LogCandidateEval(*candEval)

	if cand.Move.IsDrop &&
		isOneOf(cand.PtDst, board.Rook, board.Bishop, board.Gold, board.Silver) &&
		cand.Move.Dst.Y().Rel(my).Get() >= 5 &&
		rootEval.DisadvPrice < 30 &&
		candEval.DstToYourKing >= 3 &&
		candEval.ToMyKing >= 3 {
		candEval.Nega += 2
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 27 {
		switch {
		case candEval.Posi >= 3 && candEval.Posi < 6:
			candEval.CapturePrice += 1
		case candEval.Posi >= 6:
			candEval.CapturePrice += 4
		}
	}
	logger.LogCandidateEval(*candEval)

	if cand.Move.IsDrop && isOneOf(cand.PtDst, board.Rook, board.Bishop) {
		yRel := cand.Move.Dst.Y().Rel(my).Get()
		if yRel <= 2 {
			candEval.Posi += 2
			candEval.Nega -= 2
		} else if rootEval.DisadvPrice < 30 {
			candEval.Posi -= 2
			candEval.Nega += 2
			if yRel >= 6 {
				candEval.Nega += 2
			}
		}
	}
	logger.LogCandidateEval(*candEval)

	if cand.PtDst == board.King {
		candEval.CapturePrice--
		candEval.Posi -= 2
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 31 &&
		candEval.AdvPrice < 4 &&
		candEval.DisadvPrice == 0 &&
		posEval.KingThreatFarYour >= 7 &&
		posEval.AdvSq.Dist(sqKingMy) <= 2 {
		candEval.Posi += (posEval.KingThreatFarYour - 7) / 2
	}
	logger.LogCandidateEval(*candEval)

	if candEval.AdvPrice == 16 && cand.PtDst == board.Bishop {
		candEval.Posi -= candEval.AdvPrice
		candEval.AdvPrice = 0
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 27 && !(cand.Move.IsDrop && isOneOf(cand.PtDst, board.Rook, board.Bishop)) {
		candEval.Posi -= 4 * posEval.NChokeMy
		candEval.Nega += 4 * posEval.NChokeMy
	}
	logger.LogCandidateEval(*candEval)

	if candEval.CapturePrice >= 8 &&
		cand.HasCapture && isOneOf(cand.PtCapture, board.King, board.Rook, board.Bishop, board.Gold, board.Silver) &&
		(candEval.AdvPrice >= 30 || posEval.AdvSq.Dist(sqKingYour) < 3) {
		if rootEval.PowerMy >= 30 && posEval.KingThreatFarYour >= 7 && rootEval.RbpMy >= 4 {
			candEval.Posi += 2
			if candEval.DisadvPrice >= 8 && candEval.DisadvPrice < 30 {
				candEval.Nega = 8
				candEval.DisadvPrice = 8
			}
		}
	}
	logger.LogCandidateEval(*candEval)

	// A known array-out-of-bounds bug exists here in the original engine; it is not
	// reproduced, per the decision to clamp rather than replicate an undefined read.
	if posEval.KingThreatNearMy >= 5 && cand.PtDst == board.King {
		candEval.CapturePrice = 0
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 35 && candEval.AdvPrice >= 30 && candEval.CapturePrice >= 2 {
		candEval.Nega -= 2
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 20 && candEval.CapturePrice < 2 {
		switch {
		case candEval.Posi <= 4:
		case candEval.Posi <= 9:
			candEval.CapturePrice += 1
		case candEval.Posi <= 19:
			candEval.CapturePrice += 2
		default:
			candEval.CapturePrice += 3
		}
	}
	logger.LogCandidateEval(*candEval)

	if cand.Move.IsDrop && isOneOf(cand.PtDst, board.Rook, board.Bishop) && cand.Move.Dst.Y().Rel(my).Get() >= 4 {
		candEval.Posi -= 3
		candEval.Nega += 3
	}
	logger.LogCandidateEval(*candEval)

	if !cand.Move.IsDrop && cand.PtSrc.IsPromoted() {
		dd := int(cand.Move.Src.Dist(sqKingYour)) - int(cand.Move.Dst.Dist(sqKingYour))
		candEval.Posi += uint8(dd)
	}
	logger.LogCandidateEval(*candEval)

	if rootEval.PowerMy >= 25 && candEval.AdvPrice >= 30 {
		candEval.Posi += 4
		candEval.CapturePrice += 1
		candEval.Nega -= 2
	}
	logger.LogCandidateEval(*candEval)

	if candEval.AdvPrice >= 30 && candEval.CapturePrice >= 8 {
		candEval.Nega -= 4
	}
	logger.LogCandidateEval(*candEval)

	chmaxZero(&candEval.CapturePrice)
	chmaxZero(&candEval.Posi)
	chmaxZero(&candEval.Nega)
	logger.LogCandidateEval(*candEval)

	if isMateYour {
		return tweakYourMate
	}
	return tweakNormal
}

func isOneOf(pt board.Piece, opts ...board.Piece) bool {
	for _, o := range opts {
		if pt == o {
			return true
		}
	}
	return false
}

// chmaxZero clamps a wrapped-negative uint8 (high bit set) back to zero.
func chmaxZero(x *uint8) {
	if *x&0x80 != 0 {
		*x = 0
	}
}

// canImproveBest reports whether cand beats the current best by the original engine's
// lexicographic comparator.
func (a *Ai) canImproveBest(rootEval RootEval, posEval PositionEval, candEval CandEval, bestEval BestEval, mvCand board.Move) bool {
	if candEval.DisadvPrice >= 40 && bestEval.DisadvPrice < 40 {
		return false
	}
	if candEval.DisadvPrice < 40 && bestEval.DisadvPrice >= 40 {
		return true
	}

	switch {
	case candEval.Nega > bestEval.Nega:
		switch {
		case candEval.CapturePrice < bestEval.CapturePrice:
			return false
		case candEval.CapturePrice > bestEval.CapturePrice:
			dcapture := candEval.CapturePrice - bestEval.CapturePrice
			dnega := candEval.Nega - bestEval.Nega
			return dnega <= dcapture
		default:
			if rootEval.PowerMy < 18 {
				return false
			}
			if candEval.CapturePrice > 0 {
				return false
			}
			if candEval.Posi > bestEval.Posi {
				dposi := candEval.Posi - bestEval.Posi
				dnega := candEval.Nega - bestEval.Nega
				return dnega < dposi
			}
			return false
		}

	case candEval.Nega < bestEval.Nega:
		if bestEval.Nega >= 30 && bestEval.Nega < 80 {
			return true
		}
		switch {
		case candEval.CapturePrice > bestEval.CapturePrice:
			return true
		case candEval.CapturePrice < bestEval.CapturePrice:
			dcapture := bestEval.CapturePrice - candEval.CapturePrice
			dnega := bestEval.Nega - candEval.Nega
			if dnega != dcapture {
				return dnega > dcapture
			}
		default:
			if rootEval.PowerMy < 18 {
				return true
			}
			if candEval.CapturePrice > 0 {
				return true
			}
			if candEval.Posi >= bestEval.Posi {
				return true
			}
			dposi := bestEval.Posi - candEval.Posi
			dnega := bestEval.Nega - candEval.Nega
			if dnega != dposi {
				return dnega > dposi
			}
		}

	default:
		if candEval.CapturePrice != bestEval.CapturePrice {
			return candEval.CapturePrice > bestEval.CapturePrice
		}
	}

	if posEval.NPromotedMy != bestEval.NPromotedMy {
		return posEval.NPromotedMy > bestEval.NPromotedMy
	}
	if candEval.Posi != bestEval.Posi {
		return candEval.Posi > bestEval.Posi
	}
	if candEval.AdvPrice != bestEval.AdvPrice {
		return candEval.AdvPrice > bestEval.AdvPrice
	}

	if mvCand.IsDrop {
		if rootEval.DisadvPrice < 30 {
			return false
		}
		naitouCandSrc := naitouDropSrc(mvCand.Pt)
		return naitouCandSrc < a.naitouBestSrc
	}

	if posEval.KingThreatFarYour != bestEval.KingThreatFarYour {
		return posEval.KingThreatFarYour > bestEval.KingThreatFarYour
	}
	if posEval.KingSafetyFarMy != bestEval.KingSafetyFarMy {
		return posEval.KingSafetyFarMy > bestEval.KingSafetyFarMy
	}
	if bestEval.KingThreatFarMy != posEval.KingThreatFarMy {
		return bestEval.KingThreatFarMy > posEval.KingThreatFarMy
	}
	if bestEval.NLooseMy != posEval.NLooseMy {
		return bestEval.NLooseMy > posEval.NLooseMy
	}
	if candEval.ToMyKing >= 3 {
		if bestEval.DstToYourKing != candEval.DstToYourKing {
			return bestEval.DstToYourKing > candEval.DstToYourKing
		}
	}
	return candEval.ToMyKing > bestEval.ToMyKing
}

// judgeMateYour tests whether cand delivers checkmate: every evasion the opponent has is
// tried, and if my side still attacks the opponent's king after all of them, it is mate (or,
// if cand is a pawn drop, an illegal "uchifuzume" drop instead).
func (a *Ai) judgeMateYour(mvCand board.Move) mateJudge {
	my := a.my
	your := my.Inv()

	for _, mv := range movegen.EvasionMoves(a.pos) {
		cmd, err := a.pos.DoMove(mv)
		if err != nil {
			panic(err)
		}
		eb := effect.FromBoard(a.pos.Board(), my)
		sqKingYour := a.pos.SqKing(your)
		a.pos.UndoMove(cmd)

		if eb.At(sqKingYour)[my].Count == 0 {
			return mateNonmate
		}
	}

	if mvCand.IsDrop && mvCand.Pt == board.Pawn {
		return mateDropPawnMate
	}
	return mateMate
}

func (a *Ai) updateNaitouBestSrc(mv board.Move) {
	if mv.IsDrop {
		a.naitouBestSrc = naitouDropSrc(mv.Pt)
	} else {
		a.naitouBestSrc = 200
	}
}

func initialPosition(handicap board.Handicap) (board.Position, error) {
	return sfen.DecodeHandicap(handicap)
}
