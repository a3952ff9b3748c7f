// Package thinklog records a full thinking-cycle trace for diagnostics: the root
// evaluation, every candidate considered and how its evaluation was tweaked step by step, and
// the final chosen outcome. ai.NullLogger covers the common case of wanting no trace at all;
// RecordingLogger is for callers that want to inspect or print one — see pkg/pretty for
// rendering a completed Log as text.
package thinklog

import (
	"github.com/taotao54321/naitou/pkg/ai"
	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/book"
	"github.com/taotao54321/naitou/pkg/effect"
	"github.com/taotao54321/naitou/pkg/kifu"
)

// CandLog is the trace of one candidate move: its resulting effect board and position
// evaluation, every successive tweak of its candidate evaluation, and whether it ended up
// improving the best move found so far.
type CandLog struct {
	Move     board.Move
	EffBoard effect.Board
	PosEval  ai.PositionEval
	Evals    []ai.CandEval
	Improved bool
}

// Log is the full trace of one thinking cycle.
type Log struct {
	ProgressPly      uint8
	ProgressLevel    uint8
	ProgressLevelSub uint8
	BookState        book.State

	RootEval     ai.RootEval
	RootEffBoard effect.Board
	CandLogs     []CandLog
	BestEval     ai.BestEval
	RecordEntry  kifu.RecordEntry
}

// RecordingLogger implements ai.Logger, accumulating every piece of a thinking cycle's trace. Its
// optional fields (unset until the corresponding Log* call arrives) are pointers, nil
// standing in for the original's Option::None; IntoLog panics if any of them are still unset,
// matching the original's own end-of-cycle assertions.
type RecordingLogger struct {
	progressPly      *uint8
	progressLevel    *uint8
	progressLevelSub *uint8
	bookState        *book.State

	rootEval     *ai.RootEval
	rootEffBoard *effect.Board
	candLogs     []CandLog
	bestEval     *ai.BestEval
	recordEntry  *kifu.RecordEntry

	candMv       *board.Move
	candEffBoard *effect.Board
	candPosEval  *ai.PositionEval
	candEvals    []ai.CandEval
	candImproved bool
}

// NewRecordingLogger returns an empty RecordingLogger ready to trace one thinking cycle.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// IntoLog consumes the recorder and returns the completed trace. Panics if any top-level
// field was never logged (a thinking cycle always reports all of them).
func (r *RecordingLogger) IntoLog() Log {
	if r.progressPly == nil || r.progressLevel == nil || r.progressLevelSub == nil || r.bookState == nil {
		panic("thinklog: progress not logged")
	}
	if r.rootEval == nil || r.rootEffBoard == nil || r.bestEval == nil || r.recordEntry == nil {
		panic("thinklog: root/best eval or record entry not logged")
	}

	return Log{
		ProgressPly:      *r.progressPly,
		ProgressLevel:    *r.progressLevel,
		ProgressLevelSub: *r.progressLevelSub,
		BookState:        *r.bookState,

		RootEval:     *r.rootEval,
		RootEffBoard: *r.rootEffBoard,
		CandLogs:     r.candLogs,
		BestEval:     *r.bestEval,
		RecordEntry:  *r.recordEntry,
	}
}

// LogProgress is the first call of every thinking cycle; it discards the candidates of any
// earlier cycle so the recorder always holds the latest cycle alone.
func (r *RecordingLogger) LogProgress(ply, level, levelSub uint8) {
	r.candLogs = nil
	r.progressPly = &ply
	r.progressLevel = &level
	r.progressLevelSub = &levelSub
}

func (r *RecordingLogger) LogBookState(s book.State) {
	r.bookState = &s
}

func (r *RecordingLogger) LogRootEval(e ai.RootEval) {
	r.rootEval = &e
}

func (r *RecordingLogger) LogRootEffectBoard(eb effect.Board) {
	r.rootEffBoard = &eb
}

func (r *RecordingLogger) StartCandidate(mv board.Move) {
	r.candMv = &mv
	r.candEffBoard = nil
	r.candPosEval = nil
	r.candEvals = nil
	r.candImproved = false
}

func (r *RecordingLogger) LogCandidateEffectBoard(eb effect.Board) {
	r.candEffBoard = &eb
}

func (r *RecordingLogger) LogCandidatePositionEval(e ai.PositionEval) {
	r.candPosEval = &e
}

func (r *RecordingLogger) LogCandidateEval(e ai.CandEval) {
	r.candEvals = append(r.candEvals, e)
}

func (r *RecordingLogger) LogCandidateImproved() {
	r.candImproved = true
}

func (r *RecordingLogger) EndCandidate() {
	if r.candMv == nil || r.candEffBoard == nil || r.candPosEval == nil {
		panic("thinklog: candidate not fully logged")
	}

	r.candLogs = append(r.candLogs, CandLog{
		Move:     *r.candMv,
		EffBoard: *r.candEffBoard,
		PosEval:  *r.candPosEval,
		Evals:    r.candEvals,
		Improved: r.candImproved,
	})

	r.candMv = nil
	r.candEffBoard = nil
	r.candPosEval = nil
	r.candEvals = nil
	r.candImproved = false
}

func (r *RecordingLogger) LogBestEval(e ai.BestEval) {
	r.bestEval = &e
}

func (r *RecordingLogger) LogRecordEntry(e kifu.RecordEntry) {
	r.recordEntry = &e
}
