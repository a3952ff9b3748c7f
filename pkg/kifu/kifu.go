// Package kifu records and replays a game as a sequence of thinking-routine outcomes: played
// moves, and the two ways a game can end without a played move (a suicidal opponent move, or
// the engine judging its own position lost).
package kifu

import (
	"fmt"
	"strings"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/board/sfen"
)

// EntryKind discriminates the four shapes a RecordEntry can take.
type EntryKind uint8

const (
	EntryMove EntryKind = iota
	EntryMyWin
	EntryYourSuicide
	EntryYourWin
)

// RecordEntry is one entry in a game record: either a move the engine played (plain, or one
// it judged to be a forced mate), or one of the two non-move game-ending outcomes the
// thinking routine can report directly.
type RecordEntry struct {
	Kind EntryKind
	Move board.Move // only meaningful when Kind is EntryMove or EntryMyWin
}

func NewEntryMove(mv board.Move) RecordEntry {
	return RecordEntry{Kind: EntryMove, Move: mv}
}

func NewEntryMyWin(mv board.Move) RecordEntry {
	return RecordEntry{Kind: EntryMyWin, Move: mv}
}

func NewEntryYourSuicide() RecordEntry {
	return RecordEntry{Kind: EntryYourSuicide}
}

func NewEntryYourWin() RecordEntry {
	return RecordEntry{Kind: EntryYourWin}
}

func (e RecordEntry) String() string {
	switch e.Kind {
	case EntryMove:
		return sfen.EncodeMove(e.Move)
	case EntryMyWin:
		return "!" + sfen.EncodeMove(e.Move)
	case EntryYourSuicide:
		return "YourSuicide"
	default:
		return "YourWin"
	}
}

// ParseEntry parses one RecordEntry from its String representation.
func ParseEntry(s string) (RecordEntry, error) {
	switch s {
	case "YourSuicide":
		return NewEntryYourSuicide(), nil
	case "YourWin":
		return NewEntryYourWin(), nil
	}
	if rest, ok := strings.CutPrefix(s, "!"); ok {
		mv, err := sfen.DecodeMove(rest)
		if err != nil {
			return RecordEntry{}, fmt.Errorf("kifu: parse entry: %w", err)
		}
		return NewEntryMyWin(mv), nil
	}
	mv, err := sfen.DecodeMove(s)
	if err != nil {
		return RecordEntry{}, fmt.Errorf("kifu: parse entry: %w", err)
	}
	return NewEntryMove(mv), nil
}

// Record is a full game record: the handicap and time-control setting the game started
// under, plus the sequence of entries played.
type Record struct {
	Handicap  board.Handicap
	Timelimit bool
	Entries   []RecordEntry
}

func NewRecord(handicap board.Handicap, timelimit bool) Record {
	return Record{Handicap: handicap, Timelimit: timelimit}
}

func (r *Record) Add(entry RecordEntry) {
	r.Entries = append(r.Entries, entry)
}

// String renders the record as: handicap name, timelimit bool, then the SFEN starting
// position followed by "moves" and the space-separated entries.
func (r Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Handicap)
	fmt.Fprintf(&b, "%t\n", r.Timelimit)

	pos, err := sfen.DecodeHandicap(r.Handicap)
	if err != nil {
		panic(err) // handicaps always decode; a failure here is a programmer error
	}
	posStr := sfen.EncodePosition(pos)

	strs := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		strs[i] = e.String()
	}
	fmt.Fprintf(&b, "%s moves %s\n", posStr, strings.Join(strs, " "))

	return b.String()
}

// ParseRecord parses the String representation produced by Record.String.
func ParseRecord(s string) (Record, error) {
	lines := strings.Split(s, "\n")
	next := func() (string, error) {
		for len(lines) > 0 {
			line := lines[0]
			lines = lines[1:]
			return line, nil
		}
		return "", fmt.Errorf("kifu: parse record: incomplete")
	}

	handicapLine, err := next()
	if err != nil {
		return Record{}, err
	}
	handicap, err := board.ParseHandicap(handicapLine)
	if err != nil {
		return Record{}, fmt.Errorf("kifu: parse record: %w", err)
	}

	timelimitLine, err := next()
	if err != nil {
		return Record{}, err
	}
	var timelimit bool
	switch timelimitLine {
	case "true":
		timelimit = true
	case "false":
		timelimit = false
	default:
		return Record{}, fmt.Errorf("kifu: parse record: invalid timelimit: %q", timelimitLine)
	}

	moveLine, err := next()
	if err != nil {
		return Record{}, err
	}
	// Record.String always writes the full "sfen <board> <side> <hands> <ply>" form (never
	// the bare "startpos" magic some SFEN producers use), since a Record's initial position
	// depends on which of the 6 handicaps it started from.
	fields := strings.Fields(moveLine)
	if len(fields) == 0 || fields[0] != "sfen" {
		return Record{}, fmt.Errorf("kifu: parse record: invalid magic")
	}
	magicEnd := 5
	if len(fields) <= magicEnd || fields[magicEnd] != "moves" {
		return Record{}, fmt.Errorf("kifu: parse record: moves not found")
	}

	pos, err := sfen.DecodePosition(strings.Join(fields[:magicEnd], " "))
	if err != nil {
		return Record{}, fmt.Errorf("kifu: parse record: %w", err)
	}
	want, err := sfen.DecodeHandicap(handicap)
	if err != nil {
		return Record{}, fmt.Errorf("kifu: parse record: %w", err)
	}
	if pos != want {
		return Record{}, fmt.Errorf("kifu: parse record: initial position mismatch")
	}

	var entries []RecordEntry
	for _, tok := range fields[magicEnd+1:] {
		e, err := ParseEntry(tok)
		if err != nil {
			return Record{}, fmt.Errorf("kifu: parse record: %w", err)
		}
		entries = append(entries, e)
	}

	return Record{Handicap: handicap, Timelimit: timelimit, Entries: entries}, nil
}

