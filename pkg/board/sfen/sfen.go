// Package sfen reads and writes shogi positions and move sequences in SFEN notation, the de
// facto standard interchange format used by USI-speaking engines.
package sfen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taotao54321/naitou/pkg/board"
)

// Kifu is a starting position together with the moves played from it, as carried by a USI
// "position" command.
type Kifu struct {
	Position board.Position
	Moves    []board.Move
}

// handPieces is the canonical encode order for a hand's pieces, Sente's hand first then
// Gote's, most valuable first.
var handPieces = []board.Piece{board.Rook, board.Bishop, board.Gold, board.Silver, board.Knight, board.Lance, board.Pawn}

// DecodeKifu parses a full USI "position" argument string of the form
// "sfen <board> <side> <hands> <ply> [moves <move>...]".
func DecodeKifu(s string) (Kifu, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 5 || fields[0] != "sfen" {
		return Kifu{}, fmt.Errorf("invalid sfen: %q", s)
	}

	pos, err := decodePositionFields(fields[1:5])
	if err != nil {
		return Kifu{}, err
	}

	rest := fields[5:]
	if len(rest) > 0 {
		if rest[0] != "moves" {
			return Kifu{}, fmt.Errorf("invalid sfen: %q", s)
		}
		rest = rest[1:]
	}
	moves, err := DecodeMoves(rest)
	if err != nil {
		return Kifu{}, err
	}

	return Kifu{Position: pos, Moves: moves}, nil
}

// DecodeHandicap decodes the canonical starting position for a handicap setup.
func DecodeHandicap(h board.Handicap) (board.Position, error) {
	return DecodePosition(h.InitialSfen())
}

// DecodePosition parses an SFEN string with no trailing moves.
func DecodePosition(s string) (board.Position, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 5 || fields[0] != "sfen" {
		return board.Position{}, fmt.Errorf("invalid sfen: %q", s)
	}
	return decodePositionFields(fields[1:5])
}

func decodePositionFields(fields []string) (board.Position, error) {
	b, err := DecodeBoard(fields[0])
	if err != nil {
		return board.Position{}, err
	}
	side, err := DecodeSide(fields[1])
	if err != nil {
		return board.Position{}, err
	}
	hands, err := DecodeHands(fields[2])
	if err != nil {
		return board.Position{}, err
	}
	ply, err := DecodePly(fields[3])
	if err != nil {
		return board.Position{}, err
	}
	return board.NewPosition(side, b, hands, ply), nil
}

func DecodeBoard(s string) (board.Board, error) {
	rows := strings.Split(s, "/")
	if len(rows) != 9 {
		return board.Board{}, fmt.Errorf("invalid sfen board: %q", s)
	}

	b := board.EmptyBoard()
	for i, row := range rows {
		y := board.SqY(i + 1)
		if err := decodeBoardRow(&b, row, y); err != nil {
			return board.Board{}, err
		}
	}
	return b, nil
}

func decodeBoardRow(b *board.Board, row string, y board.SqY) error {
	x := board.SqX(1)
	promote := false

	for _, r := range row {
		switch {
		case r == '+':
			promote = true
		case r >= '1' && r <= '9':
			if promote {
				return fmt.Errorf("invalid sfen row: %q", row)
			}
			x += board.SqX(int(r - '0'))
		default:
			pt, ok := board.ParsePiece(toUpper(r))
			if !ok {
				return fmt.Errorf("invalid sfen piece: %q", string(r))
			}
			if promote {
				if !pt.CanPromote() {
					return fmt.Errorf("invalid sfen promotion: %q", string(r))
				}
				pt = pt.ToPromoted()
			}
			side := board.Sente
			if r >= 'a' && r <= 'z' {
				side = board.Gote
			}
			if !x.IsValid() {
				return fmt.Errorf("invalid sfen row: %q", row)
			}
			b.Set(board.SqFromXY(x, y), board.OccupiedCell(side, pt))
			x++
			promote = false
		}
	}
	return nil
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func DecodeSide(s string) (board.Side, error) {
	switch s {
	case "b":
		return board.Sente, nil
	case "w":
		return board.Gote, nil
	default:
		return 0, fmt.Errorf("invalid sfen side: %q", s)
	}
}

func DecodeHands(s string) (board.Hands, error) {
	var hands board.Hands
	if s == "-" {
		return hands, nil
	}

	n := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
		default:
			pt, ok := board.ParsePiece(toUpper(r))
			if !ok || !pt.IsHand() {
				return board.Hands{}, fmt.Errorf("invalid sfen hand piece: %q", string(r))
			}
			side := board.Sente
			if r >= 'a' && r <= 'z' {
				side = board.Gote
			}
			if n == 0 {
				n = 1
			}
			hands.Set(side, pt, uint8(n))
			n = 0
		}
	}
	return hands, nil
}

func DecodePly(s string) (int, error) {
	ply, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid sfen ply: %q", s)
	}
	return ply, nil
}

// DecodeMoves parses a sequence of USI move tokens.
func DecodeMoves(tokens []string) ([]board.Move, error) {
	moves := make([]board.Move, 0, len(tokens))
	for _, tok := range tokens {
		mv, err := DecodeMove(tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, mv)
	}
	return moves, nil
}

func DecodeMove(s string) (board.Move, error) {
	cs := []rune(s)
	if len(cs) < 4 || len(cs) > 5 {
		return board.Move{}, fmt.Errorf("invalid sfen move: %q", s)
	}

	if cs[1] == '*' {
		pt, ok := board.ParsePiece(cs[0])
		if !ok {
			return board.Move{}, fmt.Errorf("invalid sfen drop piece: %q", s)
		}
		if !pt.IsHand() {
			return board.Move{}, fmt.Errorf("invalid sfen drop piece: %q", s)
		}
		dst, err := charsToSq(cs[2], cs[3])
		if err != nil {
			return board.Move{}, err
		}
		return board.NewMoveDrop(pt, dst), nil
	}

	src, err := charsToSq(cs[0], cs[1])
	if err != nil {
		return board.Move{}, err
	}
	dst, err := charsToSq(cs[2], cs[3])
	if err != nil {
		return board.Move{}, err
	}
	if src == dst {
		return board.Move{}, fmt.Errorf("invalid sfen move: %q", s)
	}
	promote := len(cs) == 5 && cs[4] == '+'
	return board.NewMoveNondrop(src, dst, promote), nil
}

func charsToSq(cx, cy rune) (board.Sq, error) {
	if cx < '1' || cx > '9' || cy < 'a' || cy > 'i' {
		return 0, fmt.Errorf("invalid sfen square: %q%q", cx, cy)
	}
	x := board.SqX(10 - int(cx-'0'))
	y := board.SqY(int(cy-'a') + 1)
	return board.SqFromXY(x, y), nil
}

func sqToChars(sq board.Sq) (rune, rune) {
	cx := rune('0' + (10 - sq.X().Get()))
	cy := rune('a' + (sq.Y().Get() - 1))
	return cx, cy
}

// EncodeKifu renders a Kifu back to "sfen <board> <side> <hands> <ply> [moves <move>...]".
func EncodeKifu(k Kifu) string {
	var sb strings.Builder
	sb.WriteString(EncodePosition(k.Position))
	if len(k.Moves) > 0 {
		sb.WriteString(" moves")
	}
	for _, mv := range k.Moves {
		sb.WriteByte(' ')
		sb.WriteString(EncodeMove(mv))
	}
	return sb.String()
}

func EncodePosition(pos board.Position) string {
	return fmt.Sprintf("sfen %v %v %v %v", EncodeBoard(pos.Board()), EncodeSide(pos.Side()), EncodeHands(pos.Hands()), EncodePly(pos.Ply()))
}

func EncodeBoard(b board.Board) string {
	rows := make([]string, 9)
	for i, y := range board.IterYValid() {
		rows[i] = encodeBoardRow(b, y)
	}
	return strings.Join(rows, "/")
}

func encodeBoardRow(b board.Board, y board.SqY) string {
	var sb strings.Builder
	empty := 0

	flush := func() {
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
			empty = 0
		}
	}

	for x := board.SqX(1); x <= 9; x++ {
		cell := b.At(board.SqFromXY(x, y))
		if cell.IsEmpty() {
			empty++
			continue
		}
		flush()
		side, pt, _ := cell.SidePiece()
		sb.WriteString(encodePieceSided(side, pt))
	}
	flush()
	return sb.String()
}

func encodePieceSided(side board.Side, pt board.Piece) string {
	s := pt.String() // e.g. "P" or "+P"
	if side == board.Sente {
		return s
	}
	return strings.ToLower(s)
}

func EncodeSide(side board.Side) string {
	if side == board.Sente {
		return "b"
	}
	return "w"
}

func EncodeHands(h board.Hands) string {
	var sb strings.Builder
	for _, side := range board.Sides() {
		for _, pt := range handPieces {
			n := h.Get(side, pt)
			if n == 0 {
				continue
			}
			if n >= 2 {
				sb.WriteString(strconv.Itoa(int(n)))
			}
			sb.WriteString(encodePieceSided(side, pt))
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func EncodePly(ply int) string {
	return strconv.Itoa(ply)
}

func EncodeMoves(moves []board.Move) string {
	toks := make([]string, len(moves))
	for i, mv := range moves {
		toks[i] = EncodeMove(mv)
	}
	return strings.Join(toks, " ")
}

func EncodeMove(mv board.Move) string {
	if mv.IsDrop {
		cx, cy := sqToChars(mv.Dst)
		return fmt.Sprintf("%v*%c%c", mv.Pt, cx, cy)
	}
	scx, scy := sqToChars(mv.Src)
	dcx, dcy := sqToChars(mv.Dst)
	if mv.Promote {
		return fmt.Sprintf("%c%c%c%c+", scx, scy, dcx, dcy)
	}
	return fmt.Sprintf("%c%c%c%c", scx, scy, dcx, dcy)
}
