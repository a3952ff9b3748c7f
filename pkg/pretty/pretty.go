// Package pretty renders core types as Japanese-labelled, human-readable text for console
// and debug output. Nothing in the core engine depends on this package; it exists purely as
// a CLI/debug convenience.
package pretty

import (
	"fmt"
	"strings"

	"github.com/taotao54321/naitou/pkg/board"
	"github.com/taotao54321/naitou/pkg/effect"
	"github.com/taotao54321/naitou/pkg/kifu"
	"github.com/taotao54321/naitou/pkg/thinklog"
)

var sideStrs = map[board.Side]string{
	board.Sente: "先手",
	board.Gote:  "後手",
}

// PrettySide renders a side name.
func PrettySide(side board.Side) string {
	return sideStrs[side]
}

var sqXStrs = []string{"１", "２", "３", "４", "５", "６", "７", "８", "９"}
var sqYStrs = []string{"一", "二", "三", "四", "五", "六", "七", "八", "九"}

// PrettySqX renders a file coordinate.
func PrettySqX(x board.SqX) string {
	if !x.IsValid() {
		panic(fmt.Sprintf("pretty: invalid SqX %v", x))
	}
	return sqXStrs[9-x.Get()]
}

// PrettySqY renders a rank coordinate.
func PrettySqY(y board.SqY) string {
	if !y.IsValid() {
		panic(fmt.Sprintf("pretty: invalid SqY %v", y))
	}
	return sqYStrs[y.Get()-1]
}

// PrettySq renders a square as "<file><rank>", e.g. "７六".
func PrettySq(sq board.Sq) string {
	return PrettySqX(sq.X()) + PrettySqY(sq.Y())
}

var pieceStrs = map[board.Piece]string{
	board.Pawn:      "歩",
	board.Lance:     "香",
	board.Knight:    "桂",
	board.Silver:    "銀",
	board.Bishop:    "角",
	board.Rook:      "飛",
	board.Gold:      "金",
	board.King:      "玉",
	board.ProPawn:   "と",
	board.ProLance:  "杏",
	board.ProKnight: "圭",
	board.ProSilver: "全",
	board.Horse:     "馬",
	board.Dragon:    "龍",
}

// PrettyPiece renders a piece kind glyph.
func PrettyPiece(pt board.Piece) string {
	return pieceStrs[pt]
}

// PrettyMove renders a move. Non-drops render as "<src><dst>[成]"; drops render as
// "<dst><piece>打".
func PrettyMove(mv board.Move) string {
	if mv.IsDrop {
		return PrettySq(mv.Dst) + PrettyPiece(mv.Pt) + "打"
	}
	promo := ""
	if mv.Promote {
		promo = "成"
	}
	return PrettySq(mv.Src) + PrettySq(mv.Dst) + promo
}

// PrettyBoardCell renders one board cell: empty, wall, or a side-marked piece glyph ("v"
// prefix for Gote).
func PrettyBoardCell(c board.BoardCell) string {
	switch {
	case c.IsEmpty():
		return " 口"
	case c.IsWall():
		return " 壁"
	case c.Side == board.Sente:
		return " " + PrettyPiece(c.Piece)
	default:
		return "v" + PrettyPiece(c.Piece)
	}
}

// PrettyBoard renders the 9x9 interior of the board, one row per line. The wall frame is
// never shown.
func PrettyBoard(b board.Board) string {
	var sb strings.Builder
	for _, y := range board.IterYValid() {
		for _, x := range board.IterXValid() {
			sb.WriteString(PrettyBoardCell(b.At(board.SqFromXY(x, y))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var handOrder = []board.Piece{
	board.Rook, board.Bishop, board.Gold, board.Silver, board.Knight, board.Lance, board.Pawn,
}

// PrettyHand renders one side's hand as space-separated "<piece>[count]" tokens, omitting
// pieces not held.
func PrettyHand(h board.Hand) string {
	var parts []string
	for _, pt := range handOrder {
		n := h.Get(pt)
		if n == 0 {
			continue
		}
		if n == 1 {
			parts = append(parts, PrettyPiece(pt))
		} else {
			parts = append(parts, fmt.Sprintf("%s%d", PrettyPiece(pt), n))
		}
	}
	return strings.Join(parts, " ")
}

// PrettyHands renders both hands, Sente's then Gote's, one labelled line each.
func PrettyHands(h board.Hands) string {
	return fmt.Sprintf("先手持駒:%s\n後手持駒:%s\n", PrettyHand(h.Of(board.Sente)), PrettyHand(h.Of(board.Gote)))
}

// PrettyPosition renders a full position: side to move, Gote's hand, the board, Sente's
// hand.
func PrettyPosition(p board.Position) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "手番:%s\n", PrettySide(p.Side()))
	fmt.Fprintf(&sb, "後手持駒:%s\n", PrettyHand(p.Hand(board.Gote)))
	sb.WriteString(PrettyBoard(p.Board()))
	fmt.Fprintf(&sb, "先手持駒:%s\n", PrettyHand(p.Hand(board.Sente)))
	return sb.String()
}

// PrettyEffectBoard renders both sides' full effect boards (including the wall frame), each
// cell as "<count><attacker-glyph-or-blank>".
func PrettyEffectBoard(eb effect.Board) string {
	var sb strings.Builder
	for _, side := range board.Sides() {
		fmt.Fprintf(&sb, "%s\n", PrettySide(side))
		for _, y := range board.IterYOk() {
			for _, x := range board.IterXOk() {
				info := eb.At(board.SqFromXY(x, y))[side]
				glyph := "  "
				if info.HasAttacker {
					glyph = PrettyPiece(info.Attacker)
				}
				fmt.Fprintf(&sb, "%d%s ", info.Count, glyph)
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrettyRecordEntry renders a record entry: a move (with "!" prefix for a judged mate), or
// one of the two literal terminal outcome words.
func PrettyRecordEntry(e kifu.RecordEntry) string {
	switch e.Kind {
	case kifu.EntryMove:
		return PrettyMove(e.Move)
	case kifu.EntryMyWin:
		return "！" + PrettyMove(e.Move)
	case kifu.EntryYourSuicide:
		return "相手の自殺手"
	default:
		return "相手の勝ち"
	}
}

// PrettyLog renders a full thinking-cycle trace: progress state, root evaluation and effect
// board, every candidate tried with its evaluation history, and the final best move.
func PrettyLog(l thinklog.Log) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "読み:%d手目 レベル%d-%d\n", l.ProgressPly, l.ProgressLevel, l.ProgressLevelSub)
	fmt.Fprintf(&sb, "定跡状態:%+v\n", l.BookState)
	fmt.Fprintf(&sb, "形勢:%+v\n", l.RootEval)
	sb.WriteString(PrettyEffectBoard(l.RootEffBoard))

	for _, cl := range l.CandLogs {
		fmt.Fprintf(&sb, "候補:%s", PrettyMove(cl.Move))
		if cl.Improved {
			sb.WriteString(" (最善手更新)")
		}
		sb.WriteByte('\n')
		sb.WriteString(PrettyEffectBoard(cl.EffBoard))
		fmt.Fprintf(&sb, "  評価:%+v\n", cl.PosEval)
		for i, e := range cl.Evals {
			fmt.Fprintf(&sb, "  調整%d回目:%+v\n", i, e)
		}
	}

	fmt.Fprintf(&sb, "最善手評価:%+v\n", l.BestEval)
	fmt.Fprintf(&sb, "指し手:%s\n", PrettyRecordEntry(l.RecordEntry))

	return sb.String()
}
