package board

import "fmt"

// Piece represents one of the 14 shogi piece kinds, raw or promoted.
type Piece uint8

const (
	Pawn Piece = iota
	Lance
	Knight
	Silver
	Bishop
	Rook
	Gold
	King
	ProPawn
	ProLance
	ProKnight
	ProSilver
	Horse
	Dragon
)

const NumPieces = 14

func (p Piece) IsValid() bool {
	return p <= Dragon
}

// IsHand returns true iff the piece kind can be held in hand (everything but King and
// the promoted kinds).
func (p Piece) IsHand() bool {
	switch p {
	case Pawn, Lance, Knight, Silver, Bishop, Rook, Gold:
		return true
	default:
		return false
	}
}

func (p Piece) IsRaw() bool {
	return !p.IsPromoted()
}

func (p Piece) IsPromoted() bool {
	switch p {
	case ProPawn, ProLance, ProKnight, ProSilver, Horse, Dragon:
		return true
	default:
		return false
	}
}

// CanPromote returns true iff the raw piece kind has a promoted counterpart.
func (p Piece) CanPromote() bool {
	switch p {
	case Pawn, Lance, Knight, Silver, Bishop, Rook:
		return true
	default:
		return false
	}
}

// ToRaw demotes a promoted piece to its raw kind. Panics if p cannot demote.
func (p Piece) ToRaw() Piece {
	switch p {
	case ProPawn:
		return Pawn
	case ProLance:
		return Lance
	case ProKnight:
		return Knight
	case ProSilver:
		return Silver
	case Horse:
		return Bishop
	case Dragon:
		return Rook
	default:
		panic(fmt.Sprintf("piece %v is not promoted", p))
	}
}

// ToPromoted promotes a raw piece to its promoted kind. Panics if p cannot promote.
func (p Piece) ToPromoted() Piece {
	switch p {
	case Pawn:
		return ProPawn
	case Lance:
		return ProLance
	case Knight:
		return ProKnight
	case Silver:
		return ProSilver
	case Bishop:
		return Horse
	case Rook:
		return Dragon
	default:
		panic(fmt.Sprintf("piece %v cannot promote", p))
	}
}

// IterHand returns the canonical hand-piece iteration order used by opponent evasion-drop
// generation.
func IterHand() []Piece {
	return []Piece{Pawn, Lance, Knight, Silver, Bishop, Rook, Gold}
}

var effectsMeleeSente = map[Piece][]int{
	Pawn:      {-11},
	Knight:    {-23, -21},
	Silver:    {-12, -11, -10, 10, 12},
	Gold:      {-12, -11, -10, -1, 1, 11},
	King:      {-12, -11, -10, -1, 1, 10, 11, 12},
	ProPawn:   {-12, -11, -10, -1, 1, 11},
	ProLance:  {-12, -11, -10, -1, 1, 11},
	ProKnight: {-12, -11, -10, -1, 1, 11},
	ProSilver: {-12, -11, -10, -1, 1, 11},
	Horse:     {-11, -1, 1, 11},
	Dragon:    {-12, -10, 10, 12},
}

var effectsRangedSente = map[Piece][]int{
	Lance:  {-11},
	Bishop: {-12, -10, 10, 12},
	Rook:   {-11, -1, 1, 11},
	Horse:  {-12, -10, 10, 12},
	Dragon: {-11, -1, 1, 11},
}

// EffectsMelee returns the square-index offsets (relative to the piece's square) that the
// piece threatens by a single non-ranged step, from side's point of view.
func (p Piece) EffectsMelee(side Side) []int {
	return sgnOffsets(effectsMeleeSente[p], side)
}

// EffectsRanged returns the square-index offsets of the ranged directions the piece slides
// along, from side's point of view. Each direction is walked repeatedly by the caller.
func (p Piece) EffectsRanged(side Side) []int {
	return sgnOffsets(effectsRangedSente[p], side)
}

func sgnOffsets(base []int, side Side) []int {
	if base == nil {
		return nil
	}
	sgn := side.Sgn()
	ret := make([]int, len(base))
	for i, di := range base {
		ret[i] = di * sgn
	}
	return ret
}

// IDNaitou returns the piece kind ID used by the original engine's internal encoding, as
// referenced by debug logs and record annotations. Value 11 is intentionally unused.
func (p Piece) IDNaitou() int {
	switch p {
	case King:
		return 1
	case Rook:
		return 2
	case Bishop:
		return 3
	case Gold:
		return 4
	case Silver:
		return 5
	case Knight:
		return 6
	case Lance:
		return 7
	case Pawn:
		return 8
	case Dragon:
		return 9
	case Horse:
		return 10
	case ProSilver:
		return 12
	case ProKnight:
		return 13
	case ProLance:
		return 14
	case ProPawn:
		return 15
	default:
		panic(fmt.Sprintf("piece %v has no naitou id", p))
	}
}

// ParsePiece parses a single SFEN piece-kind letter (unpromoted form; promotion '+' is
// handled by the caller).
func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'P':
		return Pawn, true
	case 'L':
		return Lance, true
	case 'N':
		return Knight, true
	case 'S':
		return Silver, true
	case 'B':
		return Bishop, true
	case 'R':
		return Rook, true
	case 'G':
		return Gold, true
	case 'K':
		return King, true
	default:
		return 0, false
	}
}

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "P"
	case Lance:
		return "L"
	case Knight:
		return "N"
	case Silver:
		return "S"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Gold:
		return "G"
	case King:
		return "K"
	case ProPawn:
		return "+P"
	case ProLance:
		return "+L"
	case ProKnight:
		return "+N"
	case ProSilver:
		return "+S"
	case Horse:
		return "+B"
	case Dragon:
		return "+R"
	default:
		return "?"
	}
}
