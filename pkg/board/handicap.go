package board

import "fmt"

// Handicap identifies one of the 6 starting setups the engine understands: even games with
// either side to move first, and the two standard piece-handicap games (rook-only, and
// rook-and-bishop), again with either side taking the handicap.
type Handicap uint8

const (
	YourSente Handicap = iota
	YourHishaochi
	YourNimaiochi
	MySente
	MyHishaochi
	MyNimaiochi
)

// SfenHirate, SfenHishaochi and SfenNimaiochi are the canonical starting positions in SFEN
// notation, Sente always to move.
const (
	SfenHirate    = "sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"
	SfenHishaochi = "sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B7/LNSGKGSNL b - 1"
	SfenNimaiochi = "sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/9/LNSGKGSNL b - 1"
)

// My returns which side the engine plays under this handicap.
func (h Handicap) My() Side {
	switch h {
	case MySente, MyHishaochi, MyNimaiochi:
		return Sente
	default:
		return Gote
	}
}

// Your returns which side the opponent plays under this handicap.
func (h Handicap) Your() Side {
	return h.My().Inv()
}

// InitialSfen returns the starting position in SFEN notation for this handicap.
func (h Handicap) InitialSfen() string {
	switch h {
	case YourSente, MySente:
		return SfenHirate
	case YourHishaochi, MyHishaochi:
		return SfenHishaochi
	default:
		return SfenNimaiochi
	}
}

// ParseHandicap parses the String representation of a Handicap.
func ParseHandicap(s string) (Handicap, error) {
	switch s {
	case "your-sente":
		return YourSente, nil
	case "your-hishaochi":
		return YourHishaochi, nil
	case "your-nimaiochi":
		return YourNimaiochi, nil
	case "my-sente":
		return MySente, nil
	case "my-hishaochi":
		return MyHishaochi, nil
	case "my-nimaiochi":
		return MyNimaiochi, nil
	default:
		return 0, fmt.Errorf("board: invalid handicap: %q", s)
	}
}

func (h Handicap) String() string {
	switch h {
	case YourSente:
		return "your-sente"
	case YourHishaochi:
		return "your-hishaochi"
	case YourNimaiochi:
		return "your-nimaiochi"
	case MySente:
		return "my-sente"
	case MyHishaochi:
		return "my-hishaochi"
	default:
		return "my-nimaiochi"
	}
}
