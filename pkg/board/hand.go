package board

import "fmt"

// Hand holds the count of each hand-eligible piece kind held by one side.
type Hand struct {
	counts [NumPieces]uint8
}

func (h Hand) Get(pt Piece) uint8 {
	mustBeHand(pt)
	return h.counts[pt]
}

func (h *Hand) Set(pt Piece, n uint8) {
	mustBeHand(pt)
	h.counts[pt] = n
}

func (h *Hand) Inc(pt Piece) {
	mustBeHand(pt)
	h.counts[pt]++
}

func (h *Hand) Dec(pt Piece) {
	mustBeHand(pt)
	if h.counts[pt] == 0 {
		panic(fmt.Sprintf("hand piece %v not available", pt))
	}
	h.counts[pt]--
}

func mustBeHand(pt Piece) {
	if !pt.IsHand() {
		panic(fmt.Sprintf("piece %v cannot be held in hand", pt))
	}
}

// Hands holds both sides' hands.
type Hands struct {
	hands [NumSides]Hand
}

func (h Hands) Of(side Side) Hand {
	return h.hands[side]
}

func (h *Hands) Get(side Side, pt Piece) uint8 {
	return h.hands[side].Get(pt)
}

func (h *Hands) Set(side Side, pt Piece, n uint8) {
	h.hands[side].Set(pt, n)
}

func (h *Hands) Inc(side Side, pt Piece) {
	h.hands[side].Inc(pt)
}

func (h *Hands) Dec(side Side, pt Piece) {
	h.hands[side].Dec(pt)
}
