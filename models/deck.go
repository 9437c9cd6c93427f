package models

import (
	"encoding/binary"
)

/*
 * 'Deck' is the structured form of a player's deck: the main and side
 * card codes in pick order.
 */
type Deck struct {
	Main []uint32 `json:"main"`
	Side []uint32 `json:"side"`
}

// Encode serializes the deck as two length-prefixed runs of
// little-endian card codes (main first, then side).
func (d Deck) Encode() []byte {
	buf := make([]byte, 0, 8+4*(len(d.Main)+len(d.Side)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(d.Main)))
	for _, code := range d.Main {
		buf = binary.LittleEndian.AppendUint32(buf, code)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(d.Side)))
	for _, code := range d.Side {
		buf = binary.LittleEndian.AppendUint32(buf, code)
	}
	return buf
}

// DecodeDeck parses a buffer produced by Encode. A truncated or
// malformed buffer yields nil.
func DecodeDeck(buf []byte) *Deck {
	main, rest, ok := readCodeRun(buf)
	if !ok {
		return nil
	}
	side, rest, ok := readCodeRun(rest)
	if !ok || len(rest) != 0 {
		return nil
	}
	return &Deck{Main: main, Side: side}
}

func readCodeRun(buf []byte) ([]uint32, []byte, bool) {
	if len(buf) < 4 {
		return nil, nil, false
	}
	count := int(binary.LittleEndian.Uint32(buf))
	buf = buf[4:]
	if count < 0 || len(buf) < 4*count {
		return nil, nil, false
	}
	codes := make([]uint32, count)
	for i := range codes {
		codes[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return codes, buf[4*count:], true
}
